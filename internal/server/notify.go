package server

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const desktopNotifyTimeout = 3 * time.Second

// desktopNotify best-effort shells out to the platform notification tool.
// It runs synchronously on the HTTP path (unlike voice dispatch, which is
// queued) and never reports failure to the caller.
func desktopNotify(title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), desktopNotifyTimeout)
	defer cancel()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := `display notification "` + escapeAppleScriptString(message) + `" with title "` + escapeAppleScriptString(title) + `"`
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	default:
		if _, err := exec.LookPath("notify-send"); err != nil {
			return
		}
		cmd = exec.CommandContext(ctx, "notify-send", title, message)
	}

	if err := cmd.Run(); err != nil {
		log.Warn("desktop notification failed", "error", err)
	}
}

// escapeAppleScriptString backslash-escapes the two characters that would
// otherwise let a title or message break out of the quoted string literal
// osascript -e evaluates: a bare `"` closes the literal early, and a bare
// `\` changes the meaning of whatever follows it.
func escapeAppleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
