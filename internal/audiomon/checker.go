package audiomon

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xsistens/voiced/internal/player"
)

const queryTimeout = 2 * time.Second

// stream is one active audio stream reported by the platform audio daemon.
type stream struct {
	applicationName string
	mediaName       string
}

var (
	sinkInputBlock  = regexp.MustCompile(`(?m)^Sink Input #\d+`)
	applicationName = regexp.MustCompile(`application\.name\s*=\s*"([^"]*)"`)
	mediaName       = regexp.MustCompile(`media\.name\s*=\s*"([^"]*)"`)
)

// Checker decides whether a queued item should be dropped because
// non-daemon audio is already active.
type Checker struct {
	uncompressedPlayer string
	extension          string
}

// New builds a Checker bound to the uncompressed-format player candidate
// from the start-up probe — the only player this daemon's own streams can
// ever appear under.
func New(probes player.Probes) *Checker {
	ext := ""
	if probes.UncompressedOK {
		ext = ".wav"
	}
	return &Checker{uncompressedPlayer: probes.Uncompressed.Name, extension: ext}
}

// ForeignAudioActive reports whether at least one currently active audio
// stream does not belong to this daemon. It fails open: any error querying
// the platform audio daemon (missing pactl, timeout, malformed output)
// is treated as "no foreign audio," per the daemon's fail-open contract.
func (c *Checker) ForeignAudioActive(ctx context.Context) bool {
	if _, err := exec.LookPath("pactl"); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		log.Warn("external-audio query failed, proceeding", "error", err)
		return false
	}

	for _, s := range parseSinkInputs(string(out)) {
		if !c.belongsToDaemon(s) {
			return true
		}
	}
	return false
}

func (c *Checker) belongsToDaemon(s stream) bool {
	if s.applicationName != c.uncompressedPlayer {
		return false
	}
	if c.extension == "" {
		return false
	}
	return strings.HasPrefix(s.mediaName, "/tmp/"+"voice-") && strings.HasSuffix(s.mediaName, c.extension)
}

func parseSinkInputs(output string) []stream {
	indices := sinkInputBlock.FindAllStringIndex(output, -1)
	if indices == nil {
		return nil
	}

	var streams []stream
	for i, idx := range indices {
		end := len(output)
		if i+1 < len(indices) {
			end = indices[i+1][0]
		}
		block := output[idx[0]:end]

		var s stream
		if m := applicationName.FindStringSubmatch(block); m != nil {
			s.applicationName = m[1]
		}
		if m := mediaName.FindStringSubmatch(block); m != nil {
			s.mediaName = m[1]
		}
		streams = append(streams, s)
	}
	return streams
}
