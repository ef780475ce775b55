package player

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/ttyperrors"
)

// TempFilePrefix names every temporary audio file this package writes.
// External-audio detection depends on recognising this prefix, so it must
// never change independently of that consumer.
const TempFilePrefix = "voice-"

// Player plays synthesised audio buffers through the probed external
// players, one at a time.
type Player struct {
	probes Probes
}

// New builds a Player bound to a start-up probe result.
func New(probes Probes) *Player {
	return &Player{probes: probes}
}

// Play writes audio to a uniquely named temp file, spawns the probed
// player for its format, and waits for it to exit. The temp file is
// removed on every exit path — success, non-zero exit, or spawn failure.
// volume is in [0.0, 1.0], always a resolved concrete value by the time it
// reaches Play (voiceconfig.DefaultVolume when the caller named none); a
// candidate whose player has no volume flag of its own plays at whatever
// level the binary itself defaults to.
func (p *Player) Play(ctx context.Context, audio engine.Audio, volume float64) error {
	if audio.Format == engine.FormatNone {
		return nil
	}

	candidate, ok := p.candidateFor(audio.Format)
	if !ok {
		return fmt.Errorf("no audio player available for format %s", audio.Format)
	}

	path := filepath.Join(os.TempDir(), TempFilePrefix+uuid.NewString()+"."+audio.Format.Extension())
	if err := os.WriteFile(path, audio.Bytes, 0o600); err != nil {
		return fmt.Errorf("write temp audio file: %w", err)
	}
	defer os.Remove(path)

	log.Debug("playing audio", "player", candidate.Name, "size", humanize.Bytes(uint64(len(audio.Bytes))), "format", audio.Format)

	argv := append([]string{}, candidate.ArgvPrefix[1:]...)
	if candidate.VolumeArgs != nil {
		argv = append(argv, candidate.VolumeArgs(volume)...)
	}
	argv = append(argv, path)

	cmd := exec.CommandContext(ctx, candidate.ArgvPrefix[0], argv...)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return ttyperrors.PlaybackFailed(candidate.Name, exitCode)
	}

	return nil
}

func (p *Player) candidateFor(format engine.Format) (Candidate, bool) {
	switch format {
	case engine.FormatUncompressed:
		return p.probes.Uncompressed, p.probes.UncompressedOK
	case engine.FormatCompressed:
		return p.probes.Compressed, p.probes.CompressedOK
	default:
		return Candidate{}, false
	}
}
