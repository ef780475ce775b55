package player

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/xsistens/voiced/internal/engine"
)

// Candidate is one external player binary this package knows how to drive.
// VolumeArgs is nil when the binary has no volume flag of its own.
type Candidate struct {
	Name       string
	ArgvPrefix []string
	VolumeArgs func(volume float64) []string
}

func paVolumeArgs(volume float64) []string {
	return []string{fmt.Sprintf("--volume=%d", int(volume*65536))}
}

func mpvVolumeArgs(volume float64) []string {
	return []string{fmt.Sprintf("--volume=%d", int(volume*100))}
}

func mpg123VolumeArgs(volume float64) []string {
	return []string{"-f", fmt.Sprintf("%d", int(volume*32768))}
}

func afplayVolumeArgs(volume float64) []string {
	return []string{"-v", fmt.Sprintf("%.2f", volume)}
}

// uncompressedCandidates lists, in fixed priority order, the players tried
// for an uncompressed (WAV) buffer: system-audio-daemon client, generic
// media player, then an ALSA-style raw player.
var uncompressedCandidates = []Candidate{
	{Name: "paplay", ArgvPrefix: []string{"paplay"}, VolumeArgs: paVolumeArgs},
	{Name: "mpv", ArgvPrefix: []string{"mpv", "--no-video", "--really-quiet"}, VolumeArgs: mpvVolumeArgs},
	{Name: "aplay", ArgvPrefix: []string{"aplay", "-q"}, VolumeArgs: nil},
}

// compressedCandidates lists, in fixed priority order, the players tried
// for a compressed (MP3) buffer: generic media player, dedicated decoder,
// then the system-audio-daemon client.
var compressedCandidates = []Candidate{
	{Name: "mpv", ArgvPrefix: []string{"mpv", "--no-video", "--really-quiet"}, VolumeArgs: mpvVolumeArgs},
	{Name: "mpg123", ArgvPrefix: []string{"mpg123", "-q"}, VolumeArgs: mpg123VolumeArgs},
	{Name: "paplay", ArgvPrefix: []string{"paplay"}, VolumeArgs: paVolumeArgs},
}

// darwinCandidate is the macOS built-in tool, which handles both formats
// and accepts a uniform -v volume flag.
var darwinCandidate = Candidate{Name: "afplay", ArgvPrefix: []string{"afplay"}, VolumeArgs: afplayVolumeArgs}

// candidatesForFormat returns the fixed-order candidate list for format on
// the current platform.
func candidatesForFormat(format engine.Format) []Candidate {
	if runtime.GOOS == "darwin" {
		return []Candidate{darwinCandidate}
	}
	if format == engine.FormatCompressed {
		return compressedCandidates
	}
	return uncompressedCandidates
}

// ProbeFormat returns the first candidate for format whose binary is on
// PATH, and false if none is present.
func ProbeFormat(format engine.Format) (Candidate, bool) {
	for _, c := range candidatesForFormat(format) {
		if _, err := exec.LookPath(c.ArgvPrefix[0]); err == nil {
			return c, true
		}
	}
	return Candidate{}, false
}
