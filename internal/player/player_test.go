package player

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/ttyperrors"
)

func fakeCandidate(t *testing.T, script string) Candidate {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-player.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake player: %v", err)
	}
	return Candidate{Name: "fake-player", ArgvPrefix: []string{path}}
}

func TestPlayerPlaySuccessRemovesTempFile(t *testing.T) {
	var capturedPath string
	candidate := fakeCandidate(t, `#!/bin/sh
echo "$1" > /tmp/voiced-player-test-lastarg
exit 0
`)
	defer os.Remove("/tmp/voiced-player-test-lastarg")

	p := New(Probes{Uncompressed: candidate, UncompressedOK: true})
	err := p.Play(t.Context(), engine.Audio{Bytes: []byte("wav-data"), Format: engine.FormatUncompressed}, 0)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, readErr := os.ReadFile("/tmp/voiced-player-test-lastarg")
	if readErr == nil {
		capturedPath = strings.TrimSpace(string(data))
	}
	if capturedPath != "" {
		if _, statErr := os.Stat(capturedPath); !os.IsNotExist(statErr) {
			t.Errorf("expected temp file %q to be removed after Play()", capturedPath)
		}
	}
}

func TestPlayerPlayNonZeroExitReportsPlaybackFailed(t *testing.T) {
	candidate := fakeCandidate(t, `#!/bin/sh
exit 3
`)
	p := New(Probes{Uncompressed: candidate, UncompressedOK: true})
	err := p.Play(t.Context(), engine.Audio{Bytes: []byte("wav-data"), Format: engine.FormatUncompressed}, 0)
	if !errors.Is(err, ttyperrors.ErrPlaybackFailed) {
		t.Fatalf("expected ErrPlaybackFailed, got %v", err)
	}
}

func TestPlayerPlayZeroVolumeStillPassesVolumeArg(t *testing.T) {
	argsPath := filepath.Join(t.TempDir(), "captured-args")
	candidate := fakeCandidate(t, `#!/bin/sh
echo "$@" > `+argsPath+`
exit 0
`)
	candidate.VolumeArgs = func(volume float64) []string {
		return []string{"--volume=0"}
	}

	p := New(Probes{Uncompressed: candidate, UncompressedOK: true})
	if err := p.Play(t.Context(), engine.Audio{Bytes: []byte("wav-data"), Format: engine.FormatUncompressed}, 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, err := os.ReadFile(argsPath)
	if err != nil {
		t.Fatalf("read captured args: %v", err)
	}
	if !strings.Contains(string(data), "--volume=0") {
		t.Errorf("expected an explicit mute volume arg for volume=0, got argv %q", string(data))
	}
}

func TestPlayerPlayNoFormatNoneSkipsPlayback(t *testing.T) {
	p := New(Probes{})
	if err := p.Play(t.Context(), engine.Audio{Format: engine.FormatNone}, 0); err != nil {
		t.Fatalf("Play() with FormatNone should be a no-op, got error %v", err)
	}
}

func TestPlayerPlayNoCandidateAvailable(t *testing.T) {
	p := New(Probes{})
	err := p.Play(t.Context(), engine.Audio{Bytes: []byte("x"), Format: engine.FormatCompressed}, 0)
	if err == nil {
		t.Fatal("expected error when no player candidate is available")
	}
}
