package engine

import (
	"context"
	"os/exec"
)

// OSTTSBackend speaks text directly through the platform's speech tool;
// there is no intermediate audio buffer and the Audio Player is never
// invoked for this back-end.
type OSTTSBackend struct {
	binary string
}

// NewOSTTSBackend builds an OS-TTS back-end bound to the candidate binary
// resolved by Probe.
func NewOSTTSBackend(binary string) *OSTTSBackend {
	return &OSTTSBackend{binary: binary}
}

func (o *OSTTSBackend) Kind() Kind { return OSTTS }

// Synthesize blocks until the speech tool exits and always returns a
// FormatNone Audio: there is nothing for the caller to play.
func (o *OSTTSBackend) Synthesize(ctx context.Context, req Request) (Audio, error) {
	cmd := exec.CommandContext(ctx, o.binary, req.Text)
	if err := cmd.Run(); err != nil {
		return Audio{Format: FormatNone}, err
	}
	return Audio{Format: FormatNone}, nil
}
