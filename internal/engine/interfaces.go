package engine

import (
	"context"

	"github.com/xsistens/voiced/internal/voiceconfig"
)

// Audio is the in-memory result of a synthesis call. A Format of
// FormatNone (OS-TTS only) means the back-end has already spoken the text
// itself; Bytes is empty and the daemon does not hand anything to the
// player.
type Audio struct {
	Bytes  []byte
	Format Format
}

// Request carries everything a back-end needs to synthesise one
// notification message.
type Request struct {
	Text    string
	Prosody voiceconfig.Prosody
	VoiceID string // cloud voice id; empty means the back-end's default
}

// Backend is the contract every TTS back-end satisfies:
// synthesize(text, prosody) -> (audio_bytes, format), or a FormatNone
// Audio for a back-end that speaks directly.
type Backend interface {
	Kind() Kind
	Synthesize(ctx context.Context, req Request) (Audio, error)
}
