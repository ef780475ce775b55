package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/player"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

type fakeBackend struct {
	kind     engine.Kind
	audio    engine.Audio
	err      error
	calls    int
	onCalled func(req engine.Request)
}

func (f *fakeBackend) Kind() engine.Kind { return f.kind }

func (f *fakeBackend) Synthesize(ctx context.Context, req engine.Request) (engine.Audio, error) {
	f.calls++
	if f.onCalled != nil {
		f.onCalled(req)
	}
	return f.audio, f.err
}

func testSnapshot() *voiceconfig.Snapshot {
	return &voiceconfig.Snapshot{Voices: map[string]voiceconfig.VoiceEntry{}}
}

func TestDispatchPrimarySuccessNoRetry(t *testing.T) {
	primary := &fakeBackend{kind: engine.Cloud, audio: engine.Audio{Bytes: []byte("x"), Format: engine.FormatUncompressed}}
	fallback := &fakeBackend{kind: engine.OSTTS}

	reg := engine.Registry{engine.Cloud: primary, engine.OSTTS: fallback}
	d := New(engine.Cloud, reg, fakePlayerWithWorkingCandidate(t), testSnapshot())

	d.Dispatch(t.Context(), Request{Text: "hello"})

	if primary.calls != 1 {
		t.Errorf("expected primary backend called once, got %d", primary.calls)
	}
	if fallback.calls != 0 {
		t.Errorf("expected fallback backend never called, got %d", fallback.calls)
	}
}

func TestDispatchFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeBackend{kind: engine.Cloud, err: errors.New("upstream down")}
	fallback := &fakeBackend{kind: engine.OSTTS, audio: engine.Audio{Format: engine.FormatNone}}

	reg := engine.Registry{engine.Cloud: primary, engine.OSTTS: fallback}
	fakePlayer := player.New(player.Probes{})
	d := New(engine.Cloud, reg, fakePlayer, testSnapshot())

	d.Dispatch(t.Context(), Request{Text: "hello"})

	if primary.calls != 1 {
		t.Errorf("expected primary backend called once, got %d", primary.calls)
	}
	if fallback.calls != 1 {
		t.Errorf("expected fallback backend called once, got %d", fallback.calls)
	}
}

func TestDispatchFallbackSkipsSameKindAsPrimary(t *testing.T) {
	primary := &fakeBackend{kind: engine.NeuralCPU, err: errors.New("exit 1")}
	fallback := &fakeBackend{kind: engine.OSTTS, audio: engine.Audio{Format: engine.FormatNone}}

	reg := engine.Registry{engine.NeuralCPU: primary, engine.OSTTS: fallback}
	fakePlayer := player.New(player.Probes{})
	d := New(engine.NeuralCPU, reg, fakePlayer, testSnapshot())

	d.Dispatch(t.Context(), Request{Text: "hello"})

	if fallback.calls != 1 {
		t.Errorf("expected fallback (os-tts) called once after neural-cpu failure, got %d", fallback.calls)
	}
}

func TestDispatchNoFallbackAvailableSwallowsError(t *testing.T) {
	primary := &fakeBackend{kind: engine.Cloud, err: errors.New("upstream down")}
	reg := engine.Registry{engine.Cloud: primary}
	fakePlayer := player.New(player.Probes{})
	d := New(engine.Cloud, reg, fakePlayer, testSnapshot())

	d.Dispatch(t.Context(), Request{Text: "hello"}) // must not panic

	if primary.calls != 1 {
		t.Errorf("expected primary backend called once, got %d", primary.calls)
	}
}

func TestDispatchSelected(t *testing.T) {
	d := New(engine.OSTTS, engine.Registry{}, player.New(player.Probes{}), testSnapshot())
	if d.Selected() != engine.OSTTS {
		t.Errorf("Selected() = %v, want OSTTS", d.Selected())
	}
}
