package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/player"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

func engineUnavailableError(kind engine.Kind) error {
	return fmt.Errorf("engine %s not registered", kind)
}

// Request is one notification's text and resolved voice selection, ready
// for dispatch.
type Request struct {
	Text          string
	VoiceID       string
	VoiceProsody  voiceconfig.Prosody // per-request voice_settings override
	Volume        float64
}

// Dispatcher routes a Request to the once-selected engine, retrying
// exactly once against the local fallback chain on any primary-path
// failure.
type Dispatcher struct {
	selected engine.Kind
	registry engine.Registry
	player   *player.Player
	cfg      *voiceconfig.Snapshot
}

// New builds a Dispatcher bound to the cached init-time selection.
func New(selected engine.Kind, registry engine.Registry, p *player.Player, cfg *voiceconfig.Snapshot) *Dispatcher {
	return &Dispatcher{selected: selected, registry: registry, player: p, cfg: cfg}
}

// Selected returns the engine chosen at start-up.
func (d *Dispatcher) Selected() engine.Kind { return d.selected }

// Dispatch renders req's text to speech and plays it, using the cached
// selection as the primary path. Every error is logged and swallowed:
// this method never returns an error that the HTTP caller would see,
// since by the time it runs the caller has already been told success.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) {
	if err := d.dispatchOnce(ctx, d.selected, req); err == nil {
		return
	} else {
		log.Warn("primary dispatch failed, retrying fallback chain", "engine", d.selected, "error", err)
	}

	retry, ok := d.firstFallback(d.selected)
	if !ok {
		log.Warn("no fallback engine available, dropping notification")
		return
	}
	if err := d.dispatchOnce(ctx, retry, req); err != nil {
		log.Warn("fallback dispatch failed, dropping notification", "engine", retry, "error", err)
	}
}

// firstFallback returns the first kind in the fixed local fallback order,
// other than primary, that probed available and has a registered backend.
func (d *Dispatcher) firstFallback(primary engine.Kind) (engine.Kind, bool) {
	for _, k := range engine.LocalFallbackOrder {
		if k == primary {
			continue
		}
		if _, ok := d.registry[k]; ok {
			return k, true
		}
	}
	return engine.Unknown, false
}

func (d *Dispatcher) dispatchOnce(ctx context.Context, kind engine.Kind, req Request) error {
	backend, ok := d.registry[kind]
	if !ok {
		return engineUnavailableError(kind)
	}

	if kind == engine.NeuralGPU {
		return d.dispatchProgressive(ctx, backend, req)
	}

	return d.synthesizeAndPlay(ctx, backend, req)
}

func (d *Dispatcher) synthesizeAndPlay(ctx context.Context, backend engine.Backend, req Request) error {
	voiceEntry := d.cfg.LookupVoice(req.VoiceID)
	prosody := req.VoiceProsody
	if backend.Kind() == engine.Cloud {
		prosody = voiceconfig.Resolve(voiceEntry.Prosody, req.VoiceProsody)
	}

	audio, err := backend.Synthesize(ctx, engine.Request{
		Text:    req.Text,
		Prosody: prosody,
		VoiceID: req.VoiceID,
	})
	if err != nil {
		return err
	}

	return d.player.Play(ctx, audio, req.Volume)
}
