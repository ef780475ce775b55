package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/sanitize"
)

// ErrAllSentencesFailed is returned when a progressive run produced no
// playable audio at all, so the dispatcher's fallback chain should run.
var ErrAllSentencesFailed = errors.New("progressive pipeline: every sentence failed")

type progressiveSlot struct {
	audio engine.Audio
	err   error
}

// dispatchProgressive drives the sentence-by-sentence generation/playback
// overlap for the neural-GPU back-end. Two goroutines, supervised by an
// errgroup, communicate through a small state machine guarded by a single
// mutex/condvar pair: the generator fires SlotFilled(i) and GenerationDone,
// the player loop reacts by advancing its cursor and firing PlayerExited(i)
// (implicit in the loop moving to i+1). A message that splits into at most
// one sentence skips the pipeline entirely.
func (d *Dispatcher) dispatchProgressive(ctx context.Context, backend engine.Backend, req Request) error {
	sentences := sanitize.SplitSentences(req.Text)
	if len(sentences) <= 1 {
		return d.synthesizeAndPlay(ctx, backend, req)
	}

	slots := make([]progressiveSlot, len(sentences))
	filled := make([]bool, len(sentences))

	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	generationDone := false

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for i, sentence := range sentences {
			audio, err := backend.Synthesize(gctx, engine.Request{Text: sentence})
			if err != nil {
				log.Warn("progressive pipeline sentence synthesis failed", "index", i, "error", err)
			}

			mu.Lock()
			slots[i] = progressiveSlot{audio: audio, err: err}
			filled[i] = true
			mu.Unlock()
			cond.Broadcast() // SlotFilled(i)
		}

		mu.Lock()
		generationDone = true
		mu.Unlock()
		cond.Broadcast() // GenerationDone
		return nil
	})

	var playedAny bool
	g.Go(func() error {
		for cursor := 0; cursor < len(sentences); cursor++ {
			mu.Lock()
			for !filled[cursor] {
				cond.Wait()
			}
			s := slots[cursor]
			mu.Unlock()

			if s.err != nil || len(s.audio.Bytes) == 0 {
				continue
			}
			if err := d.player.Play(gctx, s.audio, req.Volume); err != nil {
				log.Warn("progressive pipeline playback failed", "index", cursor, "error", err)
				continue
			}
			playedAny = true
			// PlayerExited(cursor); the loop advancing is the only signal
			// the player side needs to move on to the next populated slot.
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if !playedAny {
		return ErrAllSentencesFailed
	}
	return nil
}
