package daemon

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/xsistens/voiced/internal/audiomon"
	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/pipeline"
	"github.com/xsistens/voiced/internal/player"
	"github.com/xsistens/voiced/internal/queue"
	"github.com/xsistens/voiced/internal/server"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

// outboundPerMinute throttles the daemon's own calls out to the Cloud and
// Neural-GPU back-ends, independent of the inbound per-client HTTP limit.
const outboundPerMinute = 60

// queueCapacity bounds the serial audio queue; a notification arriving
// while it is full is dropped rather than blocking the HTTP handler.
const queueCapacity = 64

// Daemon is the single long-lived value binding every component built at
// start-up: configuration, probed engines, the audio queue, the
// dispatcher, the external-audio checker, and the HTTP server. Nothing
// here is a package-level global; every request path reaches its
// dependencies through this struct.
type Daemon struct {
	cfg        *voiceconfig.Snapshot
	queue      *queue.Queue
	dispatcher *pipeline.Dispatcher
	monitor    *audiomon.Checker
	httpServer *server.Server
}

// New probes every back-end and external player, builds the registry and
// dispatcher, and wires the HTTP server on top of a fresh audio queue. It
// performs no I/O beyond probing; ListenAndServe/Run start the daemon.
// queueDepth <= 0 selects the default depth.
func New(ctx context.Context, cfg *voiceconfig.Snapshot, queueDepth int) *Daemon {
	enginesProbed := engine.Probe(ctx, cfg)
	playersProbed := player.Probe()

	registry := buildRegistry(cfg, enginesProbed)

	preferred, hasPreference := engine.ParsePreferred(cfg.PreferredEngine)
	selected, warn := engine.Select(enginesProbed, preferred, hasPreference)
	if warn {
		log.Warn("preferred engine unavailable, falling back", "preferred", preferred)
	}
	log.Info("selected engine", "engine", selected)

	if queueDepth <= 0 {
		queueDepth = queueCapacity
	}
	q := queue.New(queueDepth)
	p := player.New(playersProbed)
	dispatcher := pipeline.New(selected, registry, p, cfg)
	monitor := audiomon.New(playersProbed)
	httpServer := server.New(cfg, q, selected)

	return &Daemon{
		cfg:        cfg,
		queue:      q,
		dispatcher: dispatcher,
		monitor:    monitor,
		httpServer: httpServer,
	}
}

// buildRegistry constructs a Backend for every Kind that probed available.
// A Kind absent here is skipped by both initial selection and the
// fallback chain.
func buildRegistry(cfg *voiceconfig.Snapshot, probes engine.Probes) engine.Registry {
	reg := engine.Registry{}

	if probes.Cloud {
		reg[engine.Cloud] = engine.NewCloudBackend(cfg.CloudAPIKey, cfg.CloudVoiceID, outboundPerMinute)
	}
	if probes.NeuralCPU {
		reg[engine.NeuralCPU] = engine.NewNeuralCPUBackend(probes.NeuralCPUBinary, cfg.PiperModel)
	}
	if probes.NeuralGPU {
		reg[engine.NeuralGPU] = engine.NewNeuralGPUBackend(cfg.SidecarPort, outboundPerMinute)
	}
	if probes.OSTTS {
		reg[engine.OSTTS] = engine.NewOSTTSBackend(probes.OSTTSBinary)
	}

	return reg
}

// Run starts the consumer loop and the HTTP server, blocking until ctx is
// cancelled. Both halves are stopped before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.consume(ctx)
	}()

	err := d.httpServer.ListenAndServe(ctx)
	d.queue.Close()
	wg.Wait()
	return err
}

// consume drains the audio queue one item at a time, dropping anything
// queued while foreign audio is active, until ctx is cancelled or the
// queue is closed.
func (d *Daemon) consume(ctx context.Context) {
	for {
		item, err := d.queue.Dequeue(ctx)
		if err != nil {
			return
		}

		notify, ok := item.Payload.(server.NotifyItem)
		if !ok {
			log.Warn("unexpected queue payload type", "type", item.Payload)
			item.Resolve(queue.Result{Skipped: true})
			continue
		}

		if d.monitor.ForeignAudioActive(ctx) {
			log.Debug("dropping notification, foreign audio active")
			item.Resolve(queue.Result{Skipped: true})
			continue
		}

		d.dispatcher.Dispatch(ctx, pipeline.Request{
			Text:         notify.Message,
			VoiceID:      notify.VoiceID,
			VoiceProsody: notify.Prosody,
			Volume:       notify.Volume,
		})
		item.Resolve(queue.Result{})
	}
}
