package engine

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

// osTTSCandidates lists, in fixed priority order, the platform speech
// tools OS-TTS looks for. The first candidate present on PATH wins.
var osTTSCandidates = []string{"say", "espeak-ng", "espeak", "festival"}

// Probes is the cached outcome of the start-up availability check for each
// back-end. Computed once; never revised mid-run.
type Probes struct {
	Cloud           bool
	NeuralCPU       bool
	NeuralGPU       bool
	OSTTS           bool
	OSTTSBinary     string
	NeuralCPUBinary string
}

// Probe runs every back-end's availability check synchronously and logs
// the outcome. ctx bounds the Neural-GPU sidecar health check.
func Probe(ctx context.Context, cfg *voiceconfig.Snapshot) Probes {
	p := Probes{
		Cloud: cfg.CloudConfigured(),
	}
	log.Info("probed cloud back-end", "available", p.Cloud)

	if path, err := exec.LookPath("piper"); err == nil {
		if cfg.PiperModel != "" {
			if _, statErr := os.Stat(cfg.PiperModel); statErr == nil {
				p.NeuralCPU = true
				p.NeuralCPUBinary = path
			}
		}
	}
	log.Info("probed neural-cpu back-end", "available", p.NeuralCPU)

	p.NeuralGPU = probeNeuralGPU(ctx, cfg.SidecarPort)
	log.Info("probed neural-gpu back-end", "available", p.NeuralGPU)

	for _, candidate := range osTTSCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			p.OSTTS = true
			p.OSTTSBinary = path
			break
		}
	}
	log.Info("probed os-tts back-end", "available", p.OSTTS, "binary", p.OSTTSBinary)

	return p
}

func probeNeuralGPU(ctx context.Context, sidecarPort int) bool {
	if sidecarPort <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := sidecarHealthURL(sidecarPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
