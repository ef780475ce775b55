package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/xsistens/voiced/internal/ttyperrors"
)

// NeuralCPUBackend spawns a local neural TTS binary (piper-compatible)
// once per request. Prosody fields do not apply to this back-end.
type NeuralCPUBackend struct {
	binary    string
	modelPath string
}

// NewNeuralCPUBackend builds a Neural-CPU back-end bound to a specific
// binary and voice-model path, as resolved by Probe.
func NewNeuralCPUBackend(binary, modelPath string) *NeuralCPUBackend {
	return &NeuralCPUBackend{binary: binary, modelPath: modelPath}
}

func (n *NeuralCPUBackend) Kind() Kind { return NeuralCPU }

func (n *NeuralCPUBackend) Synthesize(ctx context.Context, req Request) (Audio, error) {
	outputPath := filepath.Join(os.TempDir(), "voiced-neuralcpu-"+uuid.NewString()+".wav")
	defer os.Remove(outputPath)

	cmd := exec.CommandContext(ctx, n.binary, "-m", n.modelPath, "-f", outputPath, "-q")

	// Stdin must be wired up before Start to avoid a race between the
	// child reading stdin and us writing to it.
	cmd.Stdin = strings.NewReader(req.Text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Audio{}, fmt.Errorf("start neural-cpu engine: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return Audio{}, ttyperrors.EngineExit(NeuralCPU.String(), exitCode, stderr.String())
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return Audio{}, fmt.Errorf("read neural-cpu output: %w", err)
	}

	return Audio{Bytes: data, Format: FormatUncompressed}, nil
}
