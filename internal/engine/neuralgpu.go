package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/xsistens/voiced/internal/ttyperrors"
)

// DefaultGPUSpeaker and DefaultGPUInstruct apply whenever the caller
// supplies no explicit speaker or style directive.
const (
	DefaultGPUSpeaker  = "Ryan"
	DefaultGPUInstruct = "Deliver this in a stable, professional tone; read numbers naturally."
)

func sidecarHealthURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/health", port)
}

func sidecarGenerateURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/tts/generate", port)
}

// NeuralGPUBackend calls a local HTTP sidecar that wraps a GPU-resident
// neural synthesiser. Used by the dispatcher either directly (single
// sentence) or by the progressive pipeline (one call per sentence).
type NeuralGPUBackend struct {
	port     int
	speaker  string
	instruct string
	outbound *rate.Limiter
}

// NewNeuralGPUBackend builds a Neural-GPU back-end bound to the sidecar
// port resolved at start-up.
func NewNeuralGPUBackend(port int, outboundPerMinute int) *NeuralGPUBackend {
	var limiter *rate.Limiter
	if outboundPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(outboundPerMinute)), 1)
	}
	return &NeuralGPUBackend{
		port:     port,
		speaker:  DefaultGPUSpeaker,
		instruct: DefaultGPUInstruct,
		outbound: limiter,
	}
}

func (g *NeuralGPUBackend) Kind() Kind { return NeuralGPU }

type gpuGenerateRequest struct {
	Text     string `json:"text"`
	Speaker  string `json:"speaker"`
	Instruct string `json:"instruct"`
	Language string `json:"language"`
}

// Synthesize applies the documented 60-second per-call timeout on top of
// whatever deadline ctx already carries.
func (g *NeuralGPUBackend) Synthesize(ctx context.Context, req Request) (Audio, error) {
	if g.outbound != nil {
		if err := g.outbound.Wait(ctx); err != nil {
			return Audio{}, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	speaker := g.speaker
	instruct := g.instruct

	body := gpuGenerateRequest{
		Text:     req.Text,
		Speaker:  speaker,
		Instruct: instruct,
		Language: "en",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Audio{}, fmt.Errorf("marshal neural-gpu request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, sidecarGenerateURL(g.port), bytes.NewReader(payload))
	if err != nil {
		return Audio{}, fmt.Errorf("build neural-gpu request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := sharedHTTPClient.Do(httpReq)
	if err != nil {
		return Audio{}, fmt.Errorf("neural-gpu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return Audio{}, ttyperrors.UpstreamRejected(NeuralGPU.String(), resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("read neural-gpu response: %w", err)
	}

	return Audio{Bytes: data, Format: FormatUncompressed}, nil
}
