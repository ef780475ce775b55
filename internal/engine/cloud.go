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

const cloudHost = "api.elevenlabs.io"

// CloudBackend issues one HTTPS POST per request against the cloud TTS
// provider. No retries: a non-success response is reported as
// UpstreamRejected and left for the dispatcher's fallback chain.
type CloudBackend struct {
	apiKey   string
	voiceID  string
	baseURL  string
	outbound *rate.Limiter
}

// NewCloudBackend builds a Cloud back-end. outboundPerMinute throttles the
// daemon's own outbound call rate to the provider, independent of the
// inbound per-client HTTP rate limit; 0 disables the throttle.
func NewCloudBackend(apiKey, voiceID string, outboundPerMinute int) *CloudBackend {
	return newCloudBackend(apiKey, voiceID, "https://"+cloudHost, outboundPerMinute)
}

func newCloudBackend(apiKey, voiceID, baseURL string, outboundPerMinute int) *CloudBackend {
	var limiter *rate.Limiter
	if outboundPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(outboundPerMinute)), 1)
	}
	return &CloudBackend{
		apiKey:   apiKey,
		voiceID:  voiceID,
		baseURL:  baseURL,
		outbound: limiter,
	}
}

func (c *CloudBackend) Kind() Kind { return Cloud }

type cloudVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type cloudRequestBody struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings cloudVoiceSettings `json:"voice_settings"`
}

func (c *CloudBackend) Synthesize(ctx context.Context, req Request) (Audio, error) {
	if c.outbound != nil {
		if err := c.outbound.Wait(ctx); err != nil {
			return Audio{}, err
		}
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = c.voiceID
	}

	body := cloudRequestBody{
		Text:    req.Text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: cloudVoiceSettings{
			Stability:       *req.Prosody.Stability,
			SimilarityBoost: *req.Prosody.SimilarityBoost,
			Style:           *req.Prosody.Style,
			Speed:           *req.Prosody.Speed,
			UseSpeakerBoost: *req.Prosody.UseSpeakerBoost,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Audio{}, fmt.Errorf("marshal cloud request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Audio{}, fmt.Errorf("build cloud request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := sharedHTTPClient.Do(httpReq)
	if err != nil {
		return Audio{}, fmt.Errorf("cloud request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return Audio{}, ttyperrors.UpstreamRejected(Cloud.String(), resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("read cloud response: %w", err)
	}

	return Audio{Bytes: data, Format: FormatCompressed}, nil
}
