package engine

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeNeuralGPUHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if ok := probeNeuralGPU(t.Context(), listenerPort(t, srv.URL)); !ok {
		t.Fatal("expected healthy sidecar to probe available")
	}
}

func TestProbeNeuralGPUUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if ok := probeNeuralGPU(t.Context(), listenerPort(t, srv.URL)); ok {
		t.Fatal("expected unhealthy sidecar to probe unavailable")
	}
}

func TestProbeNeuralGPUNoPortConfigured(t *testing.T) {
	if ok := probeNeuralGPU(t.Context(), 0); ok {
		t.Fatal("expected zero port to probe unavailable without making a request")
	}
}

func TestProbeOSTTSCandidatesFixedOrder(t *testing.T) {
	want := []string{"say", "espeak-ng", "espeak", "festival"}
	if len(osTTSCandidates) != len(want) {
		t.Fatalf("osTTSCandidates length = %d, want %d", len(osTTSCandidates), len(want))
	}
	for i, c := range want {
		if osTTSCandidates[i] != c {
			t.Errorf("osTTSCandidates[%d] = %q, want %q", i, osTTSCandidates[i], c)
		}
	}
}
