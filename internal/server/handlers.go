package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime"
	"strings"

	"github.com/xsistens/voiced/internal/queue"
	"github.com/xsistens/voiced/internal/sanitize"
	"github.com/xsistens/voiced/internal/ttyperrors"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Status: "error", Message: message})
}

// validationMessage turns a sanitize.Validate error into the daemon's
// user-facing rejection text, e.g. "Message too long" for a field that
// sanitises down to over MaxFieldLength runes. Falls back to a generic
// "Invalid <field>" if err isn't the expected *ttyperrors.Error shape.
func validationMessage(field string, err error) string {
	var verr *ttyperrors.Error
	if errors.As(err, &verr) && verr.Reason != "" {
		return strings.ToUpper(field[:1]) + field[1:] + " " + verr.Reason
	}
	return "Invalid " + field
}

// NotifyItem is what lands on the serial audio queue: sanitised text plus
// the resolved voice selection, ready for the dispatcher. Exported so the
// daemon's consumer goroutine can type-assert queue.Item.Payload.
type NotifyItem struct {
	Title   string
	Message string
	VoiceID string
	Prosody voiceconfig.Prosody
	Volume  float64
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := req.Title
	if title == "" {
		title = defaultTitle
	}
	message := req.Message
	if message == "" {
		message = defaultMessage
	}

	cleanTitle, err := sanitize.Validate("title", title)
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage("title", err))
		return
	}
	cleanMessage, err := sanitize.Validate("message", message)
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage("message", err))
		return
	}

	desktopNotify(cleanTitle, cleanMessage)

	if !req.voiceEnabled() {
		writeJSON(w, http.StatusOK, apiResponse{Status: "success", Message: "Notification sent"})
		return
	}

	speechText := sanitize.PrepareForSpeech(cleanMessage, s.cfg.Pronunciations)

	voiceID := req.resolvedVoiceID(s.cfg.DefaultVoiceID)
	volume := req.resolvedVolume()

	item := NotifyItem{
		Title:   cleanTitle,
		Message: speechText,
		VoiceID: voiceID,
		Prosody: req.VoiceSettings,
		Volume:  volume,
	}

	if _, err := s.q.Enqueue(item); err != nil {
		if errors.Is(err, queue.ErrQueueClosed) {
			writeError(w, http.StatusInternalServerError, "Service shutting down")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Status: "success", Message: "Notification sent"})
}

func (s *Server) handlePai(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload, _ := json.Marshal(notifyRequest{Title: body.Title, Message: body.Message})
	r.Body = io.NopCloser(bytes.NewReader(payload))
	s.handleNotify(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:               "healthy",
		Port:                 s.cfg.Port,
		VoiceSystem:          s.selectedEngine.String(),
		SelectedLocalEngine:  s.selectedEngine.String(),
		ElevenLabsConfigured: s.cfg.CloudConfigured(),
		DefaultVoiceID:       s.cfg.DefaultVoiceID,
		Platform:             runtime.GOOS,
	})
}
