package server

import "github.com/xsistens/voiced/internal/voiceconfig"

// notifyRequest is the POST /notify body. Every field is optional.
type notifyRequest struct {
	Title         string              `json:"title"`
	Message       string              `json:"message"`
	VoiceEnabled  *bool               `json:"voice_enabled"`
	VoiceID       *string             `json:"voice_id"`
	VoiceName     *string             `json:"voice_name"`
	VoiceSettings voiceconfig.Prosody `json:"voice_settings"`
	Volume        *float64            `json:"volume"`
}

const (
	defaultTitle   = "PAI Notification"
	defaultMessage = "Task completed"
)

func (r notifyRequest) voiceEnabled() bool {
	if r.VoiceEnabled == nil {
		return true
	}
	return *r.VoiceEnabled
}

// resolvedVoiceID returns voice_id, falling back to voice_name (documented
// as a synonym), per the daemon's resolution that voice_id takes
// precedence when both are supplied.
func (r notifyRequest) resolvedVoiceID(defaultVoiceID string) string {
	if r.VoiceID != nil && *r.VoiceID != "" {
		return *r.VoiceID
	}
	if r.VoiceName != nil && *r.VoiceName != "" {
		return *r.VoiceName
	}
	return defaultVoiceID
}

func (r notifyRequest) resolvedVolume() float64 {
	if r.Volume != nil {
		return *r.Volume
	}
	if r.VoiceSettings.Volume != nil {
		return *r.VoiceSettings.Volume
	}
	return voiceconfig.DefaultVolume
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status               string `json:"status"`
	Port                 int    `json:"port"`
	VoiceSystem          string `json:"voice_system"`
	SelectedLocalEngine  string `json:"selected_local_engine"`
	ElevenLabsConfigured bool   `json:"elevenlabs_configured"`
	DefaultVoiceID       string `json:"default_voice_id"`
	Platform             string `json:"platform"`
}
