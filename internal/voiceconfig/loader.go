package voiceconfig

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
)

// rawEnv mirrors the dotenv file's recognised keys. Values are exported
// into the process environment before parsing so that caarlos0/env's
// struct tags (including envDefault) apply uniformly to both the dotenv
// file and any real environment variable an operator sets directly.
type rawEnv struct {
	Port               int    `env:"PORT" envDefault:"8888"`
	ElevenLabsAPIKey   string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID  string `env:"ELEVENLABS_VOICE_ID"`
	PreferredEngine    string `env:"PAI_TTS_ENGINE"`
	PiperModel         string `env:"PIPER_MODEL"`
	PiperModelDir      string `env:"PIPER_MODEL_DIR"`
	Qwen3InternalPort  int    `env:"QWEN3_INTERNAL_PORT" envDefault:"0"`
}

type settingsFile struct {
	DAIdentity struct {
		VoiceID string  `json:"voiceId"`
		Name    string  `json:"name"`
		Voice   Prosody `json:"voice"`
	} `json:"daidentity"`
	ReducedVoiceFeedback bool `json:"reducedVoiceFeedback"`
}

type voicePersonalitiesFile struct {
	Voices map[string]VoiceEntry `json:"voices"`
}

// Paths locates the four configuration files. Any field left empty is
// resolved to its platform default by Load.
type Paths struct {
	DotenvPath         string
	SettingsPath       string
	PersonalitiesPath  string
	PronunciationsPath string
}

const scopeName = "voiced"

// defaultPaths resolves the standard on-disk locations: the dotenv file in
// the user's home directory, and the three structured files under the
// platform's per-user config directory for "voiced" (XDG on Linux,
// Application Support on macOS), via gap.NewScope(gap.User, ...).
func defaultPaths() (Paths, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home directory: %w", err)
	}

	scope := gap.NewScope(gap.User, scopeName)
	dirs, err := scope.ConfigDirs()
	if err != nil || len(dirs) == 0 {
		return Paths{}, fmt.Errorf("resolve config directory: %w", err)
	}
	configDir := dirs[0]

	return Paths{
		DotenvPath:         filepath.Join(home, ".env"),
		SettingsPath:       filepath.Join(configDir, "settings.json"),
		PersonalitiesPath:  filepath.Join(configDir, "voices.md"),
		PronunciationsPath: filepath.Join(configDir, "pronunciations.json"),
	}, nil
}

// Load reads all four configuration sources and produces an immutable
// Snapshot. A missing file at any of the four paths is not an error: the
// corresponding section of the snapshot is left at its zero value, which
// disables the affected back-end or leaves maps empty.
func Load(paths Paths) (*Snapshot, error) {
	if paths.DotenvPath == "" || paths.SettingsPath == "" || paths.PersonalitiesPath == "" || paths.PronunciationsPath == "" {
		defaults, err := defaultPaths()
		if err != nil {
			return nil, err
		}
		paths.DotenvPath = cmp.Or(paths.DotenvPath, defaults.DotenvPath)
		paths.SettingsPath = cmp.Or(paths.SettingsPath, defaults.SettingsPath)
		paths.PersonalitiesPath = cmp.Or(paths.PersonalitiesPath, defaults.PersonalitiesPath)
		paths.PronunciationsPath = cmp.Or(paths.PronunciationsPath, defaults.PronunciationsPath)
	}

	dotenv, err := parseDotenv(paths.DotenvPath)
	if err != nil {
		return nil, fmt.Errorf("parse dotenv: %w", err)
	}
	for k, v := range dotenv {
		if _, set := os.LookupEnv(k); !set {
			_ = os.Setenv(k, v)
		}
	}

	raw, err := env.ParseAs[rawEnv]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	settings, err := loadSettings(paths.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	voices, err := loadVoicePersonalities(paths.PersonalitiesPath)
	if err != nil {
		return nil, fmt.Errorf("load voice personalities: %w", err)
	}

	pronunciations, err := loadPronunciations(paths.PronunciationsPath)
	if err != nil {
		return nil, fmt.Errorf("load pronunciations: %w", err)
	}

	defaultVoiceID := settings.DAIdentity.VoiceID
	if defaultVoiceID == "" {
		defaultVoiceID = raw.ElevenLabsVoiceID
	}

	snap := &Snapshot{
		Port:                 raw.Port,
		CloudAPIKey:          raw.ElevenLabsAPIKey,
		CloudVoiceID:         raw.ElevenLabsVoiceID,
		PreferredEngine:      raw.PreferredEngine,
		PiperModel:           raw.PiperModel,
		PiperModelDir:        raw.PiperModelDir,
		SidecarPort:          raw.Qwen3InternalPort,
		OwnerName:            settings.DAIdentity.Name,
		ReducedVoiceFeedback: settings.ReducedVoiceFeedback,
		DefaultVoiceID:       defaultVoiceID,
		DefaultVoice:         DefaultProsody().Merge(settings.DAIdentity.Voice),
		Voices:               voices,
		Pronunciations:       pronunciations,
	}
	return snap, nil
}

// parseDotenv parses KEY=VALUE lines, stripping comments and a single
// layer of matching surrounding quotes from the value, per the daemon's
// documented dotenv format. A missing file yields an empty map, not an
// error: the daemon runs with every cloud/local-engine-specific field
// unset.
func parseDotenv(path string) (map[string]string, error) {
	values := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		value = unquote(value)
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func loadSettings(path string) (settingsFile, error) {
	var s settingsFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

var fencedJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)```")

// loadVoicePersonalities extracts the first fenced JSON code block from a
// markdown document and decodes it as {"voices": {...}}.
func loadVoicePersonalities(path string) (map[string]VoiceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]VoiceEntry{}, nil
		}
		return nil, err
	}

	match := fencedJSONBlock.FindSubmatch(data)
	if match == nil {
		return map[string]VoiceEntry{}, nil
	}

	var doc voicePersonalitiesFile
	if err := json.Unmarshal(match[1], &doc); err != nil {
		return nil, fmt.Errorf("decode voice personalities block: %w", err)
	}
	if doc.Voices == nil {
		doc.Voices = map[string]VoiceEntry{}
	}
	return doc.Voices, nil
}

func loadPronunciations(path string) (map[string]string, error) {
	out := make(map[string]string)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
