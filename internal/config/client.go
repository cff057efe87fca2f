package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds the chat client configuration.
type ClientConfig struct {
	// ServerURL is the base URL of the weather server.
	ServerURL string `toml:"server_url"`
	// RequestTimeout bounds one pipeline call; expiry is a transport error.
	RequestTimeout time.Duration `toml:"request_timeout"`

	Speech SpeechConfig `toml:"speech"`
}

// SpeechConfig holds the speech engine settings.
type SpeechConfig struct {
	// Recognition (Deepgram)
	DeepgramAPIKey string        `toml:"deepgram_api_key"`
	DeepgramModel  string        `toml:"deepgram_model"`
	Recorder       string        `toml:"recorder"`
	MaxListen      time.Duration `toml:"max_listen"`

	// Synthesis (ElevenLabs)
	ElevenLabsAPIKey  string `toml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string `toml:"elevenlabs_voice_id"`
	ElevenLabsModel   string `toml:"elevenlabs_model"`
	Player            string `toml:"player"`
}

// DefaultClient returns the chat client defaults.
func DefaultClient() *ClientConfig {
	return &ClientConfig{
		ServerURL:      "http://localhost:8080",
		RequestTimeout: 45 * time.Second,
		Speech: SpeechConfig{
			DeepgramModel:     "nova-2",
			Recorder:          "arecord",
			MaxListen:         10 * time.Second,
			ElevenLabsVoiceID: "21m00Tcm4TlvDq8ikWAM",
			ElevenLabsModel:   "eleven_multilingual_v2",
			Player:            "ffplay",
		},
	}
}

// ClientDir returns the chat client directory (~/.weatherchat).
func ClientDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".weatherchat"), nil
}

// ClientConfigPath returns the path to the TOML config file.
func ClientConfigPath() (string, error) {
	dir, err := ClientDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadClient loads ~/.weatherchat/config.toml when present, then applies env overrides.
func LoadClient() (*ClientConfig, error) {
	path, err := ClientConfigPath()
	if err != nil {
		cfg := DefaultClient()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return LoadClientFromPath(path)
}

// LoadClientFromPath loads the client configuration from path.
// A missing file yields the defaults.
func LoadClientFromPath(path string) (*ClientConfig, error) {
	cfg := DefaultClient()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
//   - WEATHERCHAT_SERVER_URL: overrides server_url
//   - WEATHERCHAT_DEEPGRAM_API_KEY / DEEPGRAM_API_KEY: overrides speech.deepgram_api_key
//   - WEATHERCHAT_ELEVENLABS_API_KEY / ELEVENLABS_API_KEY: overrides speech.elevenlabs_api_key
//   - WEATHERCHAT_ELEVENLABS_VOICE_ID: overrides speech.elevenlabs_voice_id
//   - WEATHERCHAT_RECORDER / WEATHERCHAT_PLAYER: override speech.recorder / speech.player
//   - WEATHERCHAT_REQUEST_TIMEOUT_MS: overrides request_timeout
func (c *ClientConfig) ApplyEnvOverrides() {
	c.ServerURL = getEnv("WEATHERCHAT_SERVER_URL", c.ServerURL)

	if key := getEnv("WEATHERCHAT_DEEPGRAM_API_KEY", os.Getenv("DEEPGRAM_API_KEY")); key != "" {
		c.Speech.DeepgramAPIKey = key
	}
	if key := getEnv("WEATHERCHAT_ELEVENLABS_API_KEY", os.Getenv("ELEVENLABS_API_KEY")); key != "" {
		c.Speech.ElevenLabsAPIKey = key
	}
	c.Speech.ElevenLabsVoiceID = getEnv("WEATHERCHAT_ELEVENLABS_VOICE_ID", c.Speech.ElevenLabsVoiceID)
	c.Speech.Recorder = getEnv("WEATHERCHAT_RECORDER", c.Speech.Recorder)
	c.Speech.Player = getEnv("WEATHERCHAT_PLAYER", c.Speech.Player)
	if ms := getEnvInt("WEATHERCHAT_REQUEST_TIMEOUT_MS", 0); ms > 0 {
		c.RequestTimeout = time.Duration(ms) * time.Millisecond
	}
}

// fillDefaults restores defaults for values a config file zeroed out.
func (c *ClientConfig) fillDefaults() {
	def := DefaultClient()
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.Speech.DeepgramModel == "" {
		c.Speech.DeepgramModel = def.Speech.DeepgramModel
	}
	if c.Speech.Recorder == "" {
		c.Speech.Recorder = def.Speech.Recorder
	}
	if c.Speech.MaxListen <= 0 {
		c.Speech.MaxListen = def.Speech.MaxListen
	}
	if c.Speech.ElevenLabsVoiceID == "" {
		c.Speech.ElevenLabsVoiceID = def.Speech.ElevenLabsVoiceID
	}
	if c.Speech.ElevenLabsModel == "" {
		c.Speech.ElevenLabsModel = def.Speech.ElevenLabsModel
	}
	if c.Speech.Player == "" {
		c.Speech.Player = def.Speech.Player
	}
}
