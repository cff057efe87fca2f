package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultElevenLabsURL is the ElevenLabs API websocket root.
const DefaultElevenLabsURL = "wss://api.elevenlabs.io"

// VoiceOptions configures one utterance.
type VoiceOptions struct {
	Language string
	Rate     float64
}

// Synthesizer is a text-to-speech engine.
type Synthesizer interface {
	// Synthesize speaks text and returns when playback ends or ctx is done.
	Synthesize(ctx context.Context, text string, opts VoiceOptions) error
}

// ElevenLabsSynthesizer speaks through ElevenLabs' stream-input websocket API.
type ElevenLabsSynthesizer struct {
	URL     string
	APIKey  string
	VoiceID string
	ModelID string
	Sink    AudioSink
	Dialer  *websocket.Dialer
}

// NewElevenLabsSynthesizer creates a synthesizer playing audio through sink.
func NewElevenLabsSynthesizer(apiKey, voiceID, modelID string, sink AudioSink) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		URL:     DefaultElevenLabsURL,
		APIKey:  apiKey,
		VoiceID: voiceID,
		ModelID: modelID,
		Sink:    sink,
		Dialer:  websocket.DefaultDialer,
	}
}

// Ensure ElevenLabsSynthesizer implements Synthesizer interface.
var _ Synthesizer = (*ElevenLabsSynthesizer)(nil)

type elevenLabsChunk struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *ElevenLabsSynthesizer) streamURL() string {
	q := url.Values{}
	q.Set("model_id", e.ModelID)
	q.Set("output_format", "mp3_44100_128")
	return fmt.Sprintf("%s/v1/text-to-speech/%s/stream-input?%s",
		strings.TrimSuffix(e.URL, "/"), url.PathEscape(e.VoiceID), q.Encode())
}

// Synthesize streams text to ElevenLabs and pipes the returned audio to the sink.
// Cancelling ctx closes the websocket and stops the player.
func (e *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string, opts VoiceOptions) error {
	header := http.Header{}
	header.Set("xi-api-key", e.APIKey)

	dialer := e.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, e.streamURL(), header)
	if err != nil {
		return fmt.Errorf("elevenlabs connect: %w", err)
	}

	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(func() { conn.Close() }) }
	defer closeConn()

	stop := context.AfterFunc(ctx, closeConn)
	defer stop()

	rate := opts.Rate
	if rate <= 0 {
		rate = 1.0
	}
	opening := map[string]interface{}{
		"text": " ",
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.8,
			"speed":            rate,
		},
	}
	if err := conn.WriteJSON(opening); err != nil {
		return fmt.Errorf("elevenlabs send: %w", err)
	}
	if err := conn.WriteJSON(map[string]interface{}{"text": text + " ", "try_trigger_generation": true}); err != nil {
		return fmt.Errorf("elevenlabs send: %w", err)
	}
	// Signal end of input
	if err := conn.WriteJSON(map[string]string{"text": ""}); err != nil {
		return fmt.Errorf("elevenlabs send: %w", err)
	}

	var player io.WriteCloser
	defer func() {
		if player != nil {
			if err := player.Close(); err != nil && ctx.Err() == nil {
				log.Printf("WARN: audio player exited: %v", err)
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("elevenlabs read: %w", err)
		}

		var chunk elevenLabsChunk
		if err := json.Unmarshal(message, &chunk); err != nil {
			continue
		}
		if chunk.Error != "" {
			return fmt.Errorf("elevenlabs: %s: %s", chunk.Error, chunk.Message)
		}

		if chunk.Audio != "" {
			decoded, err := base64.StdEncoding.DecodeString(chunk.Audio)
			if err != nil {
				continue
			}
			if player == nil {
				if player, err = e.Sink.Open(ctx); err != nil {
					player = nil
					return err
				}
			}
			if _, err := player.Write(decoded); err != nil {
				return fmt.Errorf("audio playback: %w", err)
			}
		}

		if chunk.IsFinal {
			return nil
		}
	}
}
