package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultDeepgramURL is Deepgram's live transcription endpoint.
const DefaultDeepgramURL = "wss://api.deepgram.com/v1/listen"

// audioChunkSize is 100 ms of 16 kHz mono linear16 audio.
const audioChunkSize = 3200

// DeepgramRecognizer streams microphone audio to Deepgram's live listen API.
type DeepgramRecognizer struct {
	URL    string
	APIKey string
	Model  string
	Source AudioSource
	Dialer *websocket.Dialer
}

// NewDeepgramRecognizer creates a recognizer reading audio from source.
func NewDeepgramRecognizer(apiKey, model string, source AudioSource) *DeepgramRecognizer {
	return &DeepgramRecognizer{
		URL:    DefaultDeepgramURL,
		APIKey: apiKey,
		Model:  model,
		Source: source,
		Dialer: websocket.DefaultDialer,
	}
}

// Ensure DeepgramRecognizer implements Recognizer interface.
var _ Recognizer = (*DeepgramRecognizer)(nil)

// deepgramMessage is the subset of a live transcription message the recognizer reads.
type deepgramMessage struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (d *DeepgramRecognizer) listenURL(opts RecognitionOptions) (string, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("invalid deepgram url: %w", err)
	}
	q := u.Query()
	if d.Model != "" {
		q.Set("model", d.Model)
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	q.Set("encoding", "linear16")
	q.Set("sample_rate", "16000")
	q.Set("channels", "1")
	q.Set("smart_format", "true")
	q.Set("interim_results", strconv.FormatBool(opts.InterimResults))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Open dials Deepgram and starts streaming audio from the source.
func (d *DeepgramRecognizer) Open(ctx context.Context, opts RecognitionOptions) (Recognition, error) {
	listenURL, err := d.listenURL(opts)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+d.APIKey)

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, listenURL, header)
	if err != nil {
		return nil, fmt.Errorf("deepgram connect: %w", err)
	}

	audio, err := d.Source.Open(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	r := &deepgramRecognition{
		ctx:        ctx,
		conn:       conn,
		audio:      audio,
		continuous: opts.Continuous,
		finishing:  make(chan struct{}),
		done:       make(chan struct{}),
	}
	go r.pumpAudio()
	go r.watch()
	return r, nil
}

type deepgramRecognition struct {
	ctx        context.Context
	conn       *websocket.Conn
	audio      io.ReadCloser
	continuous bool

	writeMu    sync.Mutex
	finishOnce sync.Once
	closeOnce  sync.Once
	finishing  chan struct{}
	done       chan struct{}
}

// Finish stops the capture. Deepgram then flushes the audio it has and closes the stream.
func (r *deepgramRecognition) Finish() {
	r.finishOnce.Do(func() {
		close(r.finishing)
		r.audio.Close()
	})
}

// pumpAudio forwards captured audio until the source ends, then asks Deepgram to flush.
func (r *deepgramRecognition) pumpAudio() {
	buf := make([]byte, audioChunkSize)
	for {
		n, err := r.audio.Read(buf)
		if n > 0 {
			if werr := r.write(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case <-r.done:
				case <-r.finishing:
				default:
					log.Printf("WARN: audio capture stopped: %v", err)
				}
			}
			_ = r.write(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
			return
		}
	}
}

// watch tears the connection down when the session context ends.
func (r *deepgramRecognition) watch() {
	select {
	case <-r.ctx.Done():
		r.shutdown()
	case <-r.done:
	}
}

func (r *deepgramRecognition) write(messageType int, data []byte) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteMessage(messageType, data)
}

func (r *deepgramRecognition) shutdown() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.audio.Close()
		r.conn.Close()
	})
}

// Wait reads transcription messages until a final transcript arrives.
func (r *deepgramRecognition) Wait() (string, error) {
	defer r.shutdown()

	var collected string
	for {
		_, message, err := r.conn.ReadMessage()
		if err != nil {
			if r.ctx.Err() != nil {
				return collected, r.ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return collected, nil
			}
			return collected, fmt.Errorf("deepgram read: %w", err)
		}

		var msg deepgramMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type != "Results" || !msg.IsFinal || len(msg.Channel.Alternatives) == 0 {
			continue
		}
		transcript := msg.Channel.Alternatives[0].Transcript
		if transcript == "" {
			continue
		}
		if !r.continuous {
			return transcript, nil
		}
		if collected != "" {
			collected += " "
		}
		collected += transcript
	}
}
