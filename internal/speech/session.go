// Package speech provides speech recognition sessions and speech output for the chat client.
package speech

import (
	"context"
	"errors"
	"sync"
	"time"
)

// LanguageKorean is the language tag used for recognition and synthesis.
const LanguageKorean = "ko-KR"

// ErrSessionStarted is returned by Start on a session that was already started.
var ErrSessionStarted = errors.New("speech: session already started")

// SessionState is the lifecycle state of a recognition session.
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionOpen
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionNotStarted:
		return "not_started"
	case SessionOpen:
		return "open"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RecognitionOptions configures one recognition session.
type RecognitionOptions struct {
	Language       string
	InterimResults bool
	Continuous     bool
	// MaxDuration bounds the session; expiry ends it cleanly. Zero means unbounded.
	MaxDuration time.Duration
}

// DefaultRecognitionOptions returns single-shot Korean recognition without interim results.
func DefaultRecognitionOptions() RecognitionOptions {
	return RecognitionOptions{
		Language:    LanguageKorean,
		MaxDuration: 10 * time.Second,
	}
}

// Recognizer is a speech-to-text engine.
type Recognizer interface {
	// Open connects to the engine and starts capturing audio. The recognition
	// is abandoned when ctx is done.
	Open(ctx context.Context, opts RecognitionOptions) (Recognition, error)
}

// Recognition is one running recognition.
type Recognition interface {
	// Wait blocks until the first final transcript or the end of input.
	// An empty transcript with a nil error means the input ended without speech.
	Wait() (string, error)
}

// Finisher is implemented by recognitions that can stop capturing audio and
// still deliver the transcript of what was already heard.
type Finisher interface {
	Finish()
}

// stopFlushWindow bounds how long a stopped session waits for a pending transcript.
const stopFlushWindow = 2 * time.Second

// Handlers receive the outcome of a session. OnResult, when called, precedes OnEnd.
// Exactly one of OnEnd and OnError is called per started session.
type Handlers struct {
	OnResult func(transcript string)
	OnEnd    func()
	OnError  func(err error)
}

// Session is a single speech recognition session.
type Session struct {
	recognizer Recognizer
	opts       RecognitionOptions
	handlers   Handlers

	mu          sync.Mutex
	state       SessionState
	cancel      context.CancelFunc
	recognition Recognition
	flushWindow time.Duration
	flushTimer  *time.Timer
}

// NewSession creates a session that has not started yet.
func NewSession(recognizer Recognizer, opts RecognitionOptions, handlers Handlers) *Session {
	return &Session{
		recognizer:  recognizer,
		opts:        opts,
		handlers:    handlers,
		flushWindow: stopFlushWindow,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins the session. If the engine cannot be opened the session is
// closed, the error is returned, and no handler is called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SessionNotStarted {
		s.mu.Unlock()
		return ErrSessionStarted
	}
	s.state = SessionOpen

	var sessionCtx context.Context
	var cancel context.CancelFunc
	if s.opts.MaxDuration > 0 {
		sessionCtx, cancel = context.WithTimeout(ctx, s.opts.MaxDuration)
	} else {
		sessionCtx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel
	s.mu.Unlock()

	recognition, err := s.recognizer.Open(sessionCtx, s.opts)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.state = SessionClosed
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.recognition = recognition
	s.mu.Unlock()

	go s.run(sessionCtx, recognition)
	return nil
}

// Stop requests early termination. A started session still ends through OnEnd.
// Engines that can finish get a short window to deliver speech heard so far.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionOpen {
		return
	}

	finisher, ok := s.recognition.(Finisher)
	if !ok || s.flushWindow <= 0 {
		s.cancel()
		return
	}
	if s.flushTimer != nil {
		return
	}
	finisher.Finish()
	s.flushTimer = time.AfterFunc(s.flushWindow, s.cancel)
}

func (s *Session) run(ctx context.Context, recognition Recognition) {
	transcript, err := recognition.Wait()

	// Stop and timeout surface as context errors; both are clean ends.
	if err != nil && ctx.Err() != nil {
		err = nil
	}
	s.close(transcript, err)
}

// close is the single terminating transition of an open session.
func (s *Session) close(transcript string, err error) {
	s.mu.Lock()
	if s.state != SessionOpen {
		s.mu.Unlock()
		return
	}
	s.state = SessionClosed
	s.cancel()
	if s.flushTimer != nil {
		s.flushTimer.Stop()
	}
	s.mu.Unlock()

	if err != nil {
		if s.handlers.OnError != nil {
			s.handlers.OnError(err)
		}
		return
	}
	if transcript != "" && s.handlers.OnResult != nil {
		s.handlers.OnResult(transcript)
	}
	if s.handlers.OnEnd != nil {
		s.handlers.OnEnd()
	}
}
