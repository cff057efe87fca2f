package chat

import (
	"context"
	"log"
	"sync"

	"github.com/smilelifes/ai-weather-chat/internal/speech"
)

// Speaker speaks assistant replies.
type Speaker interface {
	Available() bool
	Speak(text string)
}

// Observer receives a fresh snapshot after every transition.
// It is called without the controller lock held, possibly from several goroutines;
// use ConversationState.Version to discard stale snapshots.
type Observer func(ConversationState)

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Pipeline Pipeline
	// Speaker is optional; nil or unavailable hides speech output.
	Speaker Speaker
	// Recognizer is optional; nil hides speech input.
	Recognizer         speech.Recognizer
	RecognitionOptions speech.RecognitionOptions
	Observer           Observer
}

// Controller drives a Conversation: it serializes transitions and performs their effects.
type Controller struct {
	pipeline   Pipeline
	speaker    Speaker
	recognizer speech.Recognizer
	recOpts    speech.RecognitionOptions
	observer   Observer

	mu      sync.Mutex
	conv    *Conversation
	session *speech.Session
}

// NewController creates a controller with a freshly seeded conversation.
func NewController(cfg ControllerConfig) *Controller {
	caps := Capabilities{
		STT: cfg.Recognizer != nil,
		TTS: cfg.Speaker != nil && cfg.Speaker.Available(),
	}
	return &Controller{
		pipeline:   cfg.Pipeline,
		speaker:    cfg.Speaker,
		recognizer: cfg.Recognizer,
		recOpts:    cfg.RecognitionOptions,
		observer:   cfg.Observer,
		conv:       NewConversation(caps),
	}
}

// SetObserver replaces the observer. It must be called before any transition.
func (c *Controller) SetObserver(observer Observer) {
	c.mu.Lock()
	c.observer = observer
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Snapshot()
}

// transition applies fn under the lock and notifies the observer afterwards.
func (c *Controller) transition(fn func(conv *Conversation)) {
	c.mu.Lock()
	fn(c.conv)
	state := c.conv.Snapshot()
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(state)
	}
}

// UpdateDraft overwrites the draft.
func (c *Controller) UpdateDraft(text string) {
	c.transition(func(conv *Conversation) { conv.UpdateDraft(text) })
}

// Send submits the draft and blocks until the pipeline answers.
// It returns immediately when a send is already in flight or the draft is blank.
func (c *Controller) Send(ctx context.Context) {
	c.mu.Lock()
	req, ok := c.conv.BeginSend()
	state := c.conv.Snapshot()
	observer := c.observer
	c.mu.Unlock()
	if !ok {
		return
	}
	if observer != nil {
		observer(state)
	}

	reply := c.pipeline.Query(ctx, req)
	if reply.TransportErr != nil {
		log.Printf("WARN: weather request failed: %v", reply.TransportErr)
	}

	var speak string
	var shouldSpeak bool
	c.transition(func(conv *Conversation) {
		speak, shouldSpeak = conv.CompleteSend(reply)
	})

	if shouldSpeak {
		c.RequestSpeak(speak)
	}
}

// ToggleAutoSpeak flips the auto-speak preference.
func (c *Controller) ToggleAutoSpeak() {
	c.transition(func(conv *Conversation) { conv.ToggleAutoSpeak() })
}

// RequestSpeak speaks text, replacing any utterance in progress.
func (c *Controller) RequestSpeak(text string) {
	if c.speaker == nil || !c.speaker.Available() || text == "" {
		return
	}
	c.speaker.Speak(text)
}

// ToggleListening starts a recognition session, or stops the open one.
func (c *Controller) ToggleListening(ctx context.Context) {
	c.mu.Lock()
	action := c.conv.ToggleListening()

	switch action {
	case ListenStop:
		session := c.session
		c.mu.Unlock()
		if session != nil {
			session.Stop()
		}

	case ListenStart:
		var session *speech.Session
		session = speech.NewSession(c.recognizer, c.recOpts, speech.Handlers{
			OnResult: func(transcript string) { c.applyTranscript(session, transcript) },
			OnEnd:    func() { c.endListening(session) },
			OnError: func(err error) {
				log.Printf("WARN: speech recognition failed: %v", err)
				c.endListening(session)
			},
		})
		c.session = session
		state := c.conv.Snapshot()
		observer := c.observer
		c.mu.Unlock()

		if observer != nil {
			observer(state)
		}
		if err := session.Start(ctx); err != nil {
			log.Printf("WARN: failed to start speech recognition: %v", err)
			c.endListening(session)
		}

	default:
		c.mu.Unlock()
	}
}

func (c *Controller) applyTranscript(session *speech.Session, transcript string) {
	c.transition(func(conv *Conversation) {
		if c.session == session {
			conv.ApplyTranscript(transcript)
		}
	})
}

func (c *Controller) endListening(session *speech.Session) {
	c.transition(func(conv *Conversation) {
		if c.session == session {
			c.session = nil
			conv.EndListening()
		}
	})
}
