package speech

import (
	"context"
	"errors"
	"log"
	"sync"
)

// utterance is the single in-progress speech slot.
type utterance struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Speaker speaks one utterance at a time; a new one replaces the current.
type Speaker struct {
	synth Synthesizer
	opts  VoiceOptions

	mu      sync.Mutex
	current *utterance
}

// NewSpeaker creates a speaker over synth. A nil synth yields an unavailable speaker.
func NewSpeaker(synth Synthesizer) *Speaker {
	return &Speaker{
		synth: synth,
		opts: VoiceOptions{
			Language: LanguageKorean,
			Rate:     1.0,
		},
	}
}

// Available reports whether speech output can be produced.
func (s *Speaker) Available() bool {
	return s != nil && s.synth != nil
}

// Speak cancels any utterance in progress and starts speaking text.
// It returns immediately; completion is not reported.
func (s *Speaker) Speak(text string) {
	if !s.Available() {
		return
	}

	s.mu.Lock()
	prev := s.current
	s.current = nil
	if text != "" {
		ctx, cancel := context.WithCancel(context.Background())
		next := &utterance{cancel: cancel, done: make(chan struct{})}
		s.current = next
		go s.run(ctx, next, prev, text)
	}
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
}

// Cancel stops the utterance in progress, if any.
func (s *Speaker) Cancel() {
	if !s.Available() {
		return
	}
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}
}

func (s *Speaker) run(ctx context.Context, u *utterance, prev *utterance, text string) {
	defer close(u.done)
	defer u.cancel()

	// The replaced utterance must release the audio device first.
	if prev != nil {
		<-prev.done
	}
	if ctx.Err() != nil {
		return
	}

	if err := s.synth.Synthesize(ctx, text, s.opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("WARN: speech synthesis failed: %v", err)
	}
}
