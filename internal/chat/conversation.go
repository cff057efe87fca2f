// Package chat holds the client-side conversation state machine and its driver.
package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

const (
	// Greeting seeds every conversation.
	Greeting = "안녕하세요! 날씨가 궁금한 지역을 물어보세요 ☁️"
	// TransportErrorNotice is shown when the server could not be reached or understood.
	TransportErrorNotice = "서버와 통신 중 오류가 발생했습니다."

	errorNoticePrefix = "오류가 발생했습니다: "
)

// ErrorNotice formats a server-reported error for display.
func ErrorNotice(errText string) string {
	return fmt.Sprintf("%s%s", errorNoticePrefix, errText)
}

// ListenAction tells the driver what to do with speech recognition.
type ListenAction int

const (
	ListenNone ListenAction = iota
	ListenStart
	ListenStop
)

// Capabilities are the speech features probed once at startup.
type Capabilities struct {
	STT bool
	TTS bool
}

// Reply is the outcome of one pipeline call. Exactly one field is set.
type Reply struct {
	Result       *domain.PipelineResult
	ErrorText    string
	TransportErr error
}

// ConversationState is an immutable snapshot of a Conversation.
type ConversationState struct {
	Messages        []domain.Message
	Draft           string
	RequestInFlight bool
	Listening       bool
	AutoSpeak       bool
	STTAvailable    bool
	TTSAvailable    bool
	// Version increases with every transition.
	Version uint64
}

// LastAssistantMessage returns the newest assistant message, if any.
func (s ConversationState) LastAssistantMessage() (domain.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == domain.RoleAssistant {
			return s.Messages[i], true
		}
	}
	return domain.Message{}, false
}

// Conversation is the conversation state machine. Its transitions perform no
// I/O and are not safe for concurrent use; Controller serializes them.
type Conversation struct {
	messages  []domain.Message
	draft     string
	inFlight  bool
	listening bool
	autoSpeak bool
	caps      Capabilities
	version   uint64
}

// NewConversation creates a conversation seeded with the greeting.
func NewConversation(caps Capabilities) *Conversation {
	c := &Conversation{caps: caps}
	c.appendMessage(domain.RoleAssistant, Greeting, nil)
	return c
}

func (c *Conversation) appendMessage(role domain.Role, content string, meta *domain.WeatherMeta) {
	c.messages = append(c.messages, domain.Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
		Meta:    meta,
	})
}

func (c *Conversation) touch() {
	c.version++
}

// UpdateDraft overwrites the draft.
func (c *Conversation) UpdateDraft(text string) {
	c.draft = text
	c.touch()
}

// BeginSend appends the trimmed draft as a user message and enters Sending.
// It reports false, changing nothing, while Sending or when the draft is blank.
func (c *Conversation) BeginSend() (domain.PipelineRequest, bool) {
	text := strings.TrimSpace(c.draft)
	if c.inFlight || text == "" {
		return domain.PipelineRequest{}, false
	}

	c.appendMessage(domain.RoleUser, text, nil)
	c.draft = ""
	c.inFlight = true
	c.touch()
	return domain.PipelineRequest{UserInput: text}, true
}

// CompleteSend records the reply and returns to Idle. It returns the text to
// speak when the reply succeeded and auto-speak is on.
func (c *Conversation) CompleteSend(reply Reply) (string, bool) {
	defer c.touch()
	c.inFlight = false

	switch {
	case reply.TransportErr != nil:
		c.appendMessage(domain.RoleAssistant, TransportErrorNotice, nil)
		return "", false
	case reply.ErrorText != "":
		c.appendMessage(domain.RoleAssistant, ErrorNotice(reply.ErrorText), nil)
		return "", false
	case reply.Result != nil:
		c.appendMessage(domain.RoleAssistant, reply.Result.Response, reply.Result.Meta())
		if c.autoSpeak {
			return reply.Result.Response, true
		}
		return "", false
	default:
		c.appendMessage(domain.RoleAssistant, TransportErrorNotice, nil)
		return "", false
	}
}

// ToggleAutoSpeak flips the auto-speak preference.
func (c *Conversation) ToggleAutoSpeak() {
	c.autoSpeak = !c.autoSpeak
	c.touch()
}

// ToggleListening decides the recognition action. Starting sets Listening
// optimistically; stopping leaves it for EndListening to clear.
func (c *Conversation) ToggleListening() ListenAction {
	if c.listening {
		return ListenStop
	}
	if !c.caps.STT {
		return ListenNone
	}
	c.listening = true
	c.touch()
	return ListenStart
}

// ApplyTranscript overwrites the draft with a recognized transcript.
func (c *Conversation) ApplyTranscript(text string) {
	c.draft = text
	c.touch()
}

// EndListening clears Listening after a session ends or fails.
func (c *Conversation) EndListening() {
	c.listening = false
	c.touch()
}

// Snapshot returns a copy of the current state.
func (c *Conversation) Snapshot() ConversationState {
	messages := make([]domain.Message, len(c.messages))
	copy(messages, c.messages)
	return ConversationState{
		Messages:        messages,
		Draft:           c.draft,
		RequestInFlight: c.inFlight,
		Listening:       c.listening,
		AutoSpeak:       c.autoSpeak,
		STTAvailable:    c.caps.STT,
		TTSAvailable:    c.caps.TTS,
		Version:         c.version,
	}
}
