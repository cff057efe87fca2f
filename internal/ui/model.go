// Package ui renders the chat conversation as a terminal application.
package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smilelifes/ai-weather-chat/internal/chat"
	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

const (
	title           = "AI Weather Chat"
	placeholder     = "날씨가 궁금한 지역을 입력하세요"
	loadingText     = "날씨 정보를 가져오는 중..."
	listeningText   = "🎙️ 듣는 중..."
	speakMarker     = "🔊"
	selectionMarker = "▶ "
	chromeHeight    = 5
	minViewportRow  = 3
)

// StateMsg carries a controller snapshot into the program.
type StateMsg chat.ConversationState

// Observer returns a controller observer that forwards snapshots to send.
// send must not block the caller, since the observer may fire from Update.
func Observer(send func(tea.Msg)) chat.Observer {
	return func(state chat.ConversationState) {
		go send(StateMsg(state))
	}
}

// Model is the bubbletea model for the chat screen.
type Model struct {
	ctx  context.Context
	ctrl *chat.Controller
	keys KeyMap

	state    chat.ConversationState
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// selected is the ID of the assistant message Speak reads; empty follows the newest.
	selected string

	width  int
	height int
	ready  bool
}

// New creates the chat model. ctx bounds requests and recognition sessions.
func New(ctx context.Context, ctrl *chat.Controller) Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    DefaultKeyMap(),
		state:   ctrl.State(),
		input:   input,
		spinner: sp,
	}
}

// Init starts the cursor blink and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 1)
		rows := max(msg.Height-chromeHeight, minViewportRow)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, rows)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = rows
		}
		m.refresh()
		return m, nil

	case StateMsg:
		if msg.Version <= m.state.Version {
			return m, nil
		}
		m.apply(chat.ConversationState(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		if m.state.RequestInFlight || strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			ctrl.Send(ctx)
			return nil
		}

	case key.Matches(msg, m.keys.Speak):
		if target, ok := m.selectedMessage(); ok && m.state.TTSAvailable {
			m.ctrl.RequestSpeak(target.Content)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectUp):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.SelectDn):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.AutoSpeak):
		if !m.state.TTSAvailable {
			return m, nil
		}
		m.ctrl.ToggleAutoSpeak()
		m.apply(m.ctrl.State())
		return m, nil

	case key.Matches(msg, m.keys.Listen):
		if !m.state.STTAvailable {
			return m, nil
		}
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			ctrl.ToggleListening(ctx)
			return nil
		}

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.ctrl.UpdateDraft(value)
		m.apply(m.ctrl.State())
	}
	return m, cmd
}

// apply adopts a newer snapshot and mirrors its draft into the input.
func (m *Model) apply(state chat.ConversationState) {
	if len(state.Messages) != len(m.state.Messages) {
		m.selected = ""
	}
	m.state = state
	if m.input.Value() != state.Draft {
		m.input.SetValue(state.Draft)
		m.input.CursorEnd()
	}
	m.refresh()
}

// selectedMessage returns the assistant message Speak reads.
func (m Model) selectedMessage() (domain.Message, bool) {
	if m.selected != "" {
		for _, msg := range m.state.Messages {
			if msg.ID == m.selected {
				return msg, true
			}
		}
	}
	return m.state.LastAssistantMessage()
}

// moveSelection steps the selection across assistant messages; delta < 0 is older.
func (m *Model) moveSelection(delta int) {
	if !m.state.TTSAvailable {
		return
	}
	var ids []string
	for _, msg := range m.state.Messages {
		if msg.Role == domain.RoleAssistant {
			ids = append(ids, msg.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	current := len(ids) - 1
	if target, ok := m.selectedMessage(); ok {
		for i, id := range ids {
			if id == target.ID {
				current = i
			}
		}
	}
	next := min(max(current+delta, 0), len(ids)-1)
	if next == len(ids)-1 {
		m.selected = ""
	} else {
		m.selected = ids[next]
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	parts := []string{titleStyle.Render(title)}
	if m.state.TTSAvailable {
		parts = append(parts, renderFlag("auto-speak", m.state.AutoSpeak))
	}
	if m.state.STTAvailable {
		parts = append(parts, renderFlag("mic", m.state.Listening))
	}
	return strings.Join(parts, "  ")
}

func renderFlag(name string, on bool) string {
	if on {
		return flagOnStyle.Render("● " + name)
	}
	return flagOffStyle.Render("○ " + name)
}

func (m Model) renderStatus() string {
	switch {
	case m.state.RequestInFlight:
		return m.spinner.View() + " " + loadingStyle.Render(loadingText)
	case m.state.Listening:
		return loadingStyle.Render(listeningText)
	default:
		return ""
	}
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.helpBindings(m.state.STTAvailable, m.state.TTSAvailable) {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m Model) renderMessages() string {
	width := max(m.width-4, 10)
	selectedID := ""
	if target, ok := m.selectedMessage(); ok {
		selectedID = target.ID
	}
	blocks := make([]string, 0, len(m.state.Messages))
	for _, msg := range m.state.Messages {
		blocks = append(blocks, renderMessage(msg, width, m.state.TTSAvailable, msg.ID == selectedID))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(msg domain.Message, width int, speakable, selected bool) string {
	var label string
	if msg.Role == domain.RoleUser {
		label = userLabelStyle.Render("You")
	} else {
		label = assistantLabelStyle.Render("Assistant")
		if speakable {
			label += " " + speakMarker
			if selected {
				label = selectedStyle.Render(selectionMarker) + label
			}
		}
	}

	lines := []string{label, contentStyle.Width(width).Render(msg.Content)}
	if msg.Meta != nil {
		lines = append(lines, "  "+renderBadges(msg.Meta))
	}
	return strings.Join(lines, "\n")
}

func renderBadges(meta *domain.WeatherMeta) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyle.Render(CityBadge(meta)),
		badgeStyle.Render(TemperatureBadge(meta)),
	)
}

// CityBadge is the location badge text.
func CityBadge(meta *domain.WeatherMeta) string {
	return "📍 " + meta.City
}

// TemperatureBadge is the temperature badge text.
func TemperatureBadge(meta *domain.WeatherMeta) string {
	return "🌡️ " + strconv.FormatFloat(meta.Temperature, 'f', -1, 64) + "°C"
}
