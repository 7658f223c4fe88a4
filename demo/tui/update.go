package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), pollDashboard(m.Client), tickCmd())
	case StatusMsg:
		return m.handleStatus(msg)
	case DashboardMsg:
		return m.handleDashboard(msg)
	case SuggestionsMsg:
		return m.handleSuggestions(msg)
	case GenerationQueuedMsg:
		return m.handleGenerationQueued(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input. Topic entry captures every key
// until enter or esc.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		switch msg.Type {
		case tea.KeyEnter:
			topic := strings.TrimSpace(m.input)
			m.typing = false
			m.input = ""
			if topic == "" {
				return m, nil
			}
			m.Notice = ""
			return m, queueGeneration(m.Client, topic)
		case tea.KeyEsc:
			m.typing = false
			m.input = ""
			return m, nil
		case tea.KeyBackspace:
			if runes := []rune(m.input); len(runes) > 0 {
				m.input = string(runes[:len(runes)-1])
			}
			return m, nil
		case tea.KeySpace:
			m.input += " "
			return m, nil
		case tea.KeyRunes:
			m.input += string(msg.Runes)
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "g":
		m.typing = true
		m.input = ""
		m.Notice = ""
		return m, nil
	case "s":
		if !m.loading {
			m.loading = true
			m.Notice = ""
			return m, fetchSuggestions(m.Client)
		}
	case "r":
		return m, tea.Batch(pollStatus(m.Client), pollDashboard(m.Client))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.Suggestions) {
			m.Notice = ""
			return m, queueGeneration(m.Client, m.Suggestions[idx].Topic)
		}
	}
	return m, nil
}

func (m Model) handleStatus(msg StatusMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}
	m.Connected = true
	m.Status = *msg.Status
	return m, nil
}

func (m Model) handleDashboard(msg DashboardMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		m.Cards = msg.Cards
	}
	return m, nil
}

func (m Model) handleSuggestions(msg SuggestionsMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		m.Notice = msg.Err.Error()
		return m, nil
	}
	m.Suggestions = msg.Suggestions
	if len(msg.Suggestions) == 0 {
		m.Notice = "no fresh topics in the feed"
	}
	return m, nil
}

func (m Model) handleGenerationQueued(msg GenerationQueuedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Notice = msg.Err.Error()
		return m, nil
	}
	return m, pollStatus(m.Client)
}
