package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"shortsmaker/demo/client"
	"shortsmaker/jobs"
	"shortsmaker/topics"
	"shortsmaker/types"
)

// Model is the dashboard state, synced from the API by polling.
type Model struct {
	Client *client.Client

	Status      jobs.Status
	Cards       []types.DashboardCard
	Suggestions []*topics.Suggestion
	Connected   bool
	Notice      string

	typing  bool
	input   string
	loading bool
}

// NewModel creates a dashboard model polling the API at baseURL.
func NewModel(baseURL string) Model {
	return Model{
		Client: client.NewClient(baseURL),
		Status: jobs.Status{State: jobs.StateIdle},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatus(m.Client),
		pollDashboard(m.Client),
		tickCmd(),
	)
}

// stateText renders the job slot line for the current state.
func (m Model) stateText() string {
	if !m.Connected {
		return ErrorStyle.Render("❌ Not connected to the API")
	}

	switch m.Status.State {
	case jobs.StateIdle:
		return HighlightStyle.Render("👋 Idle") + "  " + InfoStyle.Render("job slot free")
	case jobs.StateRunning:
		return StatusStyle.Render(fmt.Sprintf("⏳ %s running: %s", m.Status.Kind, m.Status.Name))
	case jobs.StateDone:
		return StatusStyle.Render(fmt.Sprintf("✅ %s finished: %s", m.Status.Kind, m.Status.Name))
	case jobs.StateFailed:
		return ErrorStyle.Render(fmt.Sprintf("❌ %s failed: %s", m.Status.Kind, m.Status.LastError))
	default:
		return ""
	}
}
