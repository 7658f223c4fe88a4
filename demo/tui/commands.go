package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shortsmaker/demo/client"
	"shortsmaker/generator"
)

const pollInterval = time.Second

// pollStatus polls the job slot once.
func pollStatus(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		status, err := c.JobStatus(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

// pollDashboard polls the project cards once.
func pollDashboard(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		cards, err := c.Dashboard(context.Background())
		return DashboardMsg{Cards: cards, Err: err}
	}
}

// fetchSuggestions pulls fresh topic suggestions from the default feed.
func fetchSuggestions(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := c.SuggestTopics(context.Background(), "", 8)
		return SuggestionsMsg{Suggestions: suggestions, Err: err}
	}
}

// queueGeneration starts a generation run for topic.
func queueGeneration(c *client.Client, topic string) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Generate(context.Background(), generator.Request{Topic: topic})
		return GenerationQueuedMsg{Topic: topic, Err: err}
	}
}

// tickCmd schedules the next polling round.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
