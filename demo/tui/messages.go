package tui

import (
	"time"

	"shortsmaker/jobs"
	"shortsmaker/topics"
	"shortsmaker/types"
)

// Messages for the tea program (polling-based)

// StatusMsg carries one poll of the job slot.
type StatusMsg struct {
	Status *jobs.Status
	Err    error
}

// DashboardMsg carries one poll of the project cards.
type DashboardMsg struct {
	Cards []types.DashboardCard
	Err   error
}

// SuggestionsMsg carries fetched topic suggestions.
type SuggestionsMsg struct {
	Suggestions []*topics.Suggestion
	Err         error
}

// GenerationQueuedMsg reports the outcome of a generation kickoff.
type GenerationQueuedMsg struct {
	Topic string
	Err   error
}

// TickMsg triggers the next poll round.
type TickMsg struct {
	Time time.Time
}
