package translator

import (
	"time"

	"shortsmaker/types"
)

// Card renders the dashboard entry for a translator project.
func Card(project *types.TranslatorProject) types.DashboardCard {
	topic := project.PromptHint
	if topic == "" {
		topic = project.ToneHint
	}
	return types.DashboardCard{
		ID:             project.ID,
		Title:          project.BaseName,
		ProjectType:    "translator",
		Status:         string(project.Status),
		CompletedSteps: project.Status.CompletedSteps(),
		TotalSteps:     types.TranslatorTotalSteps,
		Thumbnail:      project.SourceVideo,
		UpdatedAt:      project.UpdatedAt.Format(time.RFC3339),
		Language:       project.TargetLang,
		Topic:          topic,
		SourceOrigin:   project.SourceOrigin,
	}
}

// ShortsCard renders the dashboard entry for a shorts project. Progress is
// inferred from which artifacts exist on disk.
func ShortsCard(summary types.ProjectSummary) types.DashboardCard {
	status, completed := "draft", 1
	switch {
	case summary.VideoPath != "":
		status, completed = "rendered", 5
	case summary.AudioPath != "":
		status, completed = "voice_ready", 3
	}

	title := summary.Topic
	if title == "" {
		title = summary.BaseName
	}
	thumbnail := summary.VideoPath
	if thumbnail == "" {
		thumbnail = summary.AudioPath
	}
	if thumbnail == "" {
		thumbnail = summary.BaseName
	}
	updated := ""
	if !summary.UpdatedAt.IsZero() {
		updated = summary.UpdatedAt.Format(time.RFC3339)
	}

	return types.DashboardCard{
		ID:             summary.BaseName,
		Title:          title,
		ProjectType:    "shorts",
		Status:         status,
		CompletedSteps: completed,
		TotalSteps:     types.TranslatorTotalSteps,
		Thumbnail:      thumbnail,
		UpdatedAt:      updated,
		Language:       summary.Language,
		Topic:          summary.Topic,
	}
}

// Dashboard lists translator cards first, then the given shorts cards.
func (s *Store) Dashboard(shorts []types.ProjectSummary) ([]types.DashboardCard, error) {
	projects, err := s.List()
	if err != nil {
		return nil, err
	}
	cards := make([]types.DashboardCard, 0, len(projects)+len(shorts))
	for _, project := range projects {
		cards = append(cards, Card(project))
	}
	for _, summary := range shorts {
		cards = append(cards, ShortsCard(summary))
	}
	return cards, nil
}
