package tui

// UI text constants
const (
	TextFooter       = "Press 'g' to generate | 's' to suggest topics | 'r' to refresh | 'q' to quit"
	TextTypingFooter = "Press enter to queue the generation | esc to cancel"
)
