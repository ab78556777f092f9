package ui

import "tsa/internal/domain"

// Viewer displays generated test cases in an interactive TUI
type Viewer interface {
	View(cases []domain.TestCase) error
}
