// Package tui is the interactive dashboard: a server-side paginated grid
// over the backend's collections with master-detail expansion.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/hubdeck/hubdeck/config"
	"github.com/hubdeck/hubdeck/internal/api"
	"github.com/hubdeck/hubdeck/internal/session"
)

// Deps are the collaborators the dashboard needs.
type Deps struct {
	Client  *api.Client
	Session *session.Manager
	Config  *config.Config
}

// Run starts the dashboard and blocks until the user quits.
func Run(deps Deps) error {
	model := NewModel(deps)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ShouldUseTUI returns true if the TUI should be used based on environment.
func ShouldUseTUI() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"GITLAB_CI",
		"BUILDKITE",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return false
		}
	}
	return true
}
