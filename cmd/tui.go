package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/uniworld/cli/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for program discovery and
// bulk outreach. The bulk draft comes from the subject/body/template
// flags; the default is the inquiry template.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	subject := cmd.String("subject")
	body := cmd.String("body")

	if body == "" {
		kind := tasks.TemplateKind(cmd.String("template"))
		raw, ok := tasks.Template(kind)
		if !ok {
			return fmt.Errorf("%w: unknown template %q", shared.ErrInvalidArgument, cmd.String("template"))
		}
		body = raw
		if subject == "" {
			subject = fmt.Sprintf(defaultSubjects[kind], "your program")
		}
	}
	if subject == "" {
		subject = "Inquiry about your program"
	}

	favorites, err := r.favorites()
	if err != nil {
		return err
	}

	engine, err := r.outreach()
	if err != nil {
		return err
	}

	if _, err := r.restoreSession(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/uniworld-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	model := ui.NewModel(ctx, ui.ModelOpts{
		Catalog:   r.engine,
		Programs:  r.service,
		Outreach:  engine,
		Favorites: favorites,
		Draft:     ui.Draft{Subject: subject, Body: body},
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
