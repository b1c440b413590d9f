package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/uniworld/cli/internal/formatter"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// defaultSubjects are used when a template is selected without an
// explicit subject.
var defaultSubjects = map[tasks.TemplateKind]string{
	tasks.TemplateInquiry:     "Inquiry about %s",
	tasks.TemplateAdmission:   "Admission requirements for %s",
	tasks.TemplateScholarship: "Scholarship opportunities for %s",
}

// resolveDraft builds the subject and body for a send from the
// subject/body/template flags. With a program the template placeholders
// are filled in; without one the template is used verbatim.
func resolveDraft(subject, body, templateName string, program *models.Program) (string, string, error) {
	if templateName == "" {
		if subject == "" || body == "" {
			return "", "", fmt.Errorf("%w: provide --subject and --body, or --template", shared.ErrMissingArgument)
		}
		return subject, body, nil
	}

	kind := tasks.TemplateKind(templateName)

	if body == "" {
		if program != nil {
			rendered, ok := tasks.RenderTemplate(kind, program.Name, program.University.Name)
			if !ok {
				return "", "", fmt.Errorf("%w: unknown template %q", shared.ErrInvalidArgument, templateName)
			}
			body = rendered
		} else {
			raw, ok := tasks.Template(kind)
			if !ok {
				return "", "", fmt.Errorf("%w: unknown template %q", shared.ErrInvalidArgument, templateName)
			}
			body = raw
		}
	}

	if subject == "" {
		format := defaultSubjects[kind]
		target := "your program"
		if program != nil {
			target = program.Name
		}
		subject = fmt.Sprintf(format, target)
	}

	return subject, body, nil
}

// watchProgress prints progress updates until the channel is closed and
// signals completion on the returned channel.
func (r *Runner) watchProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()
	return done
}

// findProgram resolves a client list id against the program catalog.
func (r *Runner) findProgram(ctx context.Context, programID int) (*models.Program, error) {
	if programID <= 0 {
		return nil, fmt.Errorf("%w: --program is required", shared.ErrMissingArgument)
	}

	programs, err := r.service.Programs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	for i := range programs {
		if programs[i].ID == programID {
			return &programs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: program %d", shared.ErrProgramNotFound, programID)
}

// findPrograms resolves client list ids against one catalog fetch,
// preserving the given order.
func (r *Runner) findPrograms(ctx context.Context, programIDs []int) ([]models.Program, error) {
	if len(programIDs) == 0 {
		return nil, fmt.Errorf("%w: provide at least one program ID", shared.ErrMissingArgument)
	}

	programs, err := r.service.Programs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	byID := make(map[int]models.Program, len(programs))
	for _, program := range programs {
		byID[program.ID] = program
	}

	selected := make([]models.Program, 0, len(programIDs))
	for _, id := range programIDs {
		program, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: program %d", shared.ErrProgramNotFound, id)
		}
		selected = append(selected, program)
	}
	return selected, nil
}

// EmailSend delivers one email to a program coordinator.
func (r *Runner) EmailSend(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	// The --program flag takes the client list id; the wire wants the
	// server-side program key, so the program is always resolved first.
	program, err := r.findProgram(ctx, cmd.Int("program"))
	if err != nil {
		return err
	}

	subject, body, err := resolveDraft(cmd.String("subject"), cmd.String("body"), cmd.String("template"), program)
	if err != nil {
		return err
	}

	engine, err := r.outreach()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.watchProgress(progress)

	result, err := engine.SendSingle(ctx, progress, tasks.SingleSendOpts{
		ProgramID:        program.ProgramID,
		CoordinatorEmail: cmd.String("to"),
		Subject:          subject,
		Body:             body,
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Email sent")
	r.writePlain("  To: %s\n", result.Recipient)
	r.writePlain("  Provider: %s\n", result.Provider)
	return nil
}

// EmailBulk delivers one email to every coordinator of the given
// programs. The quota check is all-or-nothing: if the combined
// recipient count exceeds the remaining quota, nothing is sent.
func (r *Runner) EmailBulk(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	var programIDs []int
	for _, raw := range strings.Split(cmd.String("programs"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid program ID %q", shared.ErrInvalidArgument, raw)
		}
		programIDs = append(programIDs, id)
	}

	selected, err := r.findPrograms(ctx, programIDs)
	if err != nil {
		return err
	}

	subject, body, err := resolveDraft(cmd.String("subject"), cmd.String("body"), cmd.String("template"), nil)
	if err != nil {
		return err
	}

	engine, err := r.outreach()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.watchProgress(progress)

	result, err := engine.SendBulk(ctx, progress, selected, subject, body)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Bulk send complete")
	r.writePlain("  Programs: %d\n", len(result.Programs))
	r.writePlain("  Recipients: %d\n", result.TotalCoordinators)
	r.writePlain("  Provider: %s\n", result.Provider)
	return nil
}

// EmailHistory prints or exports the local send history.
func (r *Runner) EmailHistory(ctx context.Context, cmd *cli.Command) error {
	history, err := r.history()
	if err != nil {
		return err
	}

	records, err := history.All()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if base := cmd.String("export"); base != "" {
		file, err := formatter.WriteHistoryCSV(records, base)
		if err != nil {
			return err
		}
		return r.writePlain("✓ History exported to %s\n", file)
	}

	if cmd.Bool("json") {
		entries := make([]map[string]any, len(records))
		for i, record := range records {
			entries[i] = map[string]any{
				"kind":       record.Kind(),
				"recipients": record.Recipients(),
				"subject":    record.Subject(),
				"count":      record.Count(),
				"sent_at":    record.SentAt(),
			}
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(formatter.HistoryToText(records)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// EmailTemplate prints a canned template, optionally with the
// placeholders filled from a program.
func (r *Runner) EmailTemplate(ctx context.Context, cmd *cli.Command) error {
	kindArg := cmd.StringArg("kind")

	if kindArg == "" {
		r.writePlain("Available templates:\n")
		for _, kind := range tasks.TemplateKinds {
			r.writePlain("  %s\n", kind)
		}
		return nil
	}

	kind := tasks.TemplateKind(kindArg)

	if programID := cmd.Int("program"); programID > 0 {
		program, err := r.findProgram(ctx, programID)
		if err != nil {
			return err
		}
		rendered, ok := tasks.RenderTemplate(kind, program.Name, program.University.Name)
		if !ok {
			return fmt.Errorf("%w: unknown template %q", shared.ErrInvalidArgument, kindArg)
		}
		return r.writePlain("%s\n", rendered)
	}

	raw, ok := tasks.Template(kind)
	if !ok {
		return fmt.Errorf("%w: unknown template %q", shared.ErrInvalidArgument, kindArg)
	}
	return r.writePlain("%s\n", raw)
}

// EmailSuggest asks the assistant for a full draft.
func (r *Runner) EmailSuggest(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	language := cmd.String("language")
	if language == "" {
		language = r.preferredLanguage()
	}

	suggestion, err := r.assistant.GenerateSuggestions(ctx, services.SuggestionRequest{
		ProgramID:     cmd.Int("program"),
		CoordinatorID: cmd.Int("coordinator"),
		EmailType:     cmd.String("type"),
		Language:      language,
	})
	if err != nil {
		return err
	}

	r.writePlainHeader("Suggested Draft")
	r.writePlain("Subject: %s\n\n", suggestion.Subject)
	r.writePlain("%s\n", suggestion.Content)
	return nil
}

// EmailSubjects asks the assistant for subject line options.
func (r *Runner) EmailSubjects(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	subjects, err := r.assistant.GenerateSubjects(ctx, services.SubjectsRequest{
		ProgramID:     cmd.Int("program"),
		CoordinatorID: cmd.Int("coordinator"),
		EmailType:     cmd.String("type"),
		Count:         cmd.Int("count"),
		Language:      r.preferredLanguage(),
	})
	if err != nil {
		return err
	}

	for i, subject := range subjects {
		r.writePlain("%d. %s\n", i+1, subject)
	}
	return nil
}

// EmailEnhance asks the assistant to rework an existing draft.
func (r *Runner) EmailEnhance(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	enhanced, err := r.assistant.EnhanceContent(ctx, services.EnhanceRequest{
		ProgramID:       cmd.Int("program"),
		CoordinatorID:   cmd.Int("coordinator"),
		CurrentContent:  cmd.String("body"),
		EnhancementType: cmd.String("style"),
	})
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", enhanced)
}
