package main

import (
	"context"
	"fmt"

	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogUniversities lists universities.
func (r *Runner) CatalogUniversities(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("listing universities")

	universities, err := r.service.Universities(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(universities, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d universities:\n\n", len(universities))
	for i, u := range universities {
		r.writePlain("%d. %s\n", i+1, shared.SanitizeText(u.Name))
		if u.City != "" || u.Country != "" {
			r.writePlain("   Location: %s, %s\n", shared.SanitizeText(u.City), shared.SanitizeText(u.Country))
		}
		if u.Website != "" {
			r.writePlain("   Website: %s\n", shared.SanitizeText(u.Website))
		}
	}

	return nil
}

// CatalogPrograms lists programs with an optional limit.
func (r *Runner) CatalogPrograms(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	r.logger.Infof("listing programs with limit %v", limit)

	programs, err := r.service.Programs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(programs) {
		programs = programs[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(programs, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d programs:\n\n", len(programs))
	for i, p := range programs {
		r.writePlain("%d. %s\n", i+1, shared.SanitizeText(p.Name))
		r.writePlain("   University: %s\n", shared.SanitizeText(p.University.Name))
		r.writePlain("   Field: %s\n", shared.SanitizeText(p.FieldOfStudy))
		r.writePlain("   Degree: %s\n", shared.SanitizeText(p.DegreeLevel))
		r.writePlain("   ID: %d\n\n", p.ID)
	}

	return nil
}

// CatalogCountries lists the available country filters.
func (r *Runner) CatalogCountries(ctx context.Context, cmd *cli.Command) error {
	countries, err := r.service.Countries(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(countries, cmd.Bool("pretty"))
	}

	for _, country := range countries {
		r.writePlain("%s\n", shared.SanitizeText(country))
	}
	return nil
}

// CatalogFields lists the available field-of-study filters.
func (r *Runner) CatalogFields(ctx context.Context, cmd *cli.Command) error {
	fields, err := r.service.FieldsOfStudy(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(fields, cmd.Bool("pretty"))
	}

	for _, field := range fields {
		r.writePlain("%s\n", shared.SanitizeText(field))
	}
	return nil
}

// CatalogCoordinators lists coordinators for one program.
func (r *Runner) CatalogCoordinators(ctx context.Context, cmd *cli.Command) error {
	programID := cmd.String("program")

	coordinators, err := r.service.Coordinators(ctx, programID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(coordinators, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d coordinators:\n\n", len(coordinators))
	for i, c := range coordinators {
		r.writePlain("%d. %s\n", i+1, shared.SanitizeText(c.Name))
		if c.Role != "" {
			r.writePlain("   Role: %s\n", shared.SanitizeText(c.Role))
		}
		if c.Email != "" {
			r.writePlain("   Email: %s\n", shared.SanitizeText(c.Email))
		}
	}

	return nil
}

// CatalogLoad loads the full catalog concurrently and reports which
// endpoints failed. Filter failures are non-fatal; a program list
// failure aborts the load.
func (r *Runner) CatalogLoad(ctx context.Context, cmd *cli.Command) error {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message)
		}
	}()

	catalog, err := r.engine.LoadAll(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Catalog")
	r.writePlain("Universities: %d\n", len(catalog.Universities))
	r.writePlain("Programs: %d\n", len(catalog.Programs))
	r.writePlain("Countries: %d\n", len(catalog.Countries))
	r.writePlain("Fields of study: %d\n", len(catalog.FieldsOfStudy))

	for _, endpointErr := range catalog.Errors {
		r.writePlain("⚠ %s failed: %v\n", endpointErr.Endpoint, endpointErr.Err)
	}

	return nil
}
