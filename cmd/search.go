package main

import (
	"context"
	"fmt"

	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search runs a server-side program search with the given filters.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	filters := services.SearchFilters{
		Query:        cmd.String("query"),
		Country:      cmd.String("country"),
		FieldOfStudy: cmd.String("field"),
		University:   cmd.String("university"),
		DegreeLevel:  cmd.String("degree"),
		Language:     cmd.String("language"),
	}

	if filters.Empty() {
		return fmt.Errorf("%w: provide a query or at least one filter", shared.ErrMissingArgument)
	}

	r.logger.Infof("searching programs: %s", filters.Encode())

	programs, err := r.service.Search(ctx, filters)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(programs, cmd.Bool("pretty"))
	}

	if len(programs) == 0 {
		return r.writePlain("No programs matched.\n")
	}

	pager := tasks.NewSearchPager(programs)
	pages := cmd.Int("pages")
	if cmd.Bool("all") {
		pages = len(programs)
	}
	for i := 0; i < pages && pager.HasMore(); i++ {
		pager.NextPage()
	}

	shown := pager.Shown()
	r.writePlain("Found %d programs, showing %d:\n\n", pager.Total(), len(shown))
	for i, p := range shown {
		r.writePlain("%d. %s\n", i+1, shared.SanitizeText(p.Name))
		r.writePlain("   University: %s\n", shared.SanitizeText(p.University.Name))
		r.writePlain("   Field: %s\n", shared.SanitizeText(p.FieldOfStudy))
		r.writePlain("   Degree: %s\n", shared.SanitizeText(p.DegreeLevel))
		r.writePlain("   ID: %d\n\n", p.ID)
	}

	if pager.HasMore() {
		r.writePlain("%d more result(s). Re-run with --pages %d or --all.\n",
			pager.Total()-len(shown), pager.Page()+1)
	}

	return nil
}
