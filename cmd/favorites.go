package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/uniworld/cli/internal/formatter"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints locally stored favorite programs.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	favorites, err := r.favorites()
	if err != nil {
		return err
	}

	all, err := favorites.All()
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	if cmd.Bool("json") {
		entries := make([]map[string]any, len(all))
		for i, f := range all {
			entries[i] = map[string]any{
				"program_id":     f.ProgramID(),
				"name":           f.Name(),
				"university":     f.University(),
				"field_of_study": f.FieldOfStudy(),
				"degree_level":   f.DegreeLevel(),
				"added_at":       f.AddedAt(),
			}
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(formatter.FavoritesToText(all)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// FavoritesToggle adds or removes a program from favorites. The program
// snapshot is taken from the live catalog so the list stays readable
// offline.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	programID := cmd.Int("program")

	favorites, err := r.favorites()
	if err != nil {
		return err
	}

	programs, err := r.service.Programs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var program *models.Program
	for i := range programs {
		if programs[i].ID == programID {
			program = &programs[i]
			break
		}
	}
	if program == nil {
		return fmt.Errorf("%w: program %d", shared.ErrProgramNotFound, programID)
	}

	favorited, err := tasks.ToggleFavorite(favorites, *program)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}

	if favorited {
		return r.writePlain("★ Added %s to favorites\n", program.Name)
	}
	return r.writePlain("✓ Removed %s from favorites\n", program.Name)
}

// FavoritesClear removes all favorites.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	favorites, err := r.favorites()
	if err != nil {
		return err
	}

	if err := favorites.Clear(); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}

	r.logger.Info("favorites cleared")
	return r.writePlain("✓ Favorites cleared\n")
}

// FavoritesExport writes favorites to disk in the requested format.
// CSV exports include a metadata sidecar.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	base := cmd.String("output")

	favorites, err := r.favorites()
	if err != nil {
		return err
	}

	all, err := favorites.All()
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	if len(all) == 0 {
		return r.writePlain("No favorites to export.\n")
	}

	switch format {
	case "csv":
		result, err := formatter.WriteFavoritesCSV(all, base, time.Now().Format(time.RFC3339))
		if err != nil {
			return err
		}
		r.writePlain("✓ Favorites exported to %s\n", result.DataFile)
		r.writePlain("  Metadata: %s\n", result.MetadataFile)
		return nil

	case "markdown", "md":
		if base == "" {
			base = "uniworld"
		}
		outputFile := base + "_favorites.md"
		if err := os.WriteFile(outputFile, formatter.FavoritesToMarkdown(all), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return r.writePlain("✓ Favorites exported to %s\n", outputFile)

	case "text", "txt":
		if base == "" {
			base = "uniworld"
		}
		outputFile := base + "_favorites.txt"
		if err := os.WriteFile(outputFile, formatter.FavoritesToText(all), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return r.writePlain("✓ Favorites exported to %s\n", outputFile)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}
