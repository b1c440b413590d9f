package tasks

import (
	"github.com/uniworld/cli/internal/models"
)

// FavoriteStore is the slice of the favorite repository the toggle
// workflow needs.
type FavoriteStore interface {
	Add(favorite *models.Favorite) error
	Remove(programID int) (bool, error)
	Exists(programID int) (bool, error)
}

// ToggleFavorite flips a program's favorite state and reports whether it
// is favorited afterwards. Adding stores a snapshot of the program's
// display fields; the snapshot does not track later catalog changes.
func ToggleFavorite(store FavoriteStore, program models.Program) (bool, error) {
	exists, err := store.Exists(program.ID)
	if err != nil {
		return false, err
	}

	if exists {
		if _, err := store.Remove(program.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := store.Add(models.SnapshotProgram(0, program)); err != nil {
		return false, err
	}
	return true, nil
}
