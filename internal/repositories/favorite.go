package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

// FavoriteRepository persists favorite program snapshots.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts a favorite snapshot with a generated ID and sequence.
// Adding a program that is already favorited is an error; use Toggle
// semantics at the caller when flipping state.
func (r *FavoriteRepository) Add(favorite *models.Favorite) error {
	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	favorite.SetID(id)

	query := `
		INSERT INTO favorites (id, sequence, program_id, name, university, field_of_study, degree_level, added_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id, sequence, favorite.ProgramID(), favorite.Name(), favorite.University(),
		favorite.FieldOfStudy(), favorite.DegreeLevel(),
		favorite.AddedAt(), favorite.CreatedAt(), favorite.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

// Remove deletes the favorite for a program. Removing a program that is
// not favorited is not an error; it reports false.
func (r *FavoriteRepository) Remove(programID int) (bool, error) {
	result, err := r.db.Exec("DELETE FROM favorites WHERE program_id = ?", programID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Exists reports whether a program is favorited.
func (r *FavoriteRepository) Exists(programID int) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM favorites WHERE program_id = ?", programID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// Get retrieves the favorite snapshot for a program.
func (r *FavoriteRepository) Get(programID int) (*models.Favorite, error) {
	query := `
		SELECT id, sequence, program_id, name, university, field_of_study, degree_level, added_at, created_at, updated_at
		FROM favorites
		WHERE program_id = ?
	`

	favorite, err := scanFavorite(r.db.QueryRow(query, programID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: program %d is not favorited", shared.ErrProgramNotFound, programID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}

	return favorite, nil
}

// All returns every favorite in insertion order.
func (r *FavoriteRepository) All() ([]*models.Favorite, error) {
	query := `
		SELECT id, sequence, program_id, name, university, field_of_study, degree_level, added_at, created_at, updated_at
		FROM favorites
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		favorite, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// Count returns the number of favorites.
func (r *FavoriteRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM favorites").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// Clear removes every favorite.
func (r *FavoriteRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM favorites"); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner) (*models.Favorite, error) {
	var (
		id           string
		sequence     int
		programID    int
		name         string
		university   string
		fieldOfStudy string
		degreeLevel  string
		addedAt      time.Time
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &sequence, &programID, &name, &university, &fieldOfStudy, &degreeLevel, &addedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	favorite := models.NewFavorite(sequence, programID, name, university, fieldOfStudy, degreeLevel)
	favorite.SetID(id)
	favorite.SetAddedAt(addedAt)
	favorite.SetCreatedAt(createdAt)
	favorite.SetUpdatedAt(updatedAt)

	return favorite, nil
}
