package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

// EmailHistoryRepository persists the append-only outreach history.
// Entries are never updated or evicted.
type EmailHistoryRepository struct {
	db *sql.DB
}

// NewEmailHistoryRepository creates a new [EmailHistoryRepository] with the given database connection
func NewEmailHistoryRepository(db *sql.DB) *EmailHistoryRepository {
	return &EmailHistoryRepository{db: db}
}

// Append records a completed send.
func (r *EmailHistoryRepository) Append(record *models.EmailRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "email_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	recipients, err := json.Marshal(record.Recipients())
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)

	query := `
		INSERT INTO email_history (id, sequence, kind, recipients, subject, body, recipient_count, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id, sequence, string(record.Kind()), string(recipients),
		record.Subject(), record.Body(), record.Count(),
		record.SentAt(), record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// All returns the history, most recent first.
func (r *EmailHistoryRepository) All() ([]*models.EmailRecord, error) {
	query := `
		SELECT id, sequence, kind, recipients, subject, body, recipient_count, sent_at, created_at
		FROM email_history
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*models.EmailRecord
	for rows.Next() {
		var (
			id         string
			sequence   int
			kind       string
			rawList    string
			subject    string
			body       string
			count      int
			sentAt     time.Time
			createdAt  time.Time
			recipients []string
		)

		if err := rows.Scan(&id, &sequence, &kind, &rawList, &subject, &body, &count, &sentAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		if err := json.Unmarshal([]byte(rawList), &recipients); err != nil {
			return nil, fmt.Errorf("failed to decode recipients: %w", err)
		}

		record := models.NewEmailRecord(sequence, models.RecordKind(kind), recipients, subject, body)
		record.SetID(id)
		record.SetSentAt(sentAt)
		record.SetCreatedAt(createdAt)
		record.SetCount(count)

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// CountSince returns how many sends were recorded at or after the cutoff.
func (r *EmailHistoryRepository) CountSince(cutoff time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(recipient_count), 0) FROM email_history WHERE sent_at >= ?", cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}
