package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/uniworld/cli/internal/models"
)

// SessionRepository persists the single local login session. The session
// table holds at most one row; saving replaces it wholesale.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save replaces the stored session. Anonymous sessions are not stored;
// use Clear to log out.
func (r *SessionRepository) Save(session models.Session) error {
	if !session.Authenticated() {
		return fmt.Errorf("cannot save an anonymous session")
	}

	sub := session.Subscription

	query := `
		INSERT INTO session (
			id, user_id, username, email, date_joined, auth_token,
			plan, status, emails_used, emails_limit, searches_used, searches_limit,
			plan_started_at, plan_ends_at, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			date_joined = excluded.date_joined,
			auth_token = excluded.auth_token,
			plan = excluded.plan,
			status = excluded.status,
			emails_used = excluded.emails_used,
			emails_limit = excluded.emails_limit,
			searches_used = excluded.searches_used,
			searches_limit = excluded.searches_limit,
			plan_started_at = excluded.plan_started_at,
			plan_ends_at = excluded.plan_ends_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		session.User.ID, session.User.Username, session.User.Email, session.User.DateJoined,
		session.Token,
		string(sub.Plan), sub.Status, sub.EmailsUsed, sub.EmailsLimit,
		sub.SearchesUsed, sub.SearchesLimit,
		sub.StartedAt, sub.EndsAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load returns the stored session, or the anonymous session when no
// login is recorded.
func (r *SessionRepository) Load() (models.Session, error) {
	query := `
		SELECT user_id, username, email, date_joined, auth_token,
			plan, status, emails_used, emails_limit, searches_used, searches_limit,
			plan_started_at, plan_ends_at
		FROM session WHERE id = 1
	`

	var (
		user       models.User
		dateJoined sql.NullTime
		token      string
		plan       string
		sub        models.Subscription
		startedAt  sql.NullTime
		endsAt     sql.NullTime
	)

	err := r.db.QueryRow(query).Scan(
		&user.ID, &user.Username, &user.Email, &dateJoined, &token,
		&plan, &sub.Status, &sub.EmailsUsed, &sub.EmailsLimit,
		&sub.SearchesUsed, &sub.SearchesLimit,
		&startedAt, &endsAt,
	)
	if err == sql.ErrNoRows {
		return models.AnonymousSession(), nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if dateJoined.Valid {
		user.DateJoined = dateJoined.Time
	}
	sub.Plan = models.Plan(plan)
	if startedAt.Valid {
		sub.StartedAt = &startedAt.Time
	}
	if endsAt.Valid {
		sub.EndsAt = &endsAt.Time
	}

	return models.Session{User: &user, Token: token, Subscription: sub}, nil
}

// Clear removes the stored session. Favorites, linked accounts and the
// outreach history survive a logout.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdateSubscription rewrites the subscription fields of the stored
// session without touching the identity fields.
func (r *SessionRepository) UpdateSubscription(sub models.Subscription) error {
	query := `
		UPDATE session
		SET plan = ?, status = ?, emails_used = ?, emails_limit = ?,
			searches_used = ?, searches_limit = ?,
			plan_started_at = ?, plan_ends_at = ?, updated_at = ?
		WHERE id = 1
	`

	result, err := r.db.Exec(query,
		string(sub.Plan), sub.Status, sub.EmailsUsed, sub.EmailsLimit,
		sub.SearchesUsed, sub.SearchesLimit,
		sub.StartedAt, sub.EndsAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no session to update")
	}

	return nil
}

// AddEmailsUsed advances the usage counter after a successful send. The
// caller is responsible for checking the quota before sending.
func (r *SessionRepository) AddEmailsUsed(n int) error {
	if n <= 0 {
		return fmt.Errorf("usage increment must be positive, got %d", n)
	}

	query := `
		UPDATE session
		SET emails_used = emails_used + ?, updated_at = ?
		WHERE id = 1
	`

	result, err := r.db.Exec(query, n, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record email usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no session to update")
	}

	return nil
}
