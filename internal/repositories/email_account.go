package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/uniworld/cli/internal/models"
)

// EmailAccountRepository persists per-provider OAuth link state.
type EmailAccountRepository struct {
	db *sql.DB
}

// NewEmailAccountRepository creates a new [EmailAccountRepository] with the given database connection
func NewEmailAccountRepository(db *sql.DB) *EmailAccountRepository {
	return &EmailAccountRepository{db: db}
}

// Upsert writes the link state for a provider, replacing any previous
// state for the same provider.
func (r *EmailAccountRepository) Upsert(account models.EmailAccount) error {
	if !account.Provider.Valid() {
		return fmt.Errorf("unknown provider: %s", account.Provider)
	}

	query := `
		INSERT INTO email_accounts (provider, connected, email, access_token, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (provider) DO UPDATE SET
			connected = excluded.connected,
			email = excluded.email,
			access_token = excluded.access_token,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		string(account.Provider), account.Connected, account.Email, account.AccessToken, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save email account: %w", err)
	}

	return nil
}

// Get returns the link state for a provider. An unknown or never-linked
// provider comes back as a disconnected account.
func (r *EmailAccountRepository) Get(provider models.Provider) (models.EmailAccount, error) {
	query := `
		SELECT provider, connected, email, access_token, updated_at
		FROM email_accounts
		WHERE provider = ?
	`

	var (
		account   models.EmailAccount
		name      string
		updatedAt time.Time
	)

	err := r.db.QueryRow(query, string(provider)).Scan(
		&name, &account.Connected, &account.Email, &account.AccessToken, &updatedAt)
	if err == sql.ErrNoRows {
		return models.EmailAccount{Provider: provider}, nil
	}
	if err != nil {
		return models.EmailAccount{}, fmt.Errorf("failed to query email account: %w", err)
	}

	account.Provider = models.Provider(name)
	account.UpdatedAt = updatedAt

	return account, nil
}

// All returns the link state for every provider in send order, including
// providers that were never linked.
func (r *EmailAccountRepository) All() ([]models.EmailAccount, error) {
	accounts := make([]models.EmailAccount, 0, len(models.SendOrder))
	for _, provider := range models.SendOrder {
		account, err := r.Get(provider)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// ActiveProvider returns the first connected provider in send order.
func (r *EmailAccountRepository) ActiveProvider() (models.EmailAccount, bool, error) {
	accounts, err := r.All()
	if err != nil {
		return models.EmailAccount{}, false, err
	}

	for _, account := range accounts {
		if account.Connected {
			return account, true, nil
		}
	}

	return models.EmailAccount{}, false, nil
}

// Disconnect marks a provider as unlinked and drops its token.
func (r *EmailAccountRepository) Disconnect(provider models.Provider) error {
	query := `
		UPDATE email_accounts
		SET connected = 0, access_token = '', updated_at = ?
		WHERE provider = ?
	`

	if _, err := r.db.Exec(query, time.Now(), string(provider)); err != nil {
		return fmt.Errorf("failed to disconnect provider: %w", err)
	}

	return nil
}
