package tasks

import (
	"context"
	"fmt"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
)

// SessionStore is the slice of the session repository the send path needs.
type SessionStore interface {
	Load() (models.Session, error)
	AddEmailsUsed(n int) error
}

// AccountStore resolves the active mail provider.
type AccountStore interface {
	ActiveProvider() (models.EmailAccount, bool, error)
}

// HistoryStore records completed sends.
type HistoryStore interface {
	Append(record *models.EmailRecord) error
}

// OutreachEngine performs coordinator email sends with local
// subscription gating.
type OutreachEngine struct {
	catalog  services.Catalog
	mailer   services.Mailer
	sessions SessionStore
	accounts AccountStore
	history  HistoryStore
}

// OutreachOpts bundles the OutreachEngine dependencies.
type OutreachOpts struct {
	Catalog  services.Catalog
	Mailer   services.Mailer
	Sessions SessionStore
	Accounts AccountStore
	History  HistoryStore
}

// NewOutreachEngine creates an OutreachEngine.
func NewOutreachEngine(opts OutreachOpts) *OutreachEngine {
	return &OutreachEngine{
		catalog:  opts.Catalog,
		mailer:   opts.Mailer,
		sessions: opts.Sessions,
		accounts: opts.Accounts,
		history:  opts.History,
	}
}

// CanUseEmailFeature checks whether the session may send count more
// emails. It distinguishes the three refusals: not logged in, not on a
// paid plan, and out of quota.
func CanUseEmailFeature(session models.Session, count int) error {
	if !session.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	sub := session.Subscription
	if sub.Plan == models.PlanFree || sub.Plan == "" {
		return fmt.Errorf("%w: the email feature requires a premium or pro plan", shared.ErrUpgradeRequired)
	}

	if remaining := sub.EmailsRemaining(); remaining < count {
		return fmt.Errorf("%w: %d email(s) requested, %d remaining this period",
			shared.ErrQuotaExceeded, count, remaining)
	}

	return nil
}

// SendResult describes a completed single send.
type SendResult struct {
	Recipient string
	Provider  models.Provider
	Log       *services.EmailLog
	Record    *models.EmailRecord
}

// SingleSendOpts names one coordinator send. ProgramID is the
// server-side program key (Program.ProgramID).
type SingleSendOpts struct {
	ProgramID        string
	CoordinatorEmail string
	Subject          string
	Body             string
}

// SendSingle delivers one email after checking the session, plan, quota
// and linked provider, then records it and advances the usage counter.
func (e *OutreachEngine) SendSingle(ctx context.Context, progress chan<- ProgressUpdate, opts SingleSendOpts) (*SendResult, error) {
	session, err := e.sessions.Load()
	if err != nil {
		return nil, err
	}

	if err := CanUseEmailFeature(session, 1); err != nil {
		return nil, err
	}

	account, ok, err := e.accounts.ActiveProvider()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: connect gmail or outlook before sending", shared.ErrProviderNotLinked)
	}

	sendProgress(progress, prepareSendUpdate(1))
	sendProgress(progress, deliverEmailUpdate(string(account.Provider)))

	entry, err := e.mailer.SendEmail(ctx, services.SendEmailRequest{
		CoordinatorID: opts.CoordinatorEmail,
		ProgramID:     opts.ProgramID,
		Subject:       opts.Subject,
		Body:          opts.Body,
		EmailProvider: string(account.Provider),
		Username:      session.User.Username,
	})
	if err != nil {
		return nil, err
	}

	sendProgress(progress, recordHistoryUpdate())

	record := models.NewEmailRecord(0, models.RecordSingle,
		[]string{opts.CoordinatorEmail}, opts.Subject, opts.Body)
	if err := e.history.Append(record); err != nil {
		return nil, fmt.Errorf("email sent but history write failed: %w", err)
	}

	if err := e.sessions.AddEmailsUsed(1); err != nil {
		return nil, fmt.Errorf("email sent but usage update failed: %w", err)
	}

	return &SendResult{
		Recipient: opts.CoordinatorEmail,
		Provider:  account.Provider,
		Log:       entry,
		Record:    record,
	}, nil
}

// BulkSendResult describes a completed bulk send.
type BulkSendResult struct {
	Programs          []services.BulkProgram
	TotalCoordinators int
	Recipients        []string
	Provider          models.Provider
	Log               *services.BulkEmailLog
	Record            *models.EmailRecord
}

// SendBulk delivers one email to every coordinator of the selected
// programs. Coordinator lists are fetched sequentially by each
// program's server-side key, and the whole batch is refused up front
// if it would overrun the remaining quota. Coordinators without an
// email address are skipped and do not count against the quota.
func (e *OutreachEngine) SendBulk(ctx context.Context, progress chan<- ProgressUpdate, selected []models.Program, subject, body string) (*BulkSendResult, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: select at least one program", shared.ErrEmptySelection)
	}

	session, err := e.sessions.Load()
	if err != nil {
		return nil, err
	}

	// Plan and login are checked before the coordinator fetches so a
	// free user is refused without any network traffic.
	if err := CanUseEmailFeature(session, 1); err != nil {
		return nil, err
	}

	account, ok, err := e.accounts.ActiveProvider()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: connect gmail or outlook before sending", shared.ErrProviderNotLinked)
	}

	var (
		programs   []services.BulkProgram
		recipients []string
	)

	for i, program := range selected {
		sendProgress(progress, fetchCoordinatorsUpdate(i+1, len(selected), program.ProgramID))

		coordinators, err := e.catalog.Coordinators(ctx, program.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch coordinators for program %s: %w", program.ProgramID, err)
		}

		reachable := 0
		for _, coordinator := range coordinators {
			if coordinator.Email == "" {
				continue
			}
			recipients = append(recipients, coordinator.Email)
			reachable++
		}

		programs = append(programs, services.BulkProgram{
			ID:                program.ProgramID,
			CoordinatorsCount: reachable,
		})
	}

	total := len(recipients)
	if total == 0 {
		return nil, fmt.Errorf("%w: no coordinator of the selected programs has an email address",
			shared.ErrCoordinatorNotFound)
	}
	if err := CanUseEmailFeature(session, total); err != nil {
		return nil, err
	}

	sendProgress(progress, prepareSendUpdate(total))
	sendProgress(progress, deliverEmailUpdate(string(account.Provider)))

	entry, err := e.mailer.SendBulkEmail(ctx, services.BulkEmailRequest{
		Programs:      programs,
		Subject:       subject,
		Body:          body,
		EmailProvider: string(account.Provider),
		Username:      session.User.Username,
	})
	if err != nil {
		return nil, err
	}

	sendProgress(progress, recordHistoryUpdate())

	record := models.NewEmailRecord(0, models.RecordBulk, recipients, subject, body)
	if err := e.history.Append(record); err != nil {
		return nil, fmt.Errorf("bulk email sent but history write failed: %w", err)
	}

	if err := e.sessions.AddEmailsUsed(total); err != nil {
		return nil, fmt.Errorf("bulk email sent but usage update failed: %w", err)
	}

	return &BulkSendResult{
		Programs:          programs,
		TotalCoordinators: total,
		Recipients:        recipients,
		Provider:          account.Provider,
		Log:               entry,
		Record:            record,
	}, nil
}
