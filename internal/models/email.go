package models

import (
	"fmt"
	"time"
)

// Provider enumerates linkable mail providers.
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
)

// SendOrder is the fixed order used when picking the active provider for
// sending: first connected wins, regardless of any configured default.
var SendOrder = []Provider{ProviderGmail, ProviderOutlook}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderGmail || p == ProviderOutlook
}

// EmailAccount is the per-provider OAuth2 link state.
// At most one account is considered active for sending.
type EmailAccount struct {
	Provider    Provider  `json:"provider"`
	Connected   bool      `json:"connected"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordKind distinguishes single and bulk outreach history entries.
type RecordKind string

const (
	RecordSingle RecordKind = "single"
	RecordBulk   RecordKind = "bulk"
)

// EmailRecord is one entry in the append-only outreach history.
// History is never evicted.
type EmailRecord struct {
	id         string
	sequence   int
	kind       RecordKind
	recipients []string
	subject    string
	body       string
	count      int
	sentAt     time.Time
	createdAt  time.Time
}

// NewEmailRecord creates a history entry for a completed send.
func NewEmailRecord(sequence int, kind RecordKind, recipients []string, subject, body string) *EmailRecord {
	now := time.Now()
	return &EmailRecord{
		sequence:   sequence,
		kind:       kind,
		recipients: recipients,
		subject:    subject,
		body:       body,
		count:      len(recipients),
		sentAt:     now,
		createdAt:  now,
	}
}

func (r *EmailRecord) ID() string           { return r.id }
func (r *EmailRecord) Sequence() int        { return r.sequence }
func (r *EmailRecord) Kind() RecordKind     { return r.kind }
func (r *EmailRecord) Recipients() []string { return r.recipients }
func (r *EmailRecord) Subject() string      { return r.subject }
func (r *EmailRecord) Body() string         { return r.body }
func (r *EmailRecord) Count() int           { return r.count }
func (r *EmailRecord) SentAt() time.Time    { return r.sentAt }
func (r *EmailRecord) CreatedAt() time.Time { return r.createdAt }
func (r *EmailRecord) UpdatedAt() time.Time { return r.createdAt }

func (r *EmailRecord) SetID(id string)          { r.id = id }
func (r *EmailRecord) SetSentAt(t time.Time)    { r.sentAt = t }
func (r *EmailRecord) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *EmailRecord) SetCount(n int)           { r.count = n }

// Validate checks required history fields.
func (r *EmailRecord) Validate() error {
	if r.kind != RecordSingle && r.kind != RecordBulk {
		return fmt.Errorf("unknown record kind: %s", r.kind)
	}
	if len(r.recipients) == 0 {
		return fmt.Errorf("email record requires at least one recipient")
	}
	if r.subject == "" {
		return fmt.Errorf("email record requires a subject")
	}
	return nil
}
