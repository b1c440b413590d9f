package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

// validate checks the struct tags on request payloads before they are
// serialized to the wire.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog lists the reference data the discovery views are built from.
type Catalog interface {
	Universities(ctx context.Context) ([]models.University, error)
	Programs(ctx context.Context) ([]models.Program, error)
	Countries(ctx context.Context) ([]string, error)
	FieldsOfStudy(ctx context.Context) ([]string, error)
	Coordinators(ctx context.Context, programID string) ([]models.Coordinator, error)
}

// Searcher runs server-side program searches.
type Searcher interface {
	Search(ctx context.Context, filters SearchFilters) ([]models.Program, error)
}

// Accounts covers authentication and profile management.
type Accounts interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error)
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*models.User, error)
}

// Mailer delivers outreach mail through the backend send endpoints.
type Mailer interface {
	SendEmail(ctx context.Context, req SendEmailRequest) (*EmailLog, error)
	SendBulkEmail(ctx context.Context, req BulkEmailRequest) (*BulkEmailLog, error)
}

// Assistant generates and refines email drafts.
type Assistant interface {
	GenerateSuggestions(ctx context.Context, req SuggestionRequest) (*Suggestion, error)
	GenerateSubjects(ctx context.Context, req SubjectsRequest) ([]string, error)
	EnhanceContent(ctx context.Context, req EnhanceRequest) (string, error)
}

// FilterAll is the sentinel value a filter takes when it should not
// constrain the search.
const FilterAll = "all"

// SearchFilters carries the optional search constraints. Zero values
// and the "all" sentinel are omitted from the query string.
type SearchFilters struct {
	Query        string
	Country      string
	FieldOfStudy string
	University   string
	DegreeLevel  string
	Language     string
}

// Encode builds the query string for the search endpoint.
func (f SearchFilters) Encode() string {
	values := url.Values{}
	set := func(key, val string) {
		val = strings.TrimSpace(val)
		if val == "" || strings.EqualFold(val, FilterAll) {
			return
		}
		values.Set(key, val)
	}
	set("q", f.Query)
	set("country", f.Country)
	set("field_of_study", f.FieldOfStudy)
	set("university", f.University)
	set("degree_level", f.DegreeLevel)
	set("language", f.Language)
	return values.Encode()
}

// Empty reports whether no filter constrains the search.
func (f SearchFilters) Empty() bool {
	return f.Encode() == ""
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
}

// ChangePasswordRequest is the payload for the password change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
}

// ProfileUpdateRequest carries the mutable profile fields.
type ProfileUpdateRequest struct {
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
}

// SendEmailRequest is the payload for a single coordinator send.
//
// CoordinatorID carries the coordinator's email address. The field name
// is part of the wire contract with the send endpoint, which reads the
// address out of coordinator_id.
type SendEmailRequest struct {
	CoordinatorID string `json:"coordinator_id" validate:"required,email"`
	ProgramID     string `json:"program_id" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Body          string `json:"body" validate:"required"`
	EmailProvider string `json:"email_provider" validate:"required,oneof=gmail outlook"`
	Username      string `json:"username" validate:"required"`
}

// BulkProgram identifies one program in a bulk send and how many
// coordinators it reaches. ID carries the server-side program key
// (Program.ProgramID), not the client list id.
type BulkProgram struct {
	ID                string `json:"id" validate:"required"`
	CoordinatorsCount int    `json:"coordinators_count" validate:"gte=0"`
}

// BulkEmailRequest is the payload for a multi-program send.
type BulkEmailRequest struct {
	Programs      []BulkProgram `json:"programs" validate:"required,min=1,dive"`
	Subject       string        `json:"subject" validate:"required"`
	Body          string        `json:"body" validate:"required"`
	EmailProvider string        `json:"email_provider" validate:"required,oneof=gmail outlook"`
	Username      string        `json:"username" validate:"required"`
}

// SuggestionRequest asks the assistant for a full draft.
type SuggestionRequest struct {
	ProgramID     int    `json:"program_id" validate:"required,gt=0"`
	CoordinatorID int    `json:"coordinator_id" validate:"required,gt=0"`
	EmailType     string `json:"email_type" validate:"required,oneof=inquiry admission scholarship"`
	Language      string `json:"language,omitempty"`
}

// SubjectsRequest asks the assistant for subject line options.
type SubjectsRequest struct {
	ProgramID     int    `json:"program_id" validate:"required,gt=0"`
	CoordinatorID int    `json:"coordinator_id" validate:"required,gt=0"`
	EmailType     string `json:"email_type" validate:"required,oneof=inquiry admission scholarship"`
	Count         int    `json:"count,omitempty" validate:"omitempty,gt=0,lte=10"`
	Language      string `json:"language,omitempty"`
}

// EnhanceRequest asks the assistant to rework an existing draft.
type EnhanceRequest struct {
	ProgramID       int    `json:"program_id" validate:"required,gt=0"`
	CoordinatorID   int    `json:"coordinator_id" validate:"required,gt=0"`
	CurrentContent  string `json:"current_content" validate:"required"`
	EmailType       string `json:"email_type,omitempty" validate:"omitempty,oneof=inquiry admission scholarship"`
	EnhancementType string `json:"enhancement_type,omitempty" validate:"omitempty,oneof=improve shorten formal friendly"`
	Language        string `json:"language,omitempty"`
}

// Suggestion is a generated subject and body pair.
type Suggestion struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// EmailLog is the delivery receipt returned for a single send.
type EmailLog struct {
	ID               string `json:"id"`
	CoordinatorEmail string `json:"coordinator_email"`
	ProgramID        string `json:"program_id"`
	Subject          string `json:"subject"`
	Status           string `json:"status"`
	SentAt           string `json:"sent_at"`
	MessageID        string `json:"message_id"`
}

// BulkEmailLog is the delivery receipt returned for a bulk send.
type BulkEmailLog struct {
	ID                string   `json:"id"`
	Subject           string   `json:"subject"`
	TotalCoordinators int      `json:"total_coordinators"`
	Status            string   `json:"status"`
	SentAt            string   `json:"sent_at"`
	MessageIDs        []string `json:"message_ids"`
}

// checkRequest runs struct validation and maps failures onto the shared
// invalid input sentinel so callers can branch on them.
func checkRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
