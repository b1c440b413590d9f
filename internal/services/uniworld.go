package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

// UniWorldService is the typed client for the catalog, account and
// delivery endpoints.
type UniWorldService struct {
	api    *APIClient
	logger *log.Logger
}

var (
	_ Catalog  = (*UniWorldService)(nil)
	_ Searcher = (*UniWorldService)(nil)
	_ Accounts = (*UniWorldService)(nil)
	_ Mailer   = (*UniWorldService)(nil)
)

// NewUniWorldService builds the service on top of an APIClient.
func NewUniWorldService(api *APIClient, logger *log.Logger) *UniWorldService {
	return &UniWorldService{api: api, logger: logger}
}

// listEnvelope matches the two wrapper shapes list endpoints use. Older
// endpoints return a bare array, newer ones wrap it in results or
// programs.
type listEnvelope struct {
	Results  json.RawMessage `json:"results"`
	Programs json.RawMessage `json:"programs"`
	Count    int             `json:"count"`
}

// decodeList normalizes the three list shapes into a slice of T.
func decodeList[T any](body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}

	raw := envelope.Results
	if raw == nil {
		raw = envelope.Programs
	}
	if raw == nil {
		return []T{}, nil
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding list items: %w", err)
	}
	return items, nil
}

func getList[T any](ctx context.Context, c *APIClient, path string) ([]T, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	return decodeList[T](resp.Body)
}

// Universities fetches the full university catalog.
func (s *UniWorldService) Universities(ctx context.Context) ([]models.University, error) {
	return getList[models.University](ctx, s.api, "/universities/")
}

// Programs fetches the full program catalog.
func (s *UniWorldService) Programs(ctx context.Context) ([]models.Program, error) {
	return getList[models.Program](ctx, s.api, "/programs/")
}

// Countries fetches the country filter options.
func (s *UniWorldService) Countries(ctx context.Context) ([]string, error) {
	return getList[string](ctx, s.api, "/countries/")
}

// FieldsOfStudy fetches the field of study filter options.
func (s *UniWorldService) FieldsOfStudy(ctx context.Context) ([]string, error) {
	return getList[string](ctx, s.api, "/fields-of-study/")
}

// Coordinators fetches the active coordinators for a program. The key
// is the server-side program_id, not the client list id.
func (s *UniWorldService) Coordinators(ctx context.Context, programID string) ([]models.Coordinator, error) {
	if strings.TrimSpace(programID) == "" {
		return nil, fmt.Errorf("%w: program id is required", shared.ErrInvalidArgument)
	}

	path := "/coordinators/?program_id=" + url.QueryEscape(programID)
	coordinators, err := getList[models.Coordinator](ctx, s.api, path)
	if err != nil {
		return nil, err
	}

	if len(coordinators) == 0 {
		return nil, fmt.Errorf("%w: program %s", shared.ErrCoordinatorNotFound, programID)
	}
	return coordinators, nil
}

// Search runs a server-side search. Filters with the "all" sentinel or
// an empty value are not sent.
func (s *UniWorldService) Search(ctx context.Context, filters SearchFilters) ([]models.Program, error) {
	path := "/search/"
	if query := filters.Encode(); query != "" {
		path += "?" + query
	}

	s.logger.Debug("searching programs", "path", path)

	return getList[models.Program](ctx, s.api, path)
}

type authResponse struct {
	Message string       `json:"message"`
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Error   string       `json:"error"`
}

// Login authenticates with a username or email. The response carries no
// token; session-based backends identify the client by cookie, so local
// session state is the caller's responsibility.
func (s *UniWorldService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	payload := map[string]string{
		"username": usernameOrEmail,
		"password": password,
	}

	resp, err := s.api.Post(ctx, "/auth/login/", payload)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: invalid credentials", shared.ErrNotAuthenticated)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result authResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.User == nil {
		return nil, fmt.Errorf("%w: login response missing user", shared.ErrAPIRequest)
	}

	s.logger.Info("logged in", "username", result.User.Username)

	return result.User, nil
}

// Register creates an account and returns the new user.
func (s *UniWorldService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/auth/register/", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var result authResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.User == nil {
		return nil, fmt.Errorf("%w: register response missing user", shared.ErrAPIRequest)
	}

	return result.User, nil
}

// ChangePassword rotates the account password.
func (s *UniWorldService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := checkRequest(req); err != nil {
		return err
	}

	resp, err := s.api.Post(ctx, "/auth/change-password/", req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (s *UniWorldService) Profile(ctx context.Context) (*models.User, error) {
	resp, err := s.api.Get(ctx, "/auth/profile/")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result authResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.User != nil {
		return result.User, nil
	}

	// Some deployments return the user object bare.
	var user models.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes the mutable profile fields.
func (s *UniWorldService) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*models.User, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Put(ctx, "/auth/profile/", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result authResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.User == nil {
		return nil, fmt.Errorf("%w: profile response missing user", shared.ErrAPIRequest)
	}
	return result.User, nil
}

type sendResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Error        string        `json:"error"`
	EmailLog     *EmailLog     `json:"email_log"`
	BulkEmailLog *BulkEmailLog `json:"bulk_email_log"`
}

// SendEmail delivers one email to a coordinator.
func (s *UniWorldService) SendEmail(ctx context.Context, req SendEmailRequest) (*EmailLog, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/send-email/", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result sendResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Error)
	}

	s.logger.Info("email sent", "recipient", req.CoordinatorID, "provider", req.EmailProvider)

	return result.EmailLog, nil
}

// SendBulkEmail delivers mail to every coordinator of the listed
// programs in one call.
func (s *UniWorldService) SendBulkEmail(ctx context.Context, req BulkEmailRequest) (*BulkEmailLog, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/send-bulk-email/", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result sendResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Error)
	}

	s.logger.Info("bulk email sent",
		"programs", len(req.Programs),
		"provider", req.EmailProvider)

	return result.BulkEmailLog, nil
}
