package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/uniworld/cli/internal/shared"
)

// AssistantService talks to the draft generation endpoints. Generated
// text is sanitized before it reaches a compose buffer.
type AssistantService struct {
	api    *APIClient
	logger *log.Logger
}

var _ Assistant = (*AssistantService)(nil)

// NewAssistantService builds the assistant client.
func NewAssistantService(api *APIClient, logger *log.Logger) *AssistantService {
	return &AssistantService{api: api, logger: logger}
}

type suggestionResponse struct {
	Success        bool        `json:"success"`
	Error          string      `json:"error"`
	Suggestions    *Suggestion `json:"suggestions"`
	SubjectOptions []string    `json:"subject_options"`
	EnhancedBody   string      `json:"enhanced_content"`
}

func (s *AssistantService) post(ctx context.Context, path string, req any) (*suggestionResponse, error) {
	resp, err := s.api.Post(ctx, path, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result suggestionResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Error)
	}
	return &result, nil
}

// GenerateSuggestions produces a full subject and body draft.
func (s *AssistantService) GenerateSuggestions(ctx context.Context, req SuggestionRequest) (*Suggestion, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	result, err := s.post(ctx, "/ai/generate-suggestions/", req)
	if err != nil {
		return nil, err
	}
	if result.Suggestions == nil {
		return nil, fmt.Errorf("%w: response missing suggestions", shared.ErrAPIRequest)
	}

	s.logger.Debug("draft generated", "program", req.ProgramID, "type", req.EmailType)

	return &Suggestion{
		Subject: shared.SanitizeText(result.Suggestions.Subject),
		Content: shared.SanitizeText(result.Suggestions.Content),
	}, nil
}

// GenerateSubjects produces subject line options.
func (s *AssistantService) GenerateSubjects(ctx context.Context, req SubjectsRequest) ([]string, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	result, err := s.post(ctx, "/ai/generate-subjects/", req)
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(result.SubjectOptions))
	for _, option := range result.SubjectOptions {
		if cleaned := shared.SanitizeText(option); cleaned != "" {
			subjects = append(subjects, cleaned)
		}
	}
	return subjects, nil
}

// EnhanceContent reworks an existing draft body.
func (s *AssistantService) EnhanceContent(ctx context.Context, req EnhanceRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	result, err := s.post(ctx, "/ai/enhance-content/", req)
	if err != nil {
		return "", err
	}
	if result.EnhancedBody == "" {
		return "", fmt.Errorf("%w: response missing enhanced content", shared.ErrAPIRequest)
	}

	return shared.SanitizeText(result.EnhancedBody), nil
}
