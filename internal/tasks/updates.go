package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchUniversities Phase = iota
	FetchPrograms
	FetchCountries
	FetchFields
	FetchCoordinators
	PrepareSend
	DeliverEmail
	RecordHistory
)

func (p Phase) String() string {
	switch p {
	case FetchUniversities:
		return "fetch_universities"
	case FetchPrograms:
		return "fetch_programs"
	case FetchCountries:
		return "fetch_countries"
	case FetchFields:
		return "fetch_fields"
	case FetchCoordinators:
		return "fetch_coordinators"
	case PrepareSend:
		return "prepare_send"
	case DeliverEmail:
		return "deliver_email"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}

func fetchEndpointUpdate(phase Phase, name string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading %s...", name),
	}
}

func fetchCoordinatorsUpdate(step, total int, programID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCoordinators,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching coordinators for program %s...", programID),
	}
}

func prepareSendUpdate(recipients int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareSend,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Preparing to send to %d recipient(s)...", recipients),
		Data:    recipients,
	}
}

func deliverEmailUpdate(provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeliverEmail,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Sending via %s...", provider),
	}
}

func recordHistoryUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    1,
		Total:   1,
		Message: "Recording send in history...",
	}
}
