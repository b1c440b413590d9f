package models

// University represents a catalog entry from the universities endpoint.
// Read-only display data; the server is authoritative.
type University struct {
	ID              int    `json:"id"`
	UniversityID    string `json:"university_id"`
	Name            string `json:"name"`
	City            string `json:"city"`
	Country         string `json:"country"`
	Description     string `json:"description,omitempty"`
	EstablishedYear int    `json:"established_year,omitempty"`
	StudentCount    int    `json:"student_count,omitempty"`
	Website         string `json:"website,omitempty"`
}

// Program represents a degree offering at a university.
//
// ID is the client-facing identifier; ProgramID is the server-side grouping
// key used to query coordinators. The two are distinct and must not be
// conflated.
type Program struct {
	ID                  int        `json:"id"`
	ProgramID           string     `json:"program_id"`
	Name                string     `json:"name"`
	University          University `json:"university"`
	FieldOfStudy        string     `json:"field_of_study"`
	DegreeLevel         string     `json:"degree_level"`
	Language            string     `json:"language,omitempty"`
	DurationMonths      int        `json:"duration_months,omitempty"`
	Description         string     `json:"description,omitempty"`
	ApplicationDeadline string     `json:"application_deadline,omitempty"`
	StartDate           string     `json:"start_date,omitempty"`
	TuitionFeeEuro      float64    `json:"tuition_fee_euro,omitempty"`
	CoordinatorsCount   int        `json:"coordinators_count,omitempty"`
}

// Coordinator represents a program contact fetched via ProgramID.
// Email may be absent.
type Coordinator struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
