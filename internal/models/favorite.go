package models

import (
	"fmt"
	"time"
)

// Favorite is a snapshot of a [Program] taken at favorite-time.
//
// The snapshot does not update if the underlying program changes; it is keyed
// by the program's client-facing ID and duplicate adds are rejected by lookup.
type Favorite struct {
	id           string
	sequence     int
	programID    int
	name         string
	university   string
	fieldOfStudy string
	degreeLevel  string
	addedAt      time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewFavorite creates a favorite snapshot from program display fields.
func NewFavorite(sequence, programID int, name, university, fieldOfStudy, degreeLevel string) *Favorite {
	now := time.Now()
	return &Favorite{
		sequence:     sequence,
		programID:    programID,
		name:         name,
		university:   university,
		fieldOfStudy: fieldOfStudy,
		degreeLevel:  degreeLevel,
		addedAt:      now,
		createdAt:    now,
		updatedAt:    now,
	}
}

// SnapshotProgram creates a favorite from a full [Program] record.
func SnapshotProgram(sequence int, p Program) *Favorite {
	return NewFavorite(sequence, p.ID, p.Name, p.University.Name, p.FieldOfStudy, p.DegreeLevel)
}

func (f *Favorite) ID() string           { return f.id }
func (f *Favorite) Sequence() int        { return f.sequence }
func (f *Favorite) ProgramID() int       { return f.programID }
func (f *Favorite) Name() string         { return f.name }
func (f *Favorite) University() string   { return f.university }
func (f *Favorite) FieldOfStudy() string { return f.fieldOfStudy }
func (f *Favorite) DegreeLevel() string  { return f.degreeLevel }
func (f *Favorite) AddedAt() time.Time   { return f.addedAt }
func (f *Favorite) CreatedAt() time.Time { return f.createdAt }
func (f *Favorite) UpdatedAt() time.Time { return f.updatedAt }

func (f *Favorite) SetID(id string)          { f.id = id }
func (f *Favorite) SetAddedAt(t time.Time)   { f.addedAt = t }
func (f *Favorite) SetCreatedAt(t time.Time) { f.createdAt = t }
func (f *Favorite) SetUpdatedAt(t time.Time) { f.updatedAt = t }

// Validate checks required snapshot fields.
func (f *Favorite) Validate() error {
	if f.programID <= 0 {
		return fmt.Errorf("favorite requires a positive program ID")
	}
	if f.name == "" {
		return fmt.Errorf("favorite requires a program name")
	}
	if f.university == "" {
		return fmt.Errorf("favorite requires a university name")
	}
	return nil
}
