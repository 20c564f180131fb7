package models

import "time"

// Section is a cohort of students sharing a timetable.
type Section struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	GradeLevel string    `db:"grade_level" json:"grade_level"`
	Track      *string   `db:"track" json:"track,omitempty"`
	AdviserID  *string   `db:"adviser_id" json:"adviser_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// TrackValue returns the section track or an empty string.
func (s Section) TrackValue() string {
	if s.Track == nil {
		return ""
	}
	return *s.Track
}

// SectionFilter describes query params for listing sections.
type SectionFilter struct {
	GradeLevel string
	Track      string
	Search     string
	Page       int
	PageSize   int
}
