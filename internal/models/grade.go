package models

import "time"

// Grade is a single recorded assessment score.
type Grade struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	Subject    string    `db:"subject" json:"subject"`
	Assessment string    `db:"assessment" json:"assessment"`
	GradeValue float64   `db:"grade_value" json:"grade_value"`
	RecordedOn time.Time `db:"recorded_on" json:"recorded_on"`
	RecordedBy *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GradeDetail includes the student's display name.
type GradeDetail struct {
	Grade
	StudentName string `db:"student_name" json:"student_name"`
}

// GradeFilter narrows grade listings.
type GradeFilter struct {
	StudentID string
	Subject   string
	Band      *LevelBand
	ChildID   string
	Page      int
	PageSize  int
}
