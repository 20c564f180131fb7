package models

import (
	"strings"
	"time"
)

// Student represents a learner registered in the school.
type Student struct {
	ID              string     `db:"id" json:"id"`
	StudentNumber   string     `db:"student_number" json:"student_number"`
	FirstName       string     `db:"first_name" json:"first_name"`
	MiddleName      *string    `db:"middle_name" json:"middle_name,omitempty"`
	LastName        string     `db:"last_name" json:"last_name"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	GradeLevel      *string    `db:"grade_level" json:"grade_level,omitempty"`
	HomeroomTeacher *string    `db:"homeroom_teacher" json:"homeroom_teacher,omitempty"`
	SectionID       *string    `db:"section_id" json:"section_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first, middle initial and last name.
func (s Student) FullName() string {
	parts := []string{s.FirstName}
	if s.MiddleName != nil && *s.MiddleName != "" {
		parts = append(parts, *s.MiddleName+".")
	}
	parts = append(parts, s.LastName)
	return strings.Join(parts, " ")
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	GradeLevel string
	SectionID  string
	Band       *LevelBand
	StudentID  string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// StudentDetail contains student information with section context.
type StudentDetail struct {
	Student
	SectionName *string `db:"section_name" json:"section_name,omitempty"`
}
