package models

import "time"

// StudentSubject links a student to a subject they take.
type StudentSubject struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	SectionID *string   `db:"section_id" json:"section_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentSubjectDetail adds subject and teacher names to the link.
type StudentSubjectDetail struct {
	StudentSubject
	SubjectName string          `db:"subject_name" json:"subject_name"`
	Category    SubjectCategory `db:"category" json:"category"`
	TeacherName *string         `db:"teacher_name" json:"teacher_name,omitempty"`
}
