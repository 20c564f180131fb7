package dto

// AutoEnrollRequest optionally overrides the section used for track matching.
type AutoEnrollRequest struct {
	SectionID *string `json:"section_id"`
}

// EnrolledSubject is one subject considered by auto-enrollment.
type EnrolledSubject struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	TeacherID   *string `json:"teacher_id,omitempty"`
}

// AutoEnrollResponse lists the links created and the eligible subjects already linked.
type AutoEnrollResponse struct {
	StudentID string            `json:"student_id"`
	SectionID *string           `json:"section_id,omitempty"`
	Grade     int               `json:"grade"`
	Enrolled  []EnrolledSubject `json:"enrolled"`
	Skipped   []EnrolledSubject `json:"skipped"`
}
