package models

// DashboardStats summarises school-wide activity.
type DashboardStats struct {
	TotalStudents        int               `json:"total_students"`
	TotalGrades          int               `json:"total_grades"`
	TotalAttendance      int               `json:"total_attendance"`
	TotalBehaviorReports int               `json:"total_behavior_reports"`
	TotalCommunications  int               `json:"total_communications"`
	Attendance           []AttendanceCount `json:"attendance"`
	SubjectAverages      []SubjectAverage  `json:"subject_averages"`
}

// AttendanceCount is the number of marks per status.
type AttendanceCount struct {
	Status AttendanceStatus `db:"status" json:"status"`
	Count  int              `db:"count" json:"count"`
}

// SubjectAverage is the mean grade recorded for a subject.
type SubjectAverage struct {
	Subject string  `db:"subject" json:"subject"`
	Average float64 `db:"average" json:"average"`
}

// AdviserInsights highlights learners who may need support.
type AdviserInsights struct {
	LowestAverages    []StudentAverage     `json:"lowest_averages"`
	LowestAttendances []StudentPresentRate `json:"lowest_attendance"`
}

// StudentAverage is a student's mean grade.
type StudentAverage struct {
	StudentID   string  `db:"student_id" json:"student_id"`
	StudentName string  `db:"student_name" json:"student_name"`
	Average     float64 `db:"average" json:"average"`
}

// StudentPresentRate is the share of attendance marks recorded as present.
type StudentPresentRate struct {
	StudentID   string  `db:"student_id" json:"student_id"`
	StudentName string  `db:"student_name" json:"student_name"`
	PresentRate float64 `db:"present_rate" json:"present_rate"`
	Marks       int     `db:"marks" json:"marks"`
}
