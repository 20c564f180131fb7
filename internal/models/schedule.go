package models

import "time"

// ScheduleEntry is one placed block of a section's weekly timetable.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	SectionID string    `db:"section_id" json:"section_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID    string    `db:"room_id" json:"room_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail enriches an entry with display names.
type ScheduleEntryDetail struct {
	ScheduleEntry
	SectionName string  `db:"section_name" json:"section_name"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
	RoomName    string  `db:"room_name" json:"room_name"`
	DayName     string  `db:"-" json:"day_name"`
}

// ScheduleFilter describes query params for listing schedule entries.
type ScheduleFilter struct {
	SectionID string
	TeacherID string
	RoomID    string
	DayOfWeek *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
