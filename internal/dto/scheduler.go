package dto

// GenerateScheduleRequest asks the allocator to rebuild a section's timetable.
type GenerateScheduleRequest struct {
	IncludeSaturday bool `json:"include_saturday"`
}

// CreatedScheduleEntry is one block the allocator placed.
type CreatedScheduleEntry struct {
	ID          string  `json:"id"`
	SectionID   string  `json:"section_id"`
	SectionName string  `json:"section_name"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	TeacherID   *string `json:"teacher_id,omitempty"`
	TeacherName *string `json:"teacher_name,omitempty"`
	RoomID      string  `json:"room_id"`
	RoomName    string  `json:"room_name"`
	DayOfWeek   int     `json:"day_of_week"`
	DayName     string  `json:"day_name"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	BlockHours  int     `json:"block_hours"`
}

// FailedScheduleBlock is a block no slot could host.
type FailedScheduleBlock struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	BlockHours  int    `json:"block_hours"`
}

// GenerateScheduleResponse reports the outcome of one allocator run. Failures are data:
// a run with failed blocks still succeeds.
type GenerateScheduleResponse struct {
	SectionID       string                 `json:"section_id"`
	SectionName     string                 `json:"section_name"`
	IncludeSaturday bool                   `json:"include_saturday"`
	Created         []CreatedScheduleEntry `json:"created"`
	Failed          []FailedScheduleBlock  `json:"failed"`
}

// ScheduleListQuery binds list filters from the query string.
type ScheduleListQuery struct {
	SectionID string `form:"section_id"`
	TeacherID string `form:"teacher_id"`
	RoomID    string `form:"room_id"`
	DayOfWeek *int   `form:"day_of_week" validate:"omitempty,min=0,max=6"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}
