package models

import "time"

// BehaviorSeverity grades how serious an incident was.
type BehaviorSeverity string

const (
	BehaviorSeverityLow    BehaviorSeverity = "Low"
	BehaviorSeverityMedium BehaviorSeverity = "Medium"
	BehaviorSeverityHigh   BehaviorSeverity = "High"
)

// BehaviorReport records a disciplinary incident.
type BehaviorReport struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	IncidentDate time.Time        `db:"incident_date" json:"incident_date"`
	Severity     BehaviorSeverity `db:"severity" json:"severity"`
	Description  string           `db:"description" json:"description"`
	ActionTaken  *string          `db:"action_taken" json:"action_taken,omitempty"`
	ReportedBy   *string          `db:"reported_by" json:"reported_by,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// BehaviorReportDetail includes the student's display name.
type BehaviorReportDetail struct {
	BehaviorReport
	StudentName string `db:"student_name" json:"student_name"`
}

// BehaviorFilter narrows behavior listings.
type BehaviorFilter struct {
	StudentID string
	Severity  *BehaviorSeverity
	Band      *LevelBand
	ChildID   string
	Page      int
	PageSize  int
}
