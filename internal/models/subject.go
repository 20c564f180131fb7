package models

import (
	"strings"
	"time"
)

// SubjectCategory classifies subjects within a band's curriculum.
type SubjectCategory string

const (
	SubjectCategoryCore          SubjectCategory = "Core"
	SubjectCategoryApplied       SubjectCategory = "Applied"
	SubjectCategorySpecialized   SubjectCategory = "Specialized"
	SubjectCategoryInstitutional SubjectCategory = "Institutional"
)

// Valid reports whether the category is supported.
func (c SubjectCategory) Valid() bool {
	switch c {
	case SubjectCategoryCore, SubjectCategoryApplied, SubjectCategorySpecialized, SubjectCategoryInstitutional:
		return true
	default:
		return false
	}
}

// Subject represents an academic subject in the catalog.
type Subject struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Category    SubjectCategory `db:"category" json:"category"`
	LevelBand   LevelBand       `db:"level_band" json:"level_band"`
	Track       *string         `db:"track" json:"track,omitempty"`
	GradeMin    *int            `db:"grade_min" json:"grade_min,omitempty"`
	GradeMax    *int            `db:"grade_max" json:"grade_max,omitempty"`
	WeightWW    float64         `db:"weight_ww" json:"weight_ww"`
	WeightPT    float64         `db:"weight_pt" json:"weight_pt"`
	WeightQA    float64         `db:"weight_qa" json:"weight_qa"`
	WeeklyHours *int            `db:"weekly_hours" json:"weekly_hours,omitempty"`
	TeacherID   *string         `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// EligibleFor reports whether the subject applies to a learner of the given grade in a
// section with the given track. Track only narrows the match when both sides declare one.
func (s Subject) EligibleFor(grade int, band LevelBand, sectionTrack string) bool {
	if s.LevelBand != band {
		return false
	}
	if s.GradeMin != nil && grade < *s.GradeMin {
		return false
	}
	if s.GradeMax != nil && grade > *s.GradeMax {
		return false
	}
	subjectTrack := ""
	if s.Track != nil {
		subjectTrack = strings.TrimSpace(*s.Track)
	}
	sectionTrack = strings.TrimSpace(sectionTrack)
	if subjectTrack != "" && sectionTrack != "" && !strings.EqualFold(subjectTrack, sectionTrack) {
		return false
	}
	return true
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	LevelBand *LevelBand
	Track     string
	Category  *SubjectCategory
	Grade     *int
	Search    string
	Page      int
	PageSize  int
}
