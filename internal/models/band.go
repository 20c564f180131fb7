package models

import (
	"strconv"
	"strings"
	"unicode"
)

// LevelBand groups grade levels into junior (7-10) and senior (11-12) high school.
type LevelBand string

const (
	LevelBandJHS LevelBand = "JHS"
	LevelBandSHS LevelBand = "SHS"
)

// Valid reports whether the band is one of the known values.
func (b LevelBand) Valid() bool {
	return b == LevelBandJHS || b == LevelBandSHS
}

// ParseLevelBand normalises user input into a LevelBand.
func ParseLevelBand(raw string) (LevelBand, bool) {
	band := LevelBand(strings.ToUpper(strings.TrimSpace(raw)))
	return band, band.Valid()
}

// GradeRange returns the inclusive grade numbers covered by the band.
func (b LevelBand) GradeRange() (int, int) {
	switch b {
	case LevelBandJHS:
		return 7, 10
	case LevelBandSHS:
		return 11, 12
	default:
		return 0, 0
	}
}

// ParseGradeLevel extracts the first number embedded in a free-text grade level
// ("Grade 9", "9", "G11-STEM").
func ParseGradeLevel(raw string) (int, bool) {
	start := strings.IndexFunc(raw, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	grade, err := strconv.Atoi(raw[start:end])
	if err != nil {
		return 0, false
	}
	return grade, true
}

// BandForGrade maps a numeric grade to its band.
func BandForGrade(grade int) (LevelBand, bool) {
	switch {
	case grade >= 7 && grade <= 10:
		return LevelBandJHS, true
	case grade >= 11 && grade <= 12:
		return LevelBandSHS, true
	default:
		return "", false
	}
}

// BandForGradeLevel combines ParseGradeLevel and BandForGrade.
func BandForGradeLevel(raw string) (int, LevelBand, bool) {
	grade, ok := ParseGradeLevel(raw)
	if !ok {
		return 0, "", false
	}
	band, ok := BandForGrade(grade)
	if !ok {
		return grade, "", false
	}
	return grade, band, true
}
