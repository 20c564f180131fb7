package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGradeLevel(t *testing.T) {
	cases := map[string]int{
		"Grade 9":   9,
		"9":         9,
		"G11-STEM":  11,
		" grade 12": 12,
	}
	for raw, expected := range cases {
		grade, ok := ParseGradeLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, grade, raw)
	}

	_, ok := ParseGradeLevel("Kinder")
	assert.False(t, ok)
}

func TestBandForGradeLevel(t *testing.T) {
	grade, band, ok := BandForGradeLevel("Grade 10")
	assert.True(t, ok)
	assert.Equal(t, 10, grade)
	assert.Equal(t, LevelBandJHS, band)

	_, band, ok = BandForGradeLevel("Grade 11")
	assert.True(t, ok)
	assert.Equal(t, LevelBandSHS, band)

	_, _, ok = BandForGradeLevel("Grade 6")
	assert.False(t, ok)
}

func TestSubjectEligibleFor(t *testing.T) {
	seven, ten := 7, 10
	stem := "STEM"
	abm := "ABM"

	junior := Subject{LevelBand: LevelBandJHS, GradeMin: &seven, GradeMax: &ten}
	assert.True(t, junior.EligibleFor(9, LevelBandJHS, ""))
	assert.False(t, junior.EligibleFor(11, LevelBandSHS, ""))

	tracked := Subject{LevelBand: LevelBandJHS, Track: &stem}
	assert.True(t, tracked.EligibleFor(9, LevelBandJHS, ""), "track ignored when section has none")
	assert.True(t, tracked.EligibleFor(9, LevelBandJHS, "stem"))
	assert.False(t, tracked.EligibleFor(9, LevelBandJHS, abm))

	open := Subject{LevelBand: LevelBandJHS}
	assert.True(t, open.EligibleFor(8, LevelBandJHS, abm), "track ignored when subject has none")
}
