package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestSplitLoadTable(t *testing.T) {
	cases := map[int][]int{
		0: {1},
		1: {1},
		2: {2},
		3: {2, 1},
		4: {2, 2},
		5: {3, 2},
		6: {3, 3},
	}
	for load, expected := range cases {
		assert.Equal(t, expected, SplitLoad(load), "load %d", load)
	}
}

func TestSplitLoadSumsAndCaps(t *testing.T) {
	for load := 1; load <= 6; load++ {
		sum := 0
		for _, block := range SplitLoad(load) {
			assert.LessOrEqual(t, block, 3)
			assert.Positive(t, block)
			sum += block
		}
		assert.Equal(t, load, sum, "load %d", load)
	}
}

func TestLoadTableLookup(t *testing.T) {
	table := NewLoadTable(nil)

	assert.Equal(t, 3, table.Hours("Araling Panlipunan 7", models.LevelBandJHS, models.SubjectCategoryCore))
	assert.Equal(t, 4, table.Hours("Mathematics 10", models.LevelBandJHS, models.SubjectCategoryCore))
	assert.Equal(t, 4, table.Hours("Practical Research 2", models.LevelBandSHS, models.SubjectCategoryApplied))
	assert.Equal(t, 2, table.Hours("  physical   education and HEALTH ", models.LevelBandSHS, models.SubjectCategoryCore))
}

func TestLoadTableFallback(t *testing.T) {
	table := NewLoadTable(nil)

	assert.Equal(t, FallbackJuniorHours, table.Hours("Robotics 8", models.LevelBandJHS, models.SubjectCategorySpecialized))
	assert.Equal(t, FallbackSeniorCoreHours, table.Hours("Philosophy", models.LevelBandSHS, models.SubjectCategoryCore))
	assert.Equal(t, FallbackSeniorHours, table.Hours("Animation", models.LevelBandSHS, models.SubjectCategorySpecialized))

	var nilTable *LoadTable
	assert.Equal(t, FallbackJuniorHours, nilTable.Hours("Filipino 7", models.LevelBandJHS, models.SubjectCategoryCore))
}

func TestLoadTableOverrides(t *testing.T) {
	overrides, err := ParseWeeklyHours("Philosophy=2; Understanding Culture, Society, and Politics = 4")
	require.NoError(t, err)

	table := NewLoadTable(overrides)
	assert.Equal(t, 2, table.Hours("Philosophy", models.LevelBandSHS, models.SubjectCategoryCore))
	assert.Equal(t, 4, table.Hours("Understanding Culture, Society, and Politics", models.LevelBandSHS, models.SubjectCategoryCore))
	assert.Equal(t, 3, DefaultWeeklyHours["understanding culture, society, and politics"])
}

func TestParseWeeklyHoursRejectsMalformed(t *testing.T) {
	_, err := ParseWeeklyHours("Philosophy")
	assert.Error(t, err)

	_, err = ParseWeeklyHours("Philosophy=zero")
	assert.Error(t, err)

	empty, err := ParseWeeklyHours("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
