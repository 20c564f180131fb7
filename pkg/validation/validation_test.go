package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sectionPayload struct {
	Name       string `json:"name" validate:"required"`
	GradeLevel string `json:"grade_level" validate:"required,grade_level"`
}

func TestMessagesUseJSONNames(t *testing.T) {
	err := New().Struct(sectionPayload{GradeLevel: "Grade 5"})
	require.Error(t, err)

	messages := Messages(err)
	assert.Equal(t, "name is required", messages["name"])
	assert.Equal(t, "grade_level must name a grade between 7 and 12", messages["grade_level"])
}

func TestGradeLevelAcceptsFreeText(t *testing.T) {
	assert.NoError(t, New().Struct(sectionPayload{Name: "Rizal", GradeLevel: "G11-STEM"}))
	assert.Nil(t, Messages(nil))
}
