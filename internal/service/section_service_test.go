package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type sectionRepoStub struct {
	sections map[string]*models.Section
}

func (r *sectionRepoStub) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error) {
	var out []models.Section
	for _, section := range r.sections {
		out = append(out, *section)
	}
	return out, len(out), nil
}

func (r *sectionRepoStub) FindByID(ctx context.Context, id string) (*models.Section, error) {
	section, ok := r.sections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *section
	return &clone, nil
}

func (r *sectionRepoStub) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	for id, section := range r.sections {
		if section.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *sectionRepoStub) Create(ctx context.Context, section *models.Section) error {
	section.ID = "sec-new"
	clone := *section
	r.sections[section.ID] = &clone
	return nil
}

func (r *sectionRepoStub) Update(ctx context.Context, section *models.Section) error {
	clone := *section
	r.sections[section.ID] = &clone
	return nil
}

func (r *sectionRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.sections[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.sections, id)
	return nil
}

type scheduleCleanerStub struct {
	cleared []string
}

func (s *scheduleCleanerStub) DeleteBySection(ctx context.Context, sectionID string) (int64, error) {
	s.cleared = append(s.cleared, sectionID)
	return 9, nil
}

func newSectionService() (*SectionService, *sectionRepoStub, *scheduleCleanerStub) {
	repo := &sectionRepoStub{sections: map[string]*models.Section{
		"sec-7a": {ID: "sec-7a", Name: "7-A", GradeLevel: "Grade 7"},
	}}
	cleaner := &scheduleCleanerStub{}
	return NewSectionService(repo, cleaner, subjectTeachers(), nil, nil), repo, cleaner
}

func TestSectionServiceCreate(t *testing.T) {
	service, _, _ := newSectionService()

	section, err := service.Create(context.Background(), SectionRequest{Name: "11-STEM", GradeLevel: "Grade 11", Track: strPtr("STEM"), AdviserID: strPtr("t-1")})
	require.NoError(t, err)
	assert.Equal(t, "STEM", section.TrackValue())

	_, err = service.Create(context.Background(), SectionRequest{Name: "7-A", GradeLevel: "Grade 7"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), SectionRequest{Name: "7-B", GradeLevel: "Grade 7", AdviserID: strPtr("ghost")})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), SectionRequest{Name: "7-B"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceDeleteClearsSchedule(t *testing.T) {
	service, repo, cleaner := newSectionService()

	require.NoError(t, service.Delete(context.Background(), "sec-7a"))
	assert.Equal(t, []string{"sec-7a"}, cleaner.cleared)
	assert.Empty(t, repo.sections)

	err := service.Delete(context.Background(), "sec-7a")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Len(t, cleaner.cleared, 1)
}

func TestSectionServiceUpdate(t *testing.T) {
	service, _, _ := newSectionService()

	section, err := service.Update(context.Background(), "sec-7a", SectionRequest{Name: "7-A", GradeLevel: "Grade 7", Track: strPtr(" ")})
	require.NoError(t, err)
	assert.Nil(t, section.Track)

	sections, pagination, err := service.List(context.Background(), models.SectionFilter{})
	require.NoError(t, err)
	assert.Len(t, sections, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}
