package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/timetable"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/storage"
)

const scheduleExportJobType = "schedule_export"

var scheduleExportHeaders = []string{"Day", "Start", "End", "Section", "Subject", "Teacher", "Room"}

type scheduleExportSource interface {
	ListBySections(ctx context.Context, sectionIDs []string) ([]models.ScheduleEntryDetail, error)
}

type exportJobStore interface {
	Create(ctx context.Context, job *models.ScheduleExportJob) error
	GetByID(ctx context.Context, id string) (*models.ScheduleExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ScheduleExportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ScheduleExportJob, error)
	Delete(ctx context.Context, id string) error
}

type exportFileStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ScheduleExportConfig tunes export storage and retries.
type ScheduleExportConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ExportFile is a rendered timetable ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScheduleExportService renders timetables to PDF, XLSX or CSV, either inline or
// through the background export queue.
type ScheduleExportService struct {
	entries   scheduleExportSource
	sections  scheduleSectionReader
	jobs      exportJobStore
	files     exportFileStore
	signer    *storage.SignedURLSigner
	queue     jobDispatcher
	renderers map[models.ExportFormat]export.Renderer
	metrics   *MetricsService
	cfg       ScheduleExportConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleExportService constructs the export service. Attach a queue before creating jobs.
func NewScheduleExportService(
	entries scheduleExportSource,
	sections scheduleSectionReader,
	jobStore exportJobStore,
	files exportFileStore,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	cfg ScheduleExportConfig,
	logger *zap.Logger,
) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &ScheduleExportService{
		entries:  entries,
		sections: sections,
		jobs:     jobStore,
		files:    files,
		signer:   signer,
		renderers: map[models.ExportFormat]export.Renderer{
			models.ExportFormatPDF:  export.NewPDFExporter(),
			models.ExportFormatXLSX: export.NewXLSXExporter(),
			models.ExportFormatCSV:  export.NewCSVExporter(),
		},
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// AttachQueue sets the dispatcher used for asynchronous jobs.
func (s *ScheduleExportService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// RenderSection renders a single section timetable synchronously.
func (s *ScheduleExportService) RenderSection(ctx context.Context, sectionID string, rawFormat string) (*ExportFile, error) {
	format, err := parseExportFormat(rawFormat)
	if err != nil {
		return nil, err
	}
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	started := s.now()
	data, err := s.render(ctx, format, []string{section.ID}, section.Name+" Timetable")
	if err != nil {
		s.metrics.ObserveExport(string(format), string(models.ExportStatusFailed), 0)
		return nil, err
	}
	s.metrics.ObserveExport(string(format), string(models.ExportStatusFinished), s.now().Sub(started))
	return &ExportFile{
		Filename:    fmt.Sprintf("timetable-%s.%s", slug(section.Name), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// CreateJob persists and enqueues a bulk export.
func (s *ScheduleExportService) CreateJob(ctx context.Context, req dto.ScheduleExportRequest, actor *models.JWTClaims) (*dto.ScheduleExportJobResponse, error) {
	format, err := parseExportFormat(string(req.Format))
	if err != nil {
		return nil, err
	}
	sectionIDs := uniqueTrimmed(req.SectionIDs)
	if len(sectionIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one section id is required")
	}
	for _, id := range sectionIDs {
		if _, err := s.sections.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("section %s not found", id))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
		}
	}
	if s.queue == nil {
		return nil, appErrors.Wrap(errors.New("export queue not attached"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export queue unavailable")
	}

	createdBy := ""
	if actor != nil {
		createdBy = actor.UserID
	}
	job := &models.ScheduleExportJob{
		Params:    models.ScheduleExportParams{Format: format, SectionIDs: sectionIDs},
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: scheduleExportJobType}); err != nil {
		s.finish(ctx, job.ID, models.ExportStatusFailed, nil, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.logger.Info("schedule export queued", zap.String("job_id", job.ID), zap.String("format", string(format)), zap.Int("sections", len(sectionIDs)))
	return toExportJobResponse(job), nil
}

// GetJob returns the status of an export job.
func (s *ScheduleExportService) GetJob(ctx context.Context, id string) (*dto.ScheduleExportJobResponse, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return toExportJobResponse(job), nil
}

// ResolveDownload checks a signed token and loads the stored export.
func (s *ScheduleExportService) ResolveDownload(ctx context.Context, token string) (*ExportFile, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished || job.ResultPath == nil || *job.ResultPath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not available")
	}
	data, err := s.files.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file")
	}
	name := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		name = relPath[idx+1:]
	}
	return &ExportFile{Filename: name, ContentType: job.Params.Format.ContentType(), Data: data}, nil
}

// HandleJob is the queue handler. Returned errors are retried by the queue.
func (s *ScheduleExportService) HandleJob(ctx context.Context, job jobs.Job) error {
	record, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}
	processing := models.ExportStatusProcessing
	if err := s.jobs.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark export job processing: %w", err)
	}

	format := record.Params.Format
	started := s.now()
	data, err := s.render(ctx, format, record.Params.SectionIDs, "Section Timetables")
	if err != nil {
		s.requeue(ctx, job, err)
		return err
	}

	name := fmt.Sprintf("schedules/%s.%s", record.ID, format)
	relPath, err := s.files.Save(name, data)
	if err != nil {
		s.requeue(ctx, job, err)
		return fmt.Errorf("store export: %w", err)
	}
	token, _, err := s.signer.Generate(record.ID, relPath)
	if err != nil {
		s.requeue(ctx, job, err)
		return fmt.Errorf("sign export: %w", err)
	}
	url := fmt.Sprintf("%s/schedule-exports/download/%s", strings.TrimSuffix(s.cfg.APIPrefix, "/"), token)

	finished := models.ExportStatusFinished
	now := s.now().UTC()
	noError := ""
	if err := s.jobs.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:       &finished,
		ResultPath:   &relPath,
		ResultURL:    &url,
		ErrorMessage: &noError,
		FinishedAt:   &now,
	}); err != nil {
		return fmt.Errorf("mark export job finished: %w", err)
	}
	s.metrics.ObserveExport(string(format), string(finished), s.now().Sub(started))
	s.logger.Info("schedule export finished", zap.String("job_id", job.ID), zap.String("path", relPath))
	return nil
}

// MarkFailed is the queue give-up hook.
func (s *ScheduleExportService) MarkFailed(ctx context.Context, job jobs.Job, cause error) {
	msg := "export failed"
	if cause != nil {
		msg = cause.Error()
	}
	s.finish(ctx, job.ID, models.ExportStatusFailed, nil, msg)
	format := ""
	if record, err := s.jobs.GetByID(ctx, job.ID); err == nil {
		format = string(record.Params.Format)
	}
	s.metrics.ObserveExport(format, string(models.ExportStatusFailed), 0)
}

// RecoverPendingJobs re-enqueues jobs left QUEUED by a previous process.
func (s *ScheduleExportService) RecoverPendingJobs(ctx context.Context) {
	if s.queue == nil {
		return
	}
	pending, err := s.jobs.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued export jobs", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: scheduleExportJobType}); err != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// StartCleanup periodically removes expired exports and their job rows.
func (s *ScheduleExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired deletes exports older than the result TTL.
func (s *ScheduleExportService) CleanupExpired(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	removed := 0
	for {
		expired, err := s.jobs.ListFinishedBefore(ctx, cutoff, 100)
		if err != nil {
			s.logger.Warn("export cleanup list failed", zap.Error(err))
			break
		}
		for _, job := range expired {
			if job.ResultPath != nil {
				if err := s.files.Delete(*job.ResultPath); err != nil {
					s.logger.Warn("export cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
				}
			}
			if err := s.jobs.Delete(ctx, job.ID); err != nil {
				s.logger.Warn("export cleanup row delete failed", zap.String("job_id", job.ID), zap.Error(err))
				continue
			}
			removed++
		}
		if len(expired) < 100 {
			break
		}
	}
	if _, err := s.files.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("export filesystem cleanup failed", zap.Error(err))
	}
	return removed
}

func (s *ScheduleExportService) render(ctx context.Context, format models.ExportFormat, sectionIDs []string, title string) ([]byte, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	entries, err := s.entries.ListBySections(ctx, sectionIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}
	doc := BuildTimetableDocument(title, sectionIDs, entries)
	started := s.now()
	data, err := renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	s.logger.Debug("timetable rendered", zap.String("format", string(format)), zap.Duration("took", s.now().Sub(started)))
	return data, nil
}

func (s *ScheduleExportService) requeue(ctx context.Context, job jobs.Job, cause error) {
	if job.Attempt >= s.cfg.MaxRetries {
		return
	}
	queued := models.ExportStatusQueued
	msg := cause.Error()
	if err := s.jobs.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &queued, ErrorMessage: &msg}); err != nil {
		s.logger.Warn("failed to mark export job queued", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ScheduleExportService) finish(ctx context.Context, id string, status models.ExportStatus, url *string, msg string) {
	now := s.now().UTC()
	if err := s.jobs.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &status,
		ResultURL:    url,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to finalise export job", zap.String("job_id", id), zap.Error(err))
	}
}

// BuildTimetableDocument lays out one sheet per section in the requested order. Sections
// without entries still get an empty sheet.
func BuildTimetableDocument(title string, sectionIDs []string, entries []models.ScheduleEntryDetail) export.Document {
	rowsBySection := make(map[string][]map[string]string, len(sectionIDs))
	names := make(map[string]string, len(sectionIDs))
	for _, entry := range entries {
		names[entry.SectionID] = entry.SectionName
		teacher := ""
		if entry.TeacherName != nil {
			teacher = *entry.TeacherName
		}
		rowsBySection[entry.SectionID] = append(rowsBySection[entry.SectionID], map[string]string{
			"Day":     timetable.DayName(entry.DayOfWeek),
			"Start":   entry.StartTime,
			"End":     entry.EndTime,
			"Section": entry.SectionName,
			"Subject": entry.SubjectName,
			"Teacher": teacher,
			"Room":    entry.RoomName,
		})
	}

	doc := export.Document{Title: title, Sheets: make([]export.Sheet, 0, len(sectionIDs))}
	for _, id := range sectionIDs {
		name := names[id]
		if name == "" {
			name = id
		}
		rows := rowsBySection[id]
		if rows == nil {
			rows = []map[string]string{}
		}
		doc.Sheets = append(doc.Sheets, export.Sheet{
			Name: name,
			Data: export.Dataset{Headers: scheduleExportHeaders, Rows: rows},
		})
	}
	return doc
}

func toExportJobResponse(job *models.ScheduleExportJob) *dto.ScheduleExportJobResponse {
	resp := &dto.ScheduleExportJobResponse{
		ID:         job.ID,
		Status:     job.Status,
		Format:     job.Params.Format,
		SectionIDs: job.Params.SectionIDs,
		ResultURL:  job.ResultURL,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp
}

func parseExportFormat(raw string) (models.ExportFormat, error) {
	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		format = models.ExportFormatPDF
	}
	if !format.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be one of pdf, xlsx, csv")
	}
	return format, nil
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(fields) == 0 {
		return "section"
	}
	return strings.Join(fields, "-")
}
