package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// DashboardRepository runs the aggregate queries behind the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type dashboardTotals struct {
	Students       int `db:"students"`
	Grades         int `db:"grades"`
	Attendance     int `db:"attendance"`
	Behaviors      int `db:"behaviors"`
	Communications int `db:"communications"`
}

// Stats returns school wide totals, the attendance distribution and subject averages.
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	const totalsQuery = `SELECT
        (SELECT COUNT(*) FROM students) AS students,
        (SELECT COUNT(*) FROM grades) AS grades,
        (SELECT COUNT(*) FROM attendance) AS attendance,
        (SELECT COUNT(*) FROM behavior_reports) AS behaviors,
        (SELECT COUNT(*) FROM communications) AS communications`
	var totals dashboardTotals
	if err := r.db.GetContext(ctx, &totals, totalsQuery); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	var attendance []models.AttendanceCount
	if err := r.db.SelectContext(ctx, &attendance, `SELECT status, COUNT(*) AS count FROM attendance GROUP BY status`); err != nil {
		return nil, fmt.Errorf("dashboard attendance: %w", err)
	}

	var averages []models.SubjectAverage
	const averagesQuery = `SELECT subject, AVG(grade_value)::float8 AS average FROM grades GROUP BY subject ORDER BY subject ASC`
	if err := r.db.SelectContext(ctx, &averages, averagesQuery); err != nil {
		return nil, fmt.Errorf("dashboard averages: %w", err)
	}

	return &models.DashboardStats{
		TotalStudents:        totals.Students,
		TotalGrades:          totals.Grades,
		TotalAttendance:      totals.Attendance,
		TotalBehaviorReports: totals.Behaviors,
		TotalCommunications:  totals.Communications,
		Attendance:           completeAttendance(attendance),
		SubjectAverages:      nonNilAverages(averages),
	}, nil
}

// LowestAverages returns the students with the lowest mean grade.
func (r *DashboardRepository) LowestAverages(ctx context.Context, limit int) ([]models.StudentAverage, error) {
	const query = `SELECT s.id AS student_id, TRIM(s.first_name || ' ' || s.last_name) AS student_name, AVG(g.grade_value)::float8 AS average
        FROM students s JOIN grades g ON g.student_id = s.id
        GROUP BY s.id, s.first_name, s.last_name
        ORDER BY average ASC, s.id ASC LIMIT $1`
	rows := []models.StudentAverage{}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("lowest averages: %w", err)
	}
	return rows, nil
}

// LowestPresentRates returns the students with the lowest share of present marks.
func (r *DashboardRepository) LowestPresentRates(ctx context.Context, limit int) ([]models.StudentPresentRate, error) {
	const query = `SELECT s.id AS student_id, TRIM(s.first_name || ' ' || s.last_name) AS student_name,
        ROUND(100.0 * SUM(CASE WHEN a.status = 'Present' THEN 1 ELSE 0 END) / COUNT(a.id), 2)::float8 AS present_rate,
        COUNT(a.id) AS marks
        FROM students s JOIN attendance a ON a.student_id = s.id
        GROUP BY s.id, s.first_name, s.last_name
        HAVING COUNT(a.id) > 0
        ORDER BY present_rate ASC, s.id ASC LIMIT $1`
	rows := []models.StudentPresentRate{}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("lowest present rates: %w", err)
	}
	return rows, nil
}

// completeAttendance reports every status, including ones without marks.
func completeAttendance(rows []models.AttendanceCount) []models.AttendanceCount {
	counts := map[models.AttendanceStatus]int{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	statuses := []models.AttendanceStatus{models.AttendancePresent, models.AttendanceAbsent, models.AttendanceTardy}
	result := make([]models.AttendanceCount, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, models.AttendanceCount{Status: status, Count: counts[status]})
	}
	return result
}

func nonNilAverages(rows []models.SubjectAverage) []models.SubjectAverage {
	if rows == nil {
		return []models.SubjectAverage{}
	}
	return rows
}
