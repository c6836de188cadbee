package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository handles read-only rollups over SUBMITTED attempts.
// IN_PROGRESS attempts never contribute to any aggregate. Every query takes
// an optional department filter; scoping narrows the input set but the
// aggregation itself is identical for every caller role.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Summary is the global attempt rollup.
type Summary struct {
	StudentsAttempted int     `json:"students_attempted"`
	TestsAttempted    int     `json:"tests_attempted"`
	TotalAttempts     int     `json:"total_attempts"`
	PassPercentage    float64 `json:"pass_percentage"`
}

// GetSummary computes the global rollup, optionally scoped to one department.
func (r *AnalyticsRepository) GetSummary(ctx context.Context, departmentID *string) (*Summary, error) {
	query := `
		SELECT COUNT(DISTINCT a.student_id),
		       COUNT(DISTINCT a.test_id),
		       COUNT(*),
		       COALESCE(COUNT(*) FILTER (WHERE a.pass_status = 'pass') * 100.0 / NULLIF(COUNT(*), 0), 0)
		FROM test_attempts a
		JOIN students s ON s.id = a.student_id
		WHERE a.status = 'SUBMITTED'`
	args := []any{}
	if departmentID != nil && *departmentID != "" {
		query += ` AND s.department_id = $1`
		args = append(args, *departmentID)
	}

	sum := &Summary{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&sum.StudentsAttempted, &sum.TestsAttempted, &sum.TotalAttempts, &sum.PassPercentage)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// TestBreakdown is the per-test rollup row.
type TestBreakdown struct {
	TestID         uuid.UUID `json:"test_id"`
	Title          string    `json:"title"`
	Attempts       int       `json:"attempts"`
	PassPercentage float64   `json:"pass_percentage"`
}

// GetPerTest computes attempts and pass percentage grouped by test.
func (r *AnalyticsRepository) GetPerTest(ctx context.Context, departmentID *string) ([]TestBreakdown, error) {
	query := `
		SELECT t.id, t.title,
		       COUNT(a.id),
		       COALESCE(COUNT(*) FILTER (WHERE a.pass_status = 'pass') * 100.0 / NULLIF(COUNT(a.id), 0), 0)
		FROM test_attempts a
		JOIN tests t ON t.id = a.test_id
		JOIN students s ON s.id = a.student_id
		WHERE a.status = 'SUBMITTED'`
	args := []any{}
	if departmentID != nil && *departmentID != "" {
		query += ` AND s.department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` GROUP BY t.id, t.title ORDER BY t.title`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []TestBreakdown
	for rows.Next() {
		var tb TestBreakdown
		if err := rows.Scan(&tb.TestID, &tb.Title, &tb.Attempts, &tb.PassPercentage); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, tb)
	}
	return breakdown, rows.Err()
}

// DepartmentBreakdown is the per-department rollup row.
type DepartmentBreakdown struct {
	DepartmentID   string  `json:"department_id"`
	Attempts       int     `json:"attempts"`
	PassPercentage float64 `json:"pass_percentage"`
}

// GetPerDepartment computes attempts and pass percentage grouped by the
// attempting student's department.
func (r *AnalyticsRepository) GetPerDepartment(ctx context.Context, departmentID *string) ([]DepartmentBreakdown, error) {
	query := `
		SELECT s.department_id,
		       COUNT(a.id),
		       COALESCE(COUNT(*) FILTER (WHERE a.pass_status = 'pass') * 100.0 / NULLIF(COUNT(a.id), 0), 0)
		FROM test_attempts a
		JOIN students s ON s.id = a.student_id
		WHERE a.status = 'SUBMITTED'`
	args := []any{}
	if departmentID != nil && *departmentID != "" {
		query += ` AND s.department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` GROUP BY s.department_id ORDER BY s.department_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []DepartmentBreakdown
	for rows.Next() {
		var db DepartmentBreakdown
		if err := rows.Scan(&db.DepartmentID, &db.Attempts, &db.PassPercentage); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, db)
	}
	return breakdown, rows.Err()
}

// CourseParticipation compares the eligible student population of a course
// against actual attempt outcomes.
type CourseParticipation struct {
	CourseID          uuid.UUID `json:"course_id"`
	EligibleStudents  int       `json:"eligible_students"`
	StudentsAttempted int       `json:"students_attempted"`
	StudentsPassed    int       `json:"students_passed"`
	StudentsFailed    int       `json:"students_failed"`
	AveragePercentage float64   `json:"average_percentage"`
}

// GetCourseParticipation derives the eligible-student count from the course's
// cohort assignments crossed with the directory, and joins it with submitted
// attempt outcomes on the course's tests.
func (r *AnalyticsRepository) GetCourseParticipation(ctx context.Context, courseID uuid.UUID, departmentID *string) (*CourseParticipation, error) {
	deptFilter := ""
	args := []any{courseID}
	if departmentID != nil && *departmentID != "" {
		args = append(args, *departmentID)
		deptFilter = ` AND s.department_id = $2`
	}

	cp := &CourseParticipation{CourseID: courseID}
	err := r.pool.QueryRow(ctx, `
		WITH eligible AS (
			SELECT DISTINCT s.id
			FROM course_assignments ca
			JOIN students s
			  ON s.department_id = ca.department_id AND s.class_id = ca.class_id
			WHERE ca.course_id = $1`+deptFilter+`
		),
		outcomes AS (
			SELECT a.student_id,
			       BOOL_OR(a.pass_status = 'pass') AS passed,
			       AVG(a.percentage) AS avg_pct
			FROM test_attempts a
			JOIN tests t ON t.id = a.test_id
			JOIN students s ON s.id = a.student_id
			WHERE t.course_id = $1 AND a.status = 'SUBMITTED'`+deptFilter+`
			GROUP BY a.student_id
		)
		SELECT (SELECT COUNT(*) FROM eligible),
		       COUNT(o.student_id),
		       COUNT(*) FILTER (WHERE o.passed),
		       COUNT(*) FILTER (WHERE NOT o.passed),
		       COALESCE(AVG(o.avg_pct), 0)
		FROM outcomes o`,
		args...,
	).Scan(&cp.EligibleStudents, &cp.StudentsAttempted, &cp.StudentsPassed,
		&cp.StudentsFailed, &cp.AveragePercentage)
	if err != nil {
		return nil, err
	}
	return cp, nil
}
