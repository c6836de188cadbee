package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// EligibilityRepository answers "what can this cohort see" queries. All
// matching is on the exact (department, class) pair; a department-wide
// assignment does not exist as a concept.
type EligibilityRepository struct {
	pool *pgxpool.Pool
}

// NewEligibilityRepository creates a new EligibilityRepository.
func NewEligibilityRepository(pool *pgxpool.Pool) *EligibilityRepository {
	return &EligibilityRepository{pool: pool}
}

// ListEligibleCourses retrieves the courses assigned to the pair.
func (r *EligibilityRepository) ListEligibleCourses(ctx context.Context, departmentID string, classID int) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.description, c.trainer_id, c.status, c.created_at, c.updated_at
		 FROM courses c
		 JOIN course_assignments ca ON ca.course_id = c.id
		 WHERE ca.department_id = $1 AND ca.class_id = $2
		 ORDER BY c.created_at DESC`,
		departmentID, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.TrainerID, &c.Status,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListAttemptableTests retrieves the tests the pair can start right now:
// published, the clock reading inside the publish window (nil bounds open),
// and the exact pair assigned. The clock is a parameter so the query and its
// callers agree on a single reading.
func (r *EligibilityRepository) ListAttemptableTests(ctx context.Context, departmentID string, classID int, now time.Time) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+prefixedTestColumns("t")+`
		 FROM tests t
		 JOIN test_assignments ta ON ta.test_id = t.id
		 WHERE ta.department_id = $1 AND ta.class_id = $2
		   AND t.published
		   AND (t.publish_start IS NULL OR t.publish_start <= $3)
		   AND (t.publish_end IS NULL OR t.publish_end >= $3)
		 ORDER BY t.created_at DESC`,
		departmentID, classID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *t)
	}
	return tests, rows.Err()
}

func prefixedTestColumns(alias string) string {
	return alias + `.id, ` + alias + `.course_id, ` + alias + `.title, ` +
		alias + `.duration_minutes, ` + alias + `.total_marks, ` + alias + `.pass_mark, ` +
		alias + `.max_attempts, ` + alias + `.publish_start, ` + alias + `.publish_end, ` +
		alias + `.published, ` + alias + `.created_at, ` + alias + `.updated_at`
}
