package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// CohortRepository handles course- and test-level cohort assignment data.
// Both assignment tables are keyed on (target, department, class) with no
// duplicate pairs, and updates are full set replacements.
type CohortRepository struct {
	pool *pgxpool.Pool
}

// NewCohortRepository creates a new CohortRepository.
func NewCohortRepository(pool *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{pool: pool}
}

// ReplaceCourseAssignments deletes all cohort pairs for the course and
// inserts the given set in one transaction, so a reader never observes an
// empty set mid-update. An empty set hides the course from everyone.
func (r *CohortRepository) ReplaceCourseAssignments(ctx context.Context, courseID uuid.UUID, cohorts []model.CohortPair) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM course_assignments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear course assignments: %w", err)
	}

	if len(cohorts) > 0 {
		depts, classes := cohortArrays(cohorts)
		if _, err := tx.Exec(ctx,
			`INSERT INTO course_assignments (course_id, department_id, class_id)
			 SELECT $1, u.department_id, u.class_id
			 FROM UNNEST($2::text[], $3::int[]) AS u (department_id, class_id)`,
			courseID, depts, classes); err != nil {
			return fmt.Errorf("insert course assignments: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ReplaceTestAssignments replaces the test's cohort pairs and writes its
// publish window and published flag in the same transaction. Assignment and
// publish scheduling are coupled so a test can never end up published with
// zero cohorts.
func (r *CohortRepository) ReplaceTestAssignments(ctx context.Context, testID uuid.UUID, cohorts []model.CohortPair, publishStart, publishEnd *time.Time, published bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM test_assignments WHERE test_id = $1`, testID); err != nil {
		return fmt.Errorf("clear test assignments: %w", err)
	}

	if len(cohorts) > 0 {
		depts, classes := cohortArrays(cohorts)
		if _, err := tx.Exec(ctx,
			`INSERT INTO test_assignments (test_id, department_id, class_id)
			 SELECT $1, u.department_id, u.class_id
			 FROM UNNEST($2::text[], $3::int[]) AS u (department_id, class_id)`,
			testID, depts, classes); err != nil {
			return fmt.Errorf("insert test assignments: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tests
		 SET publish_start = $1, publish_end = $2, published = $3, updated_at = NOW()
		 WHERE id = $4`,
		publishStart, publishEnd, published, testID); err != nil {
		return fmt.Errorf("write publish window: %w", err)
	}

	return tx.Commit(ctx)
}

// ListByCourse retrieves the cohort pairs assigned to a course.
func (r *CohortRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.CohortPair, error) {
	return r.listPairs(ctx,
		`SELECT department_id, class_id FROM course_assignments
		 WHERE course_id = $1 ORDER BY department_id, class_id`, courseID)
}

// ListByTest retrieves the cohort pairs assigned to a test.
func (r *CohortRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.CohortPair, error) {
	return r.listPairs(ctx,
		`SELECT department_id, class_id FROM test_assignments
		 WHERE test_id = $1 ORDER BY department_id, class_id`, testID)
}

// CountByTest returns the number of cohort pairs assigned to a test.
func (r *CohortRepository) CountByTest(ctx context.Context, testID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_assignments WHERE test_id = $1`, testID).Scan(&count)
	return count, err
}

// TestAssignedTo reports whether the exact (department, class) pair is
// assigned to the test. Matching is never hierarchical.
func (r *CohortRepository) TestAssignedTo(ctx context.Context, testID uuid.UUID, departmentID string, classID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM test_assignments
		   WHERE test_id = $1 AND department_id = $2 AND class_id = $3)`,
		testID, departmentID, classID).Scan(&exists)
	return exists, err
}

func (r *CohortRepository) listPairs(ctx context.Context, query string, id uuid.UUID) ([]model.CohortPair, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []model.CohortPair
	for rows.Next() {
		var p model.CohortPair
		if err := rows.Scan(&p.DepartmentID, &p.ClassID); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func cohortArrays(cohorts []model.CohortPair) ([]string, []int) {
	depts := make([]string, len(cohorts))
	classes := make([]int, len(cohorts))
	for i, c := range cohorts {
		depts[i] = c.DepartmentID
		classes[i] = c.ClassID
	}
	return depts, classes
}
