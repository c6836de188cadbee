package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// TestRepository handles test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

const testColumns = `id, course_id, title, duration_minutes, total_marks, pass_mark,
	max_attempts, publish_start, publish_end, published, created_at, updated_at`

func scanTest(row interface{ Scan(...any) error }) (*model.Test, error) {
	t := &model.Test{}
	err := row.Scan(&t.ID, &t.CourseID, &t.Title, &t.DurationMinutes, &t.TotalMarks,
		&t.PassMark, &t.MaxAttempts, &t.PublishStart, &t.PublishEnd, &t.Published,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a test by its UUID.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM tests WHERE id = $1`, id))
}

// ListByCourse retrieves all tests under a course.
func (r *TestRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+` FROM tests WHERE course_id = $1 ORDER BY created_at`, courseID)
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

// Create inserts a new test.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (course_id, title, duration_minutes, total_marks, pass_mark, max_attempts)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, publish_start, publish_end, published, created_at, updated_at`,
		t.CourseID, t.Title, t.DurationMinutes, t.TotalMarks, t.PassMark, t.MaxAttempts,
	).Scan(&t.ID, &t.PublishStart, &t.PublishEnd, &t.Published, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies a test's metadata. The publish window and published flag
// are written only through the assignment replace operation.
func (r *TestRepository) Update(ctx context.Context, t *model.Test) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests
		 SET title = $1, duration_minutes = $2, total_marks = $3, pass_mark = $4,
		     max_attempts = $5, updated_at = NOW()
		 WHERE id = $6`,
		t.Title, t.DurationMinutes, t.TotalMarks, t.PassMark, t.MaxAttempts, t.ID)
	return err
}

// SetPublished toggles the published flag without touching the window.
func (r *TestRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET published = $1, updated_at = NOW() WHERE id = $2`,
		published, id)
	return err
}

// DeleteCascade removes a test and every dependent row in one transaction,
// leaf-first: answers, attempts, assignments, questions, then the test.
func (r *TestRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM student_answers
		 WHERE attempt_id IN (SELECT id FROM test_attempts WHERE test_id = $1)`,
		`DELETE FROM test_attempts WHERE test_id = $1`,
		`DELETE FROM test_assignments WHERE test_id = $1`,
		`DELETE FROM questions WHERE test_id = $1`,
		`DELETE FROM tests WHERE id = $1`,
	}

	for _, q := range steps {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("cascade delete test: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListPublished returns all tests with the published flag set.
// Used for paper cache prewarming on application startup.
func (r *TestRepository) ListPublished(ctx context.Context) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+` FROM tests WHERE published ORDER BY created_at DESC`)
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
