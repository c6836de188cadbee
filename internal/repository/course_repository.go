package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by its UUID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, trainer_id, status, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.TrainerID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByTrainerPaginated retrieves courses filtered by trainer with pagination.
// Pass trainerID=0 to list all courses.
func (r *CourseRepository) ListByTrainerPaginated(ctx context.Context, trainerID, limit, offset int) ([]model.Course, int, error) {
	countQuery := `SELECT COUNT(*) FROM courses`
	dataQuery := `SELECT id, name, description, trainer_id, status, created_at, updated_at
	              FROM courses`

	var countArgs, args []interface{}
	argIdx := 1
	if trainerID > 0 {
		countQuery += ` WHERE trainer_id = $1`
		dataQuery += ` WHERE trainer_id = $1`
		countArgs = append(countArgs, trainerID)
		args = append(args, trainerID)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.TrainerID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, description, trainer_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.TrainerID, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies a course's metadata.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses
		 SET name = $1, description = $2, status = $3, updated_at = NOW()
		 WHERE id = $4`,
		c.Name, c.Description, c.Status, c.ID)
	return err
}

// DeleteCascade removes a course and every dependent row in one transaction.
// Attempts and questions reference tests with no orphan tolerance, so the
// deletes run strictly leaf-first.
func (r *CourseRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM test_assignments
		 WHERE test_id IN (SELECT id FROM tests WHERE course_id = $1)`,
		`DELETE FROM student_answers
		 WHERE attempt_id IN (
		   SELECT a.id FROM test_attempts a
		   JOIN tests t ON t.id = a.test_id
		   WHERE t.course_id = $1)`,
		`DELETE FROM test_attempts
		 WHERE test_id IN (SELECT id FROM tests WHERE course_id = $1)`,
		`DELETE FROM questions
		 WHERE test_id IN (SELECT id FROM tests WHERE course_id = $1)`,
		`DELETE FROM tests WHERE course_id = $1`,
		`DELETE FROM course_assignments WHERE course_id = $1`,
		`DELETE FROM courses WHERE id = $1`,
	}

	for _, q := range steps {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("cascade delete course: %w", err)
		}
	}

	return tx.Commit(ctx)
}
