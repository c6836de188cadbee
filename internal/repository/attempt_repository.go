package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// ErrQuotaExhausted is returned by InsertNext when the attempt count for the
// (test, student) pair has already reached max_attempts.
var ErrQuotaExhausted = errors.New("attempt quota exhausted")

const uniqueViolation = "23505"

// AttemptRepository handles test attempt and student answer data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, test_id, student_id, attempt_no, started_at, submitted_at,
	status, score, percentage, pass_status`

func scanAttempt(row interface{ Scan(...any) error }) (*model.TestAttempt, error) {
	a := &model.TestAttempt{}
	err := row.Scan(&a.ID, &a.TestID, &a.StudentID, &a.AttemptNo, &a.StartedAt,
		&a.SubmittedAt, &a.Status, &a.Score, &a.Percentage, &a.PassStatus)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// InsertNext atomically creates the next attempt slot for (testID, studentID)
// if and only if fewer than maxAttempts attempts exist. The quota check and
// the insert are a single statement: aggregating over the existing attempts
// yields exactly one candidate row, and the HAVING clause suppresses it once
// the quota is reached. Two racing callers compute the same attempt_no; the
// unique constraint on (test_id, student_id, attempt_no) rejects the loser,
// which retries and then observes the updated count. The loop therefore
// cannot create more than maxAttempts rows under any interleaving.
func (r *AttemptRepository) InsertNext(ctx context.Context, testID uuid.UUID, studentID, maxAttempts int) (*model.TestAttempt, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		a, err := scanAttempt(r.pool.QueryRow(ctx,
			`INSERT INTO test_attempts (test_id, student_id, attempt_no)
			 SELECT $1, $2, COALESCE(MAX(attempt_no), 0) + 1
			 FROM test_attempts
			 WHERE test_id = $1 AND student_id = $2
			 HAVING COUNT(*) < $3
			 RETURNING `+attemptColumns,
			testID, studentID, maxAttempts))
		if err == nil {
			return a, nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuotaExhausted
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue // Lost the race for this attempt_no; recompute.
		}
		return nil, err
	}
	return nil, fmt.Errorf("insert attempt: retries exhausted for test %s student %d", testID, studentID)
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM test_attempts WHERE id = $1`, id))
}

// CountForStudent returns the number of attempts a student has used on a test.
func (r *AttemptRepository) CountForStudent(ctx context.Context, testID uuid.UUID, studentID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_attempts WHERE test_id = $1 AND student_id = $2`,
		testID, studentID).Scan(&count)
	return count, err
}

// ListByStudent retrieves all attempts of a student, newest first.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.TestAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM test_attempts WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.TestAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// GetForUpdateTx loads an attempt inside tx with a row lock, serializing
// concurrent submissions of the same attempt.
func (r *AttemptRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.TestAttempt, error) {
	return scanAttempt(tx.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM test_attempts WHERE id = $1 FOR UPDATE`, id))
}

// InsertAnswersTx bulk-inserts the graded answers of an attempt inside tx.
func (r *AttemptRepository) InsertAnswersTx(ctx context.Context, tx pgx.Tx, answers []model.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	n := len(answers)
	attemptIDs := make([]uuid.UUID, n)
	questionIDs := make([]uuid.UUID, n)
	selected := make([]string, n)
	correct := make([]bool, n)
	for i, a := range answers {
		attemptIDs[i] = a.AttemptID
		questionIDs[i] = a.QuestionID
		selected[i] = a.SelectedOption
		correct[i] = a.IsCorrect
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO student_answers (attempt_id, question_id, selected_option, is_correct)
		 SELECT u.attempt_id, u.question_id, u.selected_option, u.is_correct
		 FROM UNNEST($1::uuid[], $2::uuid[], $3::text[], $4::bool[])
		   AS u (attempt_id, question_id, selected_option, is_correct)`,
		attemptIDs, questionIDs, selected, correct)
	return err
}

// FinalizeTx marks an attempt SUBMITTED with its grading outcome inside tx.
func (r *AttemptRepository) FinalizeTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, score int, percentage float64, pass model.PassStatus, submittedAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE test_attempts
		 SET status = $1, score = $2, percentage = $3, pass_status = $4, submitted_at = $5
		 WHERE id = $6`,
		model.AttemptStatusSubmitted, score, percentage, pass, submittedAt, id)
	return err
}

// ListAnswers retrieves the recorded answers of an attempt joined with their
// question text, correct option and marks, for post-submission review.
func (r *AttemptRepository) ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.AnswerReview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sa.question_id, q.question_text, sa.selected_option, q.correct_option,
		        sa.is_correct, q.marks
		 FROM student_answers sa
		 JOIN questions q ON q.id = sa.question_id
		 WHERE sa.attempt_id = $1
		 ORDER BY q.order_num`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.AnswerReview
	for rows.Next() {
		var rv model.AnswerReview
		if err := rows.Scan(&rv.QuestionID, &rv.QuestionText, &rv.SelectedOption,
			&rv.CorrectOption, &rv.IsCorrect, &rv.Marks); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// TestResult combines student directory data with an attempt for the
// trainer's per-test results list.
type TestResult struct {
	StudentID   int                 `json:"student_id"`
	RollNo      string              `json:"roll_no"`
	Name        string              `json:"name"`
	ClassLabel  string              `json:"class_label"`
	AttemptNo   int                 `json:"attempt_no"`
	Status      model.AttemptStatus `json:"status"`
	Score       *int                `json:"score"`
	Percentage  *float64            `json:"percentage"`
	PassStatus  model.PassStatus    `json:"pass_status"`
	StartedAt   time.Time           `json:"started_at"`
	SubmittedAt *time.Time          `json:"submitted_at"`
}

// ListByTest retrieves all student attempts for a test with optional
// department and class filters, paginated.
func (r *AttemptRepository) ListByTest(ctx context.Context, testID uuid.UUID, page, perPage int, departmentID *string, classID *int) ([]TestResult, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := `
		FROM test_attempts a
		JOIN students s ON a.student_id = s.id
		JOIN classes c ON s.class_id = c.id
		WHERE a.test_id = $1
	`
	args := []any{testID}

	if departmentID != nil && *departmentID != "" {
		args = append(args, *departmentID)
		baseQuery += fmt.Sprintf(" AND s.department_id = $%d", len(args))
	}
	if classID != nil {
		args = append(args, *classID)
		baseQuery += fmt.Sprintf(" AND s.class_id = $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.roll_no, s.name, c.label,
		       a.attempt_no, a.status, a.score, a.percentage, a.pass_status,
		       a.started_at, a.submitted_at
		` + baseQuery + fmt.Sprintf(`
		ORDER BY c.label ASC, s.roll_no ASC, a.attempt_no ASC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []TestResult
	for rows.Next() {
		var tr TestResult
		if err := rows.Scan(&tr.StudentID, &tr.RollNo, &tr.Name, &tr.ClassLabel,
			&tr.AttemptNo, &tr.Status, &tr.Score, &tr.Percentage, &tr.PassStatus,
			&tr.StartedAt, &tr.SubmittedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, tr)
	}
	return results, total, rows.Err()
}
