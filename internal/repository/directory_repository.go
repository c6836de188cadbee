package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/placement-backend/internal/model"
)

// DirectoryRepository is a read-only view over the platform's department,
// class and student tables. The engine never writes directory data; the
// wider records platform owns it.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// GetStudent resolves a student identity to its directory record, including
// the (department, class) pair every eligibility decision is keyed on.
func (r *DirectoryRepository) GetStudent(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, roll_no, name, department_id, class_id
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.RollNo, &s.Name, &s.DepartmentID, &s.ClassID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListDepartments retrieves all departments.
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// ListClassesByDepartment retrieves the classes of one department.
func (r *DirectoryRepository) ListClassesByDepartment(ctx context.Context, departmentID string) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, department_id, label
		 FROM classes WHERE department_id = $1
		 ORDER BY label`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Label); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// CountStudentsInClass returns the enrolled student count of a class.
func (r *DirectoryRepository) CountStudentsInClass(ctx context.Context, classID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE class_id = $1`, classID).Scan(&count)
	return count, err
}
