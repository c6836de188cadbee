package service

import (
	"context"

	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// DirectoryService exposes the read-only department and class directory,
// used by trainers when picking cohort pairs.
type DirectoryService struct {
	dirRepo *repository.DirectoryRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(dirRepo *repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{dirRepo: dirRepo}
}

// ListDepartments retrieves all departments.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	departments, err := s.dirRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []model.Department{}
	}
	return departments, nil
}

// ListClasses retrieves the classes of one department.
func (s *DirectoryService) ListClasses(ctx context.Context, departmentID string) ([]model.Class, error) {
	classes, err := s.dirRepo.ListClassesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []model.Class{}
	}
	return classes, nil
}
