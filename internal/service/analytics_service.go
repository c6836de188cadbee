package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// Domain Errors
var (
	ErrScopeForbidden = errors.New("analytics scope exceeds the caller's department")
)

// AnalyticsService handles aggregated result reads. Role scoping is purely
// an input filter: a head of department runs the exact same aggregation as
// the principal, over a narrower attempt set.
type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepository
	courseRepo    *repository.CourseRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	courseRepo *repository.CourseRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		courseRepo:    courseRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "analytics_service").Logger(),
	}
}

// resolveScope decides the effective department filter for a caller.
// Department-scoped roles are pinned to their own department; asking for a
// different one is an error, not a silent narrowing.
func resolveScope(role model.Role, ownDepartment string, requested *string) (*string, error) {
	if !role.AnalyticsDepartmentScoped() {
		return requested, nil
	}
	if requested != nil && *requested != "" && *requested != ownDepartment {
		return nil, ErrScopeForbidden
	}
	return &ownDepartment, nil
}

// GetSummary returns the global rollup. Unscoped reads are served from the
// snapshot cache when present; scoped reads always hit PostgreSQL.
func (s *AnalyticsService) GetSummary(ctx context.Context, role model.Role, ownDepartment string, requested *string) (*repository.Summary, error) {
	scope, err := resolveScope(role, ownDepartment, requested)
	if err != nil {
		return nil, err
	}

	if scope == nil || *scope == "" {
		if val, err := s.rdb.Get(ctx, config.CacheKey.AnalyticsSummaryKey()).Result(); err == nil {
			sum := &repository.Summary{}
			if err := json.Unmarshal([]byte(val), sum); err == nil {
				return sum, nil
			}
		}
	}

	sum, err := s.analyticsRepo.GetSummary(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return sum, nil
}

// GetPerTest returns the per-test breakdown under the caller's scope.
func (s *AnalyticsService) GetPerTest(ctx context.Context, role model.Role, ownDepartment string, requested *string) ([]repository.TestBreakdown, error) {
	scope, err := resolveScope(role, ownDepartment, requested)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.analyticsRepo.GetPerTest(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("get per-test breakdown: %w", err)
	}
	if breakdown == nil {
		breakdown = []repository.TestBreakdown{}
	}
	return breakdown, nil
}

// GetPerDepartment returns the per-department breakdown under the caller's
// scope. For a head of department this degenerates to a single row.
func (s *AnalyticsService) GetPerDepartment(ctx context.Context, role model.Role, ownDepartment string, requested *string) ([]repository.DepartmentBreakdown, error) {
	scope, err := resolveScope(role, ownDepartment, requested)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.analyticsRepo.GetPerDepartment(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("get per-department breakdown: %w", err)
	}
	if breakdown == nil {
		breakdown = []repository.DepartmentBreakdown{}
	}
	return breakdown, nil
}

// GetCourseParticipation returns a course's participation report. Trainers
// may only read their own courses; department-scoped roles get the report
// narrowed to their department's students.
func (s *AnalyticsService) GetCourseParticipation(ctx context.Context, courseID uuid.UUID, role model.Role, userID int, ownDepartment string, requested *string) (*repository.CourseParticipation, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if role == model.RoleTrainer && course.TrainerID != userID {
		return nil, ErrNotCourseOwner
	}

	scope, err := resolveScope(role, ownDepartment, requested)
	if err != nil {
		return nil, err
	}

	cp, err := s.analyticsRepo.GetCourseParticipation(ctx, courseID, scope)
	if err != nil {
		return nil, fmt.Errorf("get course participation: %w", err)
	}
	return cp, nil
}

// RefreshSummarySnapshot recomputes the global summary and caches it.
// Called periodically by the snapshot worker.
func (s *AnalyticsService) RefreshSummarySnapshot(ctx context.Context) error {
	sum, err := s.analyticsRepo.GetSummary(ctx, nil)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	payload, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.AnalyticsSummaryKey(), payload, 0).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}
