package service

import (
	"context"
	"strings"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/course/dto"
	"campuscrafter.id/academy/internal/modules/course/repository"
	search "campuscrafter.id/academy/internal/modules/search/service"
	"campuscrafter.id/academy/internal/ownership"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/timefmt"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/rs/zerolog"
)

const searchLimit = 50

type CourseService interface {
	CreateCourse(ctx context.Context, caller entity.Identity, req dto.CreateCourseRequest) (*entity.Course, error)
	GetAllCourses(ctx context.Context) ([]*entity.Course, error)
	GetCourse(ctx context.Context, id uint) (*entity.Course, error)
	UpdateCourse(ctx context.Context, caller entity.Identity, id uint, req dto.UpdateCourseRequest) (*entity.Course, error)
	DeleteCourse(ctx context.Context, caller entity.Identity, id uint) error
	SearchCourses(ctx context.Context, query string) ([]*entity.Course, error)
}

type courseService struct {
	repo     repository.CourseRepository
	resolver *ownership.Resolver
	index    search.CourseIndex
	log      zerolog.Logger
}

// NewCourseService wires the course manager. index may be nil, in which case search
// falls back to the database.
func NewCourseService(repo repository.CourseRepository, resolver *ownership.Resolver, index search.CourseIndex, log zerolog.Logger) CourseService {
	return &courseService{
		repo:     repo,
		resolver: resolver,
		index:    index,
		log:      log,
	}
}

// CreateCourse makes the caller the owning teacher.
func (s *courseService) CreateCourse(ctx context.Context, caller entity.Identity, req dto.CreateCourseRequest) (*entity.Course, error) {
	if err := policy.Authorize(caller, policy.CreateCourse, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}

	startDate, err := timefmt.ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}

	status := entity.CourseStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	course := &entity.Course{
		Title:           title,
		Description:     req.Description,
		TeacherID:       caller.ID,
		StartDate:       startDate,
		Credits:         req.Credits,
		EnrollmentLimit: req.EnrollmentLimit,
		Status:          status,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.reindex(course)
	return course, nil
}

func (s *courseService) GetAllCourses(ctx context.Context) ([]*entity.Course, error) {
	return s.repo.FindAll(ctx)
}

func (s *courseService) GetCourse(ctx context.Context, id uint) (*entity.Course, error) {
	chain, err := s.resolver.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	return chain.Course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, caller entity.Identity, id uint, req dto.UpdateCourseRequest) (*entity.Course, error) {
	chain, err := s.resolver.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := chain.Authorize(caller, policy.ModifyCourse); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	course := chain.Course
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.Validation("title cannot be empty")
		}
		course.Title = title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.StartDate != nil {
		startDate, err := timefmt.ParseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		course.StartDate = startDate
	}
	if req.Credits != nil {
		course.Credits = req.Credits
	}
	if req.EnrollmentLimit != nil {
		course.EnrollmentLimit = req.EnrollmentLimit
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.reindex(course)
	return course, nil
}

// DeleteCourse removes the course together with its assignments and their grades.
func (s *courseService) DeleteCourse(ctx context.Context, caller entity.Identity, id uint) error {
	chain, err := s.resolver.Course(ctx, id)
	if err != nil {
		return err
	}
	if err := chain.Authorize(caller, policy.DeleteCourse); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteCourse(id); err != nil {
			s.log.Warn().Err(err).Uint("course_id", id).Msg("failed to remove course from search index")
		}
	}
	return nil
}

// SearchCourses prefers the full-text index and falls back to a substring match.
func (s *courseService) SearchCourses(ctx context.Context, query string) ([]*entity.Course, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.FindAll(ctx)
	}

	if s.index != nil {
		ids, err := s.index.SearchCourses(query, searchLimit)
		if err == nil {
			return s.repo.FindByIDs(ctx, ids)
		}
		s.log.Warn().Err(err).Str("query", query).Msg("search index unavailable, falling back to database")
	}

	return s.repo.Search(ctx, query)
}

func (s *courseService) reindex(course *entity.Course) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexCourse(course); err != nil {
		s.log.Warn().Err(err).Uint("course_id", course.ID).Msg("failed to index course")
	}
}
