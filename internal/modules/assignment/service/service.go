package service

import (
	"context"
	"strings"
	"time"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/assignment/dto"
	"campuscrafter.id/academy/internal/modules/assignment/repository"
	"campuscrafter.id/academy/internal/ownership"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/timefmt"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, caller entity.Identity, courseID uint, req dto.CreateAssignmentRequest) (*entity.Assignment, error)
	GetAssignmentsForCourse(ctx context.Context, courseID uint) ([]*entity.Assignment, error)
	GetAssignment(ctx context.Context, id uint) (*entity.Assignment, error)
	UpdateAssignment(ctx context.Context, caller entity.Identity, id uint, req dto.UpdateAssignmentRequest) (*entity.Assignment, error)
	DeleteAssignment(ctx context.Context, caller entity.Identity, id uint) error
}

type assignmentService struct {
	repo     repository.AssignmentRepository
	resolver *ownership.Resolver
	now      func() time.Time
	log      zerolog.Logger
}

func NewAssignmentService(repo repository.AssignmentRepository, resolver *ownership.Resolver, log zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:     repo,
		resolver: resolver,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, caller entity.Identity, courseID uint, req dto.CreateAssignmentRequest) (*entity.Assignment, error) {
	chain, err := s.resolver.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := chain.Authorize(caller, policy.CreateAssignment); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}

	dueDate, err := timefmt.ParseInstant("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	assignment := &entity.Assignment{
		Title:            title,
		Content:          req.Content,
		DueDate:          dueDate,
		CourseID:         courseID,
		PostedDate:       s.now(),
		MaxScore:         req.MaxScore,
		SubmissionFormat: req.SubmissionFormat,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.log.Info().Uint("assignment_id", assignment.ID).Uint("course_id", courseID).Msg("assignment created")
	return assignment, nil
}

// GetAssignmentsForCourse reports NotFound for an unknown course rather than an empty list.
func (s *assignmentService) GetAssignmentsForCourse(ctx context.Context, courseID uint) ([]*entity.Assignment, error) {
	if _, err := s.resolver.Course(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.FindByCourseID(ctx, courseID)
}

func (s *assignmentService) GetAssignment(ctx context.Context, id uint) (*entity.Assignment, error) {
	chain, err := s.resolver.Assignment(ctx, id)
	if err != nil {
		return nil, err
	}
	return chain.Assignment, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, caller entity.Identity, id uint, req dto.UpdateAssignmentRequest) (*entity.Assignment, error) {
	chain, err := s.resolver.Assignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := chain.Authorize(caller, policy.ModifyAssignment); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	assignment := chain.Assignment
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.Validation("title cannot be empty")
		}
		assignment.Title = title
	}
	if req.Content != nil {
		assignment.Content = req.Content
	}
	if req.DueDate != nil {
		dueDate, err := timefmt.ParseInstant("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		assignment.DueDate = dueDate
	}
	if req.MaxScore != nil {
		assignment.MaxScore = req.MaxScore
	}
	if req.SubmissionFormat != nil {
		assignment.SubmissionFormat = req.SubmissionFormat
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// DeleteAssignment removes the assignment and its grades.
func (s *assignmentService) DeleteAssignment(ctx context.Context, caller entity.Identity, id uint) error {
	chain, err := s.resolver.Assignment(ctx, id)
	if err != nil {
		return err
	}
	if err := chain.Authorize(caller, policy.DeleteAssignment); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
