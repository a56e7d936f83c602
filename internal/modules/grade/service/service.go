package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/grade/dto"
	"campuscrafter.id/academy/internal/modules/grade/repository"
	userRepo "campuscrafter.id/academy/internal/modules/user/repository"
	"campuscrafter.id/academy/internal/ownership"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrStudentNotFound = apperror.New(http.StatusNotFound, "Student not found", apperror.ErrNotFound)

type GradeService interface {
	SubmitGrade(ctx context.Context, caller entity.Identity, assignmentID uint, req dto.SubmitGradeRequest) (*entity.Grade, error)
	GetGradesForStudent(ctx context.Context, caller entity.Identity, studentID uint) ([]*entity.Grade, error)
	// WatchGrades authorizes the caller and opens a live feed of the student's new grades.
	WatchGrades(ctx context.Context, caller entity.Identity, studentID uint) (<-chan []byte, func() error, error)
}

type gradeService struct {
	repo     repository.GradeRepository
	users    userRepo.UserRepository
	resolver *ownership.Resolver
	feed     GradeFeed
	now      func() time.Time
	log      zerolog.Logger
}

// NewGradeService wires the grade manager. feed may be nil when no broker is configured.
func NewGradeService(repo repository.GradeRepository, users userRepo.UserRepository, resolver *ownership.Resolver, feed GradeFeed, log zerolog.Logger) GradeService {
	return &gradeService{
		repo:     repo,
		users:    users,
		resolver: resolver,
		feed:     feed,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *gradeService) SubmitGrade(ctx context.Context, caller entity.Identity, assignmentID uint, req dto.SubmitGradeRequest) (*entity.Grade, error) {
	chain, err := s.resolver.Assignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := chain.Authorize(caller, policy.SubmitGrade); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.users.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.Role != entity.RoleStudent {
		return nil, apperror.Validation("student_id must reference a student")
	}

	if req.Score != nil {
		if *req.Score < 0 {
			return nil, apperror.Validation("score cannot be negative")
		}
		if limit := chain.Assignment.MaxScore; limit != nil && *req.Score > *limit {
			return nil, apperror.Validation(fmt.Sprintf("score cannot exceed max_score (%d)", *limit))
		}
	}

	grade := &entity.Grade{
		StudentID:      student.ID,
		AssignmentID:   assignmentID,
		Score:          req.Score,
		Feedback:       req.Feedback,
		SubmissionDate: s.now(),
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, err
	}

	if s.feed != nil {
		if err := s.feed.Publish(ctx, grade); err != nil {
			s.log.Warn().Err(err).Uint("grade_id", grade.ID).Msg("failed to publish grade")
		}
	}
	return grade, nil
}

func (s *gradeService) GetGradesForStudent(ctx context.Context, caller entity.Identity, studentID uint) ([]*entity.Grade, error) {
	if err := policy.Authorize(caller, policy.ViewGrades, policy.Resource{SubjectID: studentID}); err != nil {
		return nil, err
	}
	return s.repo.FindByStudentID(ctx, studentID)
}

func (s *gradeService) WatchGrades(ctx context.Context, caller entity.Identity, studentID uint) (<-chan []byte, func() error, error) {
	if err := policy.Authorize(caller, policy.ViewGrades, policy.Resource{SubjectID: studentID}); err != nil {
		return nil, nil, err
	}
	if s.feed == nil {
		return nil, nil, apperror.New(http.StatusServiceUnavailable, "Grade stream is not available", nil)
	}
	return s.feed.Subscribe(ctx, studentID)
}
