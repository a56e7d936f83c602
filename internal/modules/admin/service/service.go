package service

import (
	"context"
	"errors"
	"net/http"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/admin/dto"
	courseRepo "campuscrafter.id/academy/internal/modules/course/repository"
	userDto "campuscrafter.id/academy/internal/modules/user/dto"
	userRepo "campuscrafter.id/academy/internal/modules/user/repository"
	auth "campuscrafter.id/academy/internal/modules/user/service"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/storage"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
	ErrTeachesCourses = apperror.New(http.StatusConflict, "User still teaches courses; reassign or delete them first", apperror.ErrConflict)
)

// AdminService is user management on behalf of an administrator.
type AdminService interface {
	CreateUser(ctx context.Context, caller entity.Identity, input dto.CreateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, caller entity.Identity, userID uint) error
}

type adminService struct {
	accounts     auth.AuthService
	users        userRepo.UserRepository
	courses      courseRepo.CourseRepository
	imageStorage storage.ImageStorage
	log          zerolog.Logger
}

func NewAdminService(accounts auth.AuthService, users userRepo.UserRepository, courses courseRepo.CourseRepository, imageStorage storage.ImageStorage, log zerolog.Logger) AdminService {
	return &adminService{
		accounts:     accounts,
		users:        users,
		courses:      courses,
		imageStorage: imageStorage,
		log:          log,
	}
}

// CreateUser may create any role, including admin.
func (s *adminService) CreateUser(ctx context.Context, caller entity.Identity, input dto.CreateUserInput) (*entity.User, error) {
	if err := policy.Authorize(caller, policy.CreateUser, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.accounts.CreateAccount(ctx, userDto.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Bio:      input.Bio,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("admin_id", caller.ID).Uint("user_id", user.ID).Msg("user created by admin")
	return user, nil
}

// DeleteUser removes the profile and the grades recorded for it. Teachers who still own
// courses are refused.
func (s *adminService) DeleteUser(ctx context.Context, caller entity.Identity, userID uint) error {
	if err := policy.Authorize(caller, policy.DeleteUser, policy.Resource{SubjectID: userID}); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	owned, err := s.courses.CountByTeacher(ctx, userID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return ErrTeachesCourses
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if user.ProfilePicture != nil && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *user.ProfilePicture); err != nil {
			s.log.Warn().Err(err).Uint("user_id", userID).Msg("failed to delete profile picture")
		}
	}

	s.log.Info().Uint("admin_id", caller.ID).Uint("user_id", userID).Msg("user deleted by admin")
	return nil
}
