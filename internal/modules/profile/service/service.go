package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campuscrafter.id/academy/internal/entity"
	profileDto "campuscrafter.id/academy/internal/modules/profile/dto"
	userRepo "campuscrafter.id/academy/internal/modules/user/repository"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/storage"
	"campuscrafter.id/academy/pkg/validator"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const picturesFolder = "profile_pictures"

var ErrUserNotFound = apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, caller entity.Identity, userID uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, caller entity.Identity, userID uint, input profileDto.UpdateProfileInput) (*entity.User, error)
	UploadProfilePicture(ctx context.Context, caller entity.Identity, userID uint, picture profileDto.PictureFile) (*entity.User, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	hasher       PasswordHasher
	imageStorage storage.ImageStorage
	log          zerolog.Logger
}

// NewProfileService wires the profile manager. imageStorage may be nil when uploads are disabled.
func NewProfileService(repo userRepo.UserRepository, hasher PasswordHasher, imageStorage storage.ImageStorage, log zerolog.Logger) ProfileService {
	return &profileService{
		repo:         repo,
		hasher:       hasher,
		imageStorage: imageStorage,
		log:          log,
	}
}

func (s *profileService) GetProfile(ctx context.Context, caller entity.Identity, userID uint) (*entity.User, error) {
	if err := policy.Authorize(caller, policy.ViewProfile, policy.Resource{SubjectID: userID}); err != nil {
		return nil, err
	}
	return s.find(ctx, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, caller entity.Identity, userID uint, input profileDto.UpdateProfileInput) (*entity.User, error) {
	if err := policy.Authorize(caller, policy.ModifyProfile, policy.Resource{SubjectID: userID}); err != nil {
		return nil, err
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && entity.Role(*input.Role) != user.Role {
		if err := policy.Authorize(caller, policy.ChangeRole, policy.Resource{SubjectID: userID}); err != nil {
			return nil, err
		}
		role := entity.Role(*input.Role)
		if !role.Valid() {
			return nil, apperror.Validation("role must be one of: student teacher admin")
		}
		user.Role = role
	}

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name cannot be empty")
		}
		user.Name = name
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperror.Validation("email cannot be empty")
		}
		if email != user.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, apperror.ErrDuplicateEmail
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}

	if input.Password != nil && *input.Password != "" {
		hashed, err := s.hasher.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if input.Bio != nil {
		user.Bio = normalizeOptional(input.Bio)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) UploadProfilePicture(ctx context.Context, caller entity.Identity, userID uint, picture profileDto.PictureFile) (*entity.User, error) {
	if err := policy.Authorize(caller, policy.ModifyProfile, policy.Resource{SubjectID: userID}); err != nil {
		return nil, err
	}
	if s.imageStorage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Picture uploads are not available", nil)
	}
	if picture.Reader == nil || !storage.IsImageFile(picture.FileName) {
		return nil, apperror.Validation("picture must be a jpg, jpeg, png, gif or webp image")
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.imageStorage.UploadImage(ctx, picture.Reader, picturesFolder, picture.FileName)
	if err != nil {
		return nil, err
	}

	previous := user.ProfilePicture
	user.ProfilePicture = &url
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if previous != nil && *previous != "" {
		if err := s.imageStorage.DeleteImage(ctx, *previous); err != nil {
			s.log.Warn().Err(err).Uint("user_id", userID).Msg("failed to delete previous profile picture")
		}
	}
	return user, nil
}

func (s *profileService) find(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
