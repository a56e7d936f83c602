package bootstrap

import (
	"context"
	"errors"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/user/dto"
	userRepo "campuscrafter.id/academy/internal/modules/user/repository"
	"campuscrafter.id/academy/internal/modules/user/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Course{},
		&entity.Assignment{},
		&entity.Grade{},
	)
}

// SeedAdminUser creates the bootstrap administrator when no account uses the email yet.
// An empty email disables seeding.
func SeedAdminUser(ctx context.Context, users userRepo.UserRepository, accounts service.AuthService, email, password string, log zerolog.Logger) error {
	if email == "" {
		return nil
	}
	if password == "" {
		return errors.New("seed admin password is empty")
	}

	email = service.NormalizeEmail(email)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Info().Str("email", email).Msg("admin user already exists, skipping seed")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin, err := accounts.CreateAccount(ctx, dto.RegisterInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     string(entity.RoleAdmin),
	})
	if err != nil {
		return err
	}

	log.Info().Uint("user_id", admin.ID).Str("email", email).Msg("admin user seeded")
	return nil
}
