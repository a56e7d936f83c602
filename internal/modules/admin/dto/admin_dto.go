package dto

type CreateUserInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Role     string  `json:"role" validate:"omitempty,oneof=student teacher admin"`
	Bio      *string `json:"bio"`
}
