package dto

import "io"

// UpdateProfileInput is a merge patch over the caller's (or, for admins, any) profile.
type UpdateProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Bio      *string `json:"bio"`
	Role     *string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

// PictureFile is an uploaded profile picture.
type PictureFile struct {
	Reader   io.Reader
	FileName string
}
