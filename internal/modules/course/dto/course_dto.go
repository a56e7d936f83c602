package dto

type CreateCourseRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     *string `json:"description"`
	StartDate       string  `json:"start_date" validate:"required"`
	Credits         *int    `json:"credits" validate:"omitempty,min=0"`
	EnrollmentLimit *int    `json:"enrollment_limit" validate:"omitempty,min=0"`
	Status          *string `json:"status" validate:"omitempty,oneof=active archived draft"`
}

// UpdateCourseRequest is a merge patch: nil fields keep their stored value.
type UpdateCourseRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description"`
	StartDate       *string `json:"start_date"`
	Credits         *int    `json:"credits" validate:"omitempty,min=0"`
	EnrollmentLimit *int    `json:"enrollment_limit" validate:"omitempty,min=0"`
	Status          *string `json:"status" validate:"omitempty,oneof=active archived draft"`
}

type SearchCoursesQuery struct {
	Query string `form:"q"`
}
