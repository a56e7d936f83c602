package dto

type CreateAssignmentRequest struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Content          *string `json:"content"`
	DueDate          string  `json:"due_date" validate:"required"`
	MaxScore         *int    `json:"max_score" validate:"omitempty,min=0"`
	SubmissionFormat *string `json:"submission_format" validate:"omitempty,max=50"`
}

// UpdateAssignmentRequest is a merge patch: nil fields keep their stored value.
type UpdateAssignmentRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content          *string `json:"content"`
	DueDate          *string `json:"due_date"`
	MaxScore         *int    `json:"max_score" validate:"omitempty,min=0"`
	SubmissionFormat *string `json:"submission_format" validate:"omitempty,max=50"`
}
