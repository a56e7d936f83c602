package dto

type SubmitGradeRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Score     *int    `json:"score" validate:"omitempty,min=0"`
	Feedback  *string `json:"feedback"`
}
