package dto

import (
	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/timefmt"
)

// UserResponse is the public shape of a UserProfile. It never carries the password hash.
type UserResponse struct {
	ID             uint        `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           entity.Role `json:"role"`
	DateJoined     string      `json:"date_joined"`
	LastLogin      *string     `json:"last_login"`
	ProfilePicture *string     `json:"profile_picture"`
	Bio            *string     `json:"bio"`
}

type CourseResponse struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	TeacherID       uint    `json:"teacher_id"`
	StartDate       string  `json:"start_date"`
	Credits         *int    `json:"credits"`
	EnrollmentLimit *int    `json:"enrollment_limit"`
	Status          string  `json:"status"`
}

type AssignmentResponse struct {
	ID               uint    `json:"id"`
	CourseID         uint    `json:"course_id"`
	Title            string  `json:"title"`
	Content          *string `json:"content"`
	DueDate          string  `json:"due_date"`
	PostedDate       string  `json:"posted_date"`
	MaxScore         *int    `json:"max_score"`
	SubmissionFormat *string `json:"submission_format"`
}

type GradeResponse struct {
	ID             uint    `json:"id"`
	StudentID      uint    `json:"student_id"`
	AssignmentID   uint    `json:"assignment_id"`
	Score          *int    `json:"score"`
	Feedback       *string `json:"feedback"`
	SubmissionDate string  `json:"submission_date"`
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		DateJoined:     timefmt.FormatInstant(u.DateJoined),
		LastLogin:      timefmt.FormatInstantPtr(u.LastLogin),
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}

func NewCourseResponse(c *entity.Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		TeacherID:       c.TeacherID,
		StartDate:       timefmt.FormatDate(c.StartDate),
		Credits:         c.Credits,
		EnrollmentLimit: c.EnrollmentLimit,
		Status:          c.Status,
	}
}

func NewAssignmentResponse(a *entity.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:               a.ID,
		CourseID:         a.CourseID,
		Title:            a.Title,
		Content:          a.Content,
		DueDate:          timefmt.FormatInstant(a.DueDate),
		PostedDate:       timefmt.FormatInstant(a.PostedDate),
		MaxScore:         a.MaxScore,
		SubmissionFormat: a.SubmissionFormat,
	}
}

func NewGradeResponse(g *entity.Grade) GradeResponse {
	return GradeResponse{
		ID:             g.ID,
		StudentID:      g.StudentID,
		AssignmentID:   g.AssignmentID,
		Score:          g.Score,
		Feedback:       g.Feedback,
		SubmissionDate: timefmt.FormatInstant(g.SubmissionDate),
	}
}

// MessageResponse pairs a human message with the affected representation.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
