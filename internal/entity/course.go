package entity

import "time"

const (
	CourseStatusActive   = "active"
	CourseStatusArchived = "archived"
	CourseStatusDraft    = "draft"
)

type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     *string   `gorm:"type:text" json:"description"`
	TeacherID       uint      `gorm:"not null;index" json:"teacher_id"`
	Teacher         *User     `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StartDate       time.Time `gorm:"not null" json:"start_date"`
	Credits         *int      `json:"credits"`
	EnrollmentLimit *int      `json:"enrollment_limit"`
	Status          string    `gorm:"size:50;default:active" json:"status"`
}

func (c *Course) TableName() string {
	return "courses"
}

type Assignment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Content          *string   `gorm:"type:text" json:"content"`
	DueDate          time.Time `gorm:"not null" json:"due_date"`
	CourseID         uint      `gorm:"not null;index" json:"course_id"`
	Course           *Course   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	PostedDate       time.Time `gorm:"not null" json:"posted_date"`
	MaxScore         *int      `json:"max_score"`
	SubmissionFormat *string   `gorm:"size:50" json:"submission_format"`
}

func (a *Assignment) TableName() string {
	return "assignments"
}

// Grade is append-only from the API's point of view.
type Grade struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	StudentID      uint        `gorm:"not null;index" json:"student_id"`
	Student        *User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	AssignmentID   uint        `gorm:"not null;index" json:"assignment_id"`
	Assignment     *Assignment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score          *int        `json:"score"`
	Feedback       *string     `gorm:"type:text" json:"feedback"`
	SubmissionDate time.Time   `gorm:"not null" json:"submission_date"`
}

func (g *Grade) TableName() string {
	return "grades"
}
