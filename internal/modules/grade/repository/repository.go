package repository

import (
	"context"

	"campuscrafter.id/academy/internal/entity"
	"gorm.io/gorm"
)

type GradeRepository interface {
	Create(ctx context.Context, grade *entity.Grade) error
	FindByStudentID(ctx context.Context, studentID uint) ([]*entity.Grade, error)
}

type gradeRepository struct {
	db *gorm.DB
}

func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Create(ctx context.Context, grade *entity.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepository) FindByStudentID(ctx context.Context, studentID uint) ([]*entity.Grade, error) {
	var grades []*entity.Grade
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submission_date ASC").
		Order("id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}
