package repository

import (
	"context"

	"campuscrafter.id/academy/internal/entity"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	FindAll(ctx context.Context) ([]*entity.Course, error)
	FindByID(ctx context.Context, id uint) (*entity.Course, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Course, error)
	Search(ctx context.Context, query string) ([]*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id uint) error
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindAll(ctx context.Context) ([]*entity.Course, error) {
	var courses []*entity.Course
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs keeps the order of ids, skipping ids that no longer exist.
func (r *courseRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Course, error) {
	if len(ids) == 0 {
		return []*entity.Course{}, nil
	}

	var courses []*entity.Course
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*entity.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	ordered := make([]*entity.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *courseRepository) Search(ctx context.Context, query string) ([]*entity.Course, error) {
	var courses []*entity.Course
	like := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR description ILIKE ?", like, like).
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete removes the course; assignments and their grades follow through ON DELETE CASCADE.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Course{}, id).Error
}

func (r *courseRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Course{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
