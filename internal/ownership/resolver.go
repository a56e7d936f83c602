// Package ownership walks the parent chain of a course-owned resource and reports who owns it.
package ownership

import (
	"context"
	"errors"
	"net/http"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/policy"
	"campuscrafter.id/academy/pkg/apperror"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound     = apperror.New(http.StatusNotFound, "Course not found", apperror.ErrNotFound)
	ErrAssignmentNotFound = apperror.New(http.StatusNotFound, "Assignment not found", apperror.ErrNotFound)
)

type CourseFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Course, error)
}

type AssignmentFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Assignment, error)
}

// Chain is a fully resolved ownership path. Assignment is nil when the chain starts at a course.
type Chain struct {
	Course     *entity.Course
	Assignment *entity.Assignment
}

func (c Chain) TeacherID() uint {
	if c.Course == nil {
		return 0
	}
	return c.Course.TeacherID
}

// Resource is the policy input for this chain.
func (c Chain) Resource() policy.Resource {
	return policy.Resource{TeacherID: c.TeacherID()}
}

type Resolver struct {
	courses     CourseFinder
	assignments AssignmentFinder
}

func NewResolver(courses CourseFinder, assignments AssignmentFinder) *Resolver {
	return &Resolver{courses: courses, assignments: assignments}
}

// Course resolves course -> teacher.
func (r *Resolver) Course(ctx context.Context, courseID uint) (Chain, error) {
	course, err := r.courses.FindByID(ctx, courseID)
	if err != nil {
		return Chain{}, notFound(err, ErrCourseNotFound)
	}
	return Chain{Course: course}, nil
}

// Assignment resolves assignment -> course -> teacher. A dangling course reference is NotFound.
func (r *Resolver) Assignment(ctx context.Context, assignmentID uint) (Chain, error) {
	assignment, err := r.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return Chain{}, notFound(err, ErrAssignmentNotFound)
	}

	chain, err := r.Course(ctx, assignment.CourseID)
	if err != nil {
		return Chain{}, err
	}
	chain.Assignment = assignment
	return chain, nil
}

// Authorize resolves nothing; it applies the policy to an already resolved chain.
func (c Chain) Authorize(caller entity.Identity, action policy.Action) error {
	return policy.Authorize(caller, action, c.Resource())
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
