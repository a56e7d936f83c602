// Package memstore is an in-memory implementation of every repository, used by tests.
// It reproduces the foreign-key behaviour of the real schema: deleting a course removes its
// assignments and their grades, deleting a user removes their grades, and deleting a user
// who still teaches a course fails.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/apperror"
	"gorm.io/gorm"
)

var ErrForeignKey = errors.New("memstore: foreign key violation")

type Store struct {
	mu          sync.Mutex
	nextID      uint
	users       map[uint]entity.User
	courses     map[uint]entity.Course
	assignments map[uint]entity.Assignment
	grades      map[uint]entity.Grade
}

func New() *Store {
	return &Store{
		users:       map[uint]entity.User{},
		courses:     map[uint]entity.Course{},
		assignments: map[uint]entity.Assignment{},
		grades:      map[uint]entity.Grade{},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *Users             { return &Users{s} }
func (s *Store) Courses() *Courses         { return &Courses{s} }
func (s *Store) Assignments() *Assignments { return &Assignments{s} }
func (s *Store) Grades() *Grades           { return &Grades{s} }

// GradeCount is a test helper.
func (s *Store) GradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grades)
}

// AssignmentCount is a test helper.
func (s *Store) AssignmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignments)
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperror.ErrDuplicateEmail
		}
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Users) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return apperror.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}

func (r *Users) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.courses {
		if c.TeacherID == id {
			return ErrForeignKey
		}
	}
	for gid, g := range r.s.grades {
		if g.StudentID == id {
			delete(r.s.grades, gid)
		}
	}
	delete(r.s.users, id)
	return nil
}

type Courses struct{ s *Store }

func (r *Courses) Create(_ context.Context, course *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[course.TeacherID]; !ok {
		return ErrForeignKey
	}
	course.ID = r.s.id()
	r.s.courses[course.ID] = *course
	return nil
}

func (r *Courses) FindAll(_ context.Context) ([]*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Courses) FindByID(_ context.Context, id uint) (*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *Courses) FindByIDs(_ context.Context, ids []uint) ([]*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.s.courses[id]; ok {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *Courses) Search(ctx context.Context, query string) ([]*entity.Course, error) {
	all, _ := r.FindAll(ctx)
	q := strings.ToLower(query)
	out := make([]*entity.Course, 0)
	for _, c := range all {
		desc := ""
		if c.Description != nil {
			desc = *c.Description
		}
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Courses) Update(_ context.Context, course *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.courses[course.ID] = *course
	return nil
}

func (r *Courses) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for aid, a := range r.s.assignments {
		if a.CourseID == id {
			r.s.deleteAssignmentLocked(aid)
		}
	}
	delete(r.s.courses, id)
	return nil
}

func (r *Courses) CountByTeacher(_ context.Context, teacherID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.courses {
		if c.TeacherID == teacherID {
			n++
		}
	}
	return n, nil
}

type Assignments struct{ s *Store }

func (r *Assignments) Create(_ context.Context, assignment *entity.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[assignment.CourseID]; !ok {
		return ErrForeignKey
	}
	assignment.ID = r.s.id()
	r.s.assignments[assignment.ID] = *assignment
	return nil
}

func (r *Assignments) FindByCourseID(_ context.Context, courseID uint) ([]*entity.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Assignment, 0)
	for _, a := range r.s.assignments {
		if a.CourseID == courseID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Assignments) FindByID(_ context.Context, id uint) (*entity.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *Assignments) Update(_ context.Context, assignment *entity.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.assignments[assignment.ID] = *assignment
	return nil
}

func (r *Assignments) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteAssignmentLocked(id)
	return nil
}

func (s *Store) deleteAssignmentLocked(id uint) {
	for gid, g := range s.grades {
		if g.AssignmentID == id {
			delete(s.grades, gid)
		}
	}
	delete(s.assignments, id)
}

// RemoveCourseOnly drops a course row without cascading, to simulate a dangling reference.
func (s *Store) RemoveCourseOnly(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, id)
}

type Grades struct{ s *Store }

func (r *Grades) Create(_ context.Context, grade *entity.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assignments[grade.AssignmentID]; !ok {
		return ErrForeignKey
	}
	if _, ok := r.s.users[grade.StudentID]; !ok {
		return ErrForeignKey
	}
	grade.ID = r.s.id()
	r.s.grades[grade.ID] = *grade
	return nil
}

func (r *Grades) FindByStudentID(_ context.Context, studentID uint) ([]*entity.Grade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Grade, 0)
	for _, g := range r.s.grades {
		if g.StudentID == studentID {
			g := g
			out = append(out, &g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
