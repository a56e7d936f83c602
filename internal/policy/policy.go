// Package policy decides whether a caller may perform an action on a resource.
// Decisions are pure: they look only at the caller's claim and the ownership ids passed in.
package policy

import (
	"fmt"
	"net/http"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/apperror"
)

type Action int

const (
	CreateCourse Action = iota + 1
	ModifyCourse
	DeleteCourse
	CreateAssignment
	ModifyAssignment
	DeleteAssignment
	SubmitGrade
	ViewGrades
	ViewProfile
	ModifyProfile
	ChangeRole
	CreateUser
	DeleteUser
)

// Actions lists every action the table knows about.
var Actions = []Action{
	CreateCourse, ModifyCourse, DeleteCourse,
	CreateAssignment, ModifyAssignment, DeleteAssignment,
	SubmitGrade, ViewGrades,
	ViewProfile, ModifyProfile, ChangeRole,
	CreateUser, DeleteUser,
}

var actionNames = map[Action]string{
	CreateCourse:     "create course",
	ModifyCourse:     "modify course",
	DeleteCourse:     "delete course",
	CreateAssignment: "create assignment",
	ModifyAssignment: "modify assignment",
	DeleteAssignment: "delete assignment",
	SubmitGrade:      "submit grade",
	ViewGrades:       "view grades",
	ViewProfile:      "view profile",
	ModifyProfile:    "modify profile",
	ChangeRole:       "change role",
	CreateUser:       "create user",
	DeleteUser:       "delete user",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Resource carries the ownership facts a rule may need.
// TeacherID is the owning teacher of a course (directly or through the parent chain);
// SubjectID is the user a grade list or profile belongs to.
type Resource struct {
	TeacherID uint
	SubjectID uint
}

// ErrPermissionDenied is returned by Authorize on deny.
var ErrPermissionDenied = apperror.New(http.StatusForbidden, "Permission denied", apperror.ErrForbidden)

type rule func(caller entity.Identity, res Resource) bool

var table = map[Action]rule{
	CreateCourse:     roles(entity.RoleTeacher, entity.RoleAdmin),
	ModifyCourse:     adminOrOwningTeacher,
	DeleteCourse:     adminOrOwningTeacher,
	CreateAssignment: adminOrOwningTeacher,
	ModifyAssignment: adminOrOwningTeacher,
	DeleteAssignment: adminOrOwningTeacher,
	SubmitGrade:      adminOrOwningTeacher,
	ViewGrades:       viewGrades,
	ViewProfile:      adminOrSelf,
	ModifyProfile:    adminOrSelf,
	ChangeRole:       roles(entity.RoleAdmin),
	CreateUser:       roles(entity.RoleAdmin),
	DeleteUser:       roles(entity.RoleAdmin),
}

// Decide evaluates the permission table. Unknown actions and unknown roles deny.
func Decide(caller entity.Identity, action Action, res Resource) bool {
	if caller.ID == 0 || !caller.Role.Valid() {
		return false
	}
	r, ok := table[action]
	if !ok {
		return false
	}
	return r(caller, res)
}

// Authorize is Decide with a typed failure.
func Authorize(caller entity.Identity, action Action, res Resource) error {
	if Decide(caller, action, res) {
		return nil
	}
	return ErrPermissionDenied
}

func roles(allowed ...entity.Role) rule {
	return func(caller entity.Identity, _ Resource) bool {
		for _, r := range allowed {
			if caller.Role == r {
				return true
			}
		}
		return false
	}
}

func adminOrOwningTeacher(caller entity.Identity, res Resource) bool {
	switch caller.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleTeacher:
		return res.TeacherID != 0 && caller.ID == res.TeacherID
	}
	return false
}

func viewGrades(caller entity.Identity, res Resource) bool {
	switch caller.Role {
	case entity.RoleAdmin, entity.RoleTeacher:
		return true
	case entity.RoleStudent:
		return caller.ID == res.SubjectID
	}
	return false
}

func adminOrSelf(caller entity.Identity, res Resource) bool {
	return caller.IsAdmin() || caller.ID == res.SubjectID
}
