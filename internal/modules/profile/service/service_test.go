package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"campuscrafter.id/academy/internal/entity"
	profileDto "campuscrafter.id/academy/internal/modules/profile/dto"
	"campuscrafter.id/academy/internal/testutil/memstore"
	"campuscrafter.id/academy/pkg/apperror"
	"github.com/rs/zerolog"
)

type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + fileName
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) DeleteImage(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fixture struct {
	store   *memstore.Store
	svc     ProfileService
	images  *fakeStorage
	student entity.Identity
	other   entity.Identity
	admin   entity.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	bio := "Likes maths"

	mk := func(name, email string, role entity.Role) entity.Identity {
		u := &entity.User{Name: name, Email: email, PasswordHash: "hashed:secret", Role: role, Bio: &bio}
		if err := store.Users().Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		return u.Identity()
	}

	images := &fakeStorage{}
	return &fixture{
		store:   store,
		images:  images,
		svc:     NewProfileService(store.Users(), plainHasher{}, images, zerolog.Nop()),
		student: mk("Sam", "sam@school.test", entity.RoleStudent),
		other:   mk("Olive", "olive@school.test", entity.RoleStudent),
		admin:   mk("Ada", "ada@school.test", entity.RoleAdmin),
	}
}

func strp(s string) *string { return &s }

func TestGetProfileSelfAndAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetProfile(ctx, f.student, f.student.ID); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if _, err := f.svc.GetProfile(ctx, f.admin, f.student.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := f.svc.GetProfile(ctx, f.other, f.student.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.svc.GetProfile(ctx, f.admin, 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileMergePatch(t *testing.T) {
	f := newFixture(t)

	updated, err := f.svc.UpdateProfile(context.Background(), f.student, f.student.ID, profileDto.UpdateProfileInput{Name: strp("Samuel")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Samuel" {
		t.Fatalf("expected new name, got %q", updated.Name)
	}
	if updated.Email != "sam@school.test" || updated.Bio == nil || *updated.Bio != "Likes maths" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.PasswordHash != "hashed:secret" {
		t.Fatalf("password should be unchanged")
	}
}

func TestUpdateProfilePasswordIsHashed(t *testing.T) {
	f := newFixture(t)

	updated, err := f.svc.UpdateProfile(context.Background(), f.student, f.student.ID, profileDto.UpdateProfileInput{Password: strp("newpassword")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PasswordHash != "hashed:newpassword" {
		t.Fatalf("expected hashed password, got %q", updated.PasswordHash)
	}
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateProfile(context.Background(), f.student, f.student.ID, profileDto.UpdateProfileInput{Email: strp("Olive@School.test")})
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestUpdateProfileRoleChangeAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, f.student, f.student.ID, profileDto.UpdateProfileInput{Role: strp("teacher")})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected self role change to be forbidden, got %v", err)
	}

	// Re-sending the current role is not a change.
	if _, err := f.svc.UpdateProfile(ctx, f.student, f.student.ID, profileDto.UpdateProfileInput{Role: strp("student")}); err != nil {
		t.Fatalf("same role: %v", err)
	}

	updated, err := f.svc.UpdateProfile(ctx, f.admin, f.student.ID, profileDto.UpdateProfileInput{Role: strp("teacher")})
	if err != nil {
		t.Fatalf("admin role change: %v", err)
	}
	if updated.Role != entity.RoleTeacher {
		t.Fatalf("expected teacher, got %s", updated.Role)
	}
}

func TestUpdateProfileOtherUserDenied(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateProfile(context.Background(), f.other, f.student.ID, profileDto.UpdateProfileInput{Name: strp("x")})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUploadProfilePictureReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UploadProfilePicture(ctx, f.student, f.student.ID, profileDto.PictureFile{Reader: strings.NewReader("img"), FileName: "me.png"})
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if first.ProfilePicture == nil {
		t.Fatal("expected picture url")
	}
	firstURL := *first.ProfilePicture

	if _, err := f.svc.UploadProfilePicture(ctx, f.student, f.student.ID, profileDto.PictureFile{Reader: strings.NewReader("img2"), FileName: "me2.jpg"}); err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if len(f.images.deleted) != 1 || f.images.deleted[0] != firstURL {
		t.Fatalf("expected previous picture to be deleted, got %v", f.images.deleted)
	}
}

func TestUploadProfilePictureRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UploadProfilePicture(context.Background(), f.student, f.student.ID, profileDto.PictureFile{Reader: strings.NewReader("x"), FileName: "notes.txt"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
