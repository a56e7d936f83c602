package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/internal/config"
	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/testutil/memstore"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t *testing.T
	h http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := store.Users().Create(context.Background(), &entity.User{
		Name: "Administrator", Email: "admin@school.test", PasswordHash: string(hash), Role: entity.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	srv := NewServer(Options{
		Config: &config.Config{BcryptCost: bcrypt.MinCost, AllowedOrigins: []string{"*"}},
		Logger: zerolog.Nop(),
		Repos: Repositories{
			Users:       store.Users(),
			Courses:     store.Courses(),
			Assignments: store.Assignments(),
			Grades:      store.Grades(),
		},
		Tokens: auth.NewTokenManager("test-secret", time.Hour),
	})

	return &testServer{t: t, h: srv.Handler()}
}

func (s *testServer) do(method, path, token string, body any) (int, []byte) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *testServer) expect(method, path, token string, body any, status int) map[string]any {
	s.t.Helper()
	code, raw := s.do(method, path, token, body)
	if code != status {
		s.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, code, raw)
	}
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			s.t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return out
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	body := s.expect(http.MethodPost, "/login", "", map[string]string{"email": email, "password": password}, http.StatusOK)
	token, _ := body["access_token"].(string)
	if token == "" {
		s.t.Fatalf("login %s: no token in %v", email, body)
	}
	return token
}

func (s *testServer) createUser(adminToken, name, email, role string) uint {
	s.t.Helper()
	body := s.expect(http.MethodPost, "/api/users", adminToken, map[string]string{
		"name": name, "email": email, "password": "password1", "role": role,
	}, http.StatusCreated)
	return uint(body["user_id"].(float64))
}

func TestGradebookScenario(t *testing.T) {
	s := newTestServer(t)

	admin := s.login("admin@school.test", "admin123")
	s.createUser(admin, "Tina Teacher", "tina@school.test", "teacher")
	s.createUser(admin, "Otto Teacher", "otto@school.test", "teacher")
	s1 := s.createUser(admin, "Sam Student", "sam@school.test", "student")
	s2 := s.createUser(admin, "Sue Student", "sue@school.test", "student")

	teacher := s.login("tina@school.test", "password1")
	otherTeacher := s.login("otto@school.test", "password1")
	student1 := s.login("sam@school.test", "password1")
	student2 := s.login("sue@school.test", "password1")

	course := s.expect(http.MethodPost, "/api/courses", teacher, map[string]any{
		"title": "Chemistry", "description": "Atoms", "start_date": "2024-01-15", "credits": 4,
	}, http.StatusCreated)
	courseID := uint(course["course_id"].(float64))

	assignment := s.expect(http.MethodPost, fmt.Sprintf("/api/courses/%d/assignments", courseID), teacher, map[string]any{
		"title": "Lab 1", "due_date": "2024-02-01T23:59:00.000Z", "max_score": 100,
	}, http.StatusCreated)
	assignmentID := uint(assignment["assignment_id"].(float64))

	s.expect(http.MethodPost, fmt.Sprintf("/api/assignments/%d/grades", assignmentID), otherTeacher, map[string]any{
		"student_id": s1, "score": 10,
	}, http.StatusForbidden)
	s.expect(http.MethodPost, fmt.Sprintf("/api/assignments/%d/grades", assignmentID), teacher, map[string]any{
		"student_id": s1, "score": 95,
	}, http.StatusCreated)

	code, raw := s.do(http.MethodGet, fmt.Sprintf("/api/students/%d/grades", s1), student1, nil)
	if code != http.StatusOK {
		t.Fatalf("student reads own grades: %d %s", code, raw)
	}
	var grades []map[string]any
	if err := json.Unmarshal(raw, &grades); err != nil {
		t.Fatalf("decode grades: %v", err)
	}
	if len(grades) != 1 || grades[0]["score"].(float64) != 95 || uint(grades[0]["assignment_id"].(float64)) != assignmentID {
		t.Fatalf("unexpected grades %s", raw)
	}

	s.expect(http.MethodGet, fmt.Sprintf("/api/students/%d/grades", s1), student2, nil, http.StatusForbidden)
	s.expect(http.MethodGet, fmt.Sprintf("/api/students/%d/grades", s2), student2, nil, http.StatusOK)
}

func TestCourseOwnershipAndMergePatch(t *testing.T) {
	s := newTestServer(t)

	admin := s.login("admin@school.test", "admin123")
	s.createUser(admin, "Tina", "tina@school.test", "teacher")
	s.createUser(admin, "Otto", "otto@school.test", "teacher")
	teacher := s.login("tina@school.test", "password1")
	other := s.login("otto@school.test", "password1")

	created := s.expect(http.MethodPost, "/api/courses", teacher, map[string]any{
		"title": "Biology", "description": "Cells", "start_date": "2024-03-01",
	}, http.StatusCreated)
	path := fmt.Sprintf("/api/courses/%d", uint(created["course_id"].(float64)))

	s.expect(http.MethodPut, path, other, map[string]any{"title": "Stolen"}, http.StatusForbidden)
	s.expect(http.MethodDelete, path, other, nil, http.StatusForbidden)

	updated := s.expect(http.MethodPut, path, teacher, map[string]any{"title": "Biology I"}, http.StatusOK)
	data := updated["data"].(map[string]any)
	if data["title"] != "Biology I" || data["description"] != "Cells" || data["start_date"] != "2024-03-01T00:00:00" || data["status"] != "active" {
		t.Fatalf("unexpected merge result %v", data)
	}

	got := s.expect(http.MethodGet, path, other, nil, http.StatusOK)
	if got["title"] != "Biology I" {
		t.Fatalf("expected persisted title, got %v", got)
	}

	s.expect(http.MethodDelete, path, admin, nil, http.StatusOK)
	s.expect(http.MethodGet, path, teacher, nil, http.StatusNotFound)
}

func TestRegistrationAndAuthErrors(t *testing.T) {
	s := newTestServer(t)

	s.expect(http.MethodPost, "/register", "", map[string]string{"name": "Sam", "email": "sam@school.test", "password": "pw"}, http.StatusCreated)
	dup := s.expect(http.MethodPost, "/register", "", map[string]string{"name": "Sam", "email": "SAM@school.test", "password": "pw"}, http.StatusBadRequest)
	if dup["message"] != "Email address is already registered" {
		t.Fatalf("unexpected duplicate message %v", dup)
	}

	s.expect(http.MethodPost, "/register", "", map[string]string{"name": "Eve", "email": "eve@school.test", "password": "pw", "role": "admin"}, http.StatusForbidden)
	s.expect(http.MethodPost, "/register", "", map[string]string{"name": "Eve", "email": "eve@school.test", "password": "pw", "role": "user"}, http.StatusBadRequest)
	s.expect(http.MethodPost, "/register", "", map[string]string{"email": "x@school.test"}, http.StatusBadRequest)

	bad := s.expect(http.MethodPost, "/login", "", map[string]string{"email": "sam@school.test", "password": "wrong"}, http.StatusUnauthorized)
	if bad["message"] != "Invalid email or password" {
		t.Fatalf("unexpected login failure message %v", bad)
	}

	s.expect(http.MethodGet, "/api/courses", "", nil, http.StatusUnauthorized)
	s.expect(http.MethodGet, "/api/courses", "not-a-token", nil, http.StatusUnauthorized)

	token := s.login("sam@school.test", "pw")
	s.expect(http.MethodPost, "/api/courses", token, map[string]any{"title": "x", "start_date": "2024-01-01"}, http.StatusForbidden)

	code, raw := s.do(http.MethodGet, "/api/courses", token, nil)
	if code != http.StatusOK || string(raw) != "[]" {
		t.Fatalf("expected empty course list, got %d %s", code, raw)
	}

	me := s.expect(http.MethodGet, "/api/users/2", token, nil, http.StatusOK)
	if _, leaked := me["password"]; leaked {
		t.Fatal("password hash must never be serialised")
	}
	if me["last_login"] == nil {
		t.Fatal("last_login should be set after login")
	}
	s.expect(http.MethodGet, "/api/users/1", token, nil, http.StatusForbidden)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@school.test", "admin123")

	s.expect(http.MethodPost, "/api/courses", admin, map[string]any{"title": "x", "start_date": "01/02/2024"}, http.StatusBadRequest)
	s.expect(http.MethodPost, "/api/courses", admin, map[string]any{"start_date": "2024-01-02"}, http.StatusBadRequest)
	s.expect(http.MethodGet, "/api/courses/abc", admin, nil, http.StatusBadRequest)
	s.expect(http.MethodGet, "/api/courses/42/assignments", admin, nil, http.StatusNotFound)

	created := s.expect(http.MethodPost, "/api/courses", admin, map[string]any{"title": "x", "start_date": "2024-01-02"}, http.StatusCreated)
	path := fmt.Sprintf("/api/courses/%d/assignments", uint(created["course_id"].(float64)))
	s.expect(http.MethodPost, path, admin, map[string]any{"title": "hw", "due_date": "2024-02-01"}, http.StatusBadRequest)
}

func TestAdminDeleteUser(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@school.test", "admin123")
	teacherID := s.createUser(admin, "Tina", "tina@school.test", "teacher")
	studentID := s.createUser(admin, "Sam", "sam@school.test", "student")

	teacher := s.login("tina@school.test", "password1")
	s.expect(http.MethodPost, "/api/courses", teacher, map[string]any{"title": "x", "start_date": "2024-01-02"}, http.StatusCreated)

	s.expect(http.MethodDelete, fmt.Sprintf("/api/users/%d", studentID), teacher, nil, http.StatusForbidden)
	s.expect(http.MethodDelete, fmt.Sprintf("/api/users/%d", teacherID), admin, nil, http.StatusConflict)
	s.expect(http.MethodDelete, fmt.Sprintf("/api/users/%d", studentID), admin, nil, http.StatusOK)
	s.expect(http.MethodGet, fmt.Sprintf("/api/users/%d", studentID), admin, nil, http.StatusNotFound)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	s.expect(http.MethodGet, "/healthz", "", nil, http.StatusOK)
}

func TestPermissionAndLookupComeBeforeBodyChecks(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@school.test", "admin123")
	s.createUser(admin, "Tina", "tina@school.test", "teacher")
	s.createUser(admin, "Otto", "otto@school.test", "teacher")
	s.createUser(admin, "Sam", "sam@school.test", "student")
	teacher := s.login("tina@school.test", "password1")
	other := s.login("otto@school.test", "password1")
	student := s.login("sam@school.test", "password1")

	created := s.expect(http.MethodPost, "/api/courses", teacher, map[string]any{"title": "Physics", "start_date": "2024-01-02"}, http.StatusCreated)
	coursePath := fmt.Sprintf("/api/courses/%d", uint(created["course_id"].(float64)))

	s.expect(http.MethodPost, "/api/courses", student, map[string]any{"description": "no title"}, http.StatusForbidden)
	s.expect(http.MethodPost, "/api/courses", student, nil, http.StatusForbidden)
	s.expect(http.MethodPut, "/api/courses/999", student, map[string]any{"title": ""}, http.StatusNotFound)
	s.expect(http.MethodPut, coursePath, other, map[string]any{"title": "", "start_date": "soon"}, http.StatusForbidden)
	s.expect(http.MethodPost, "/api/courses/999/assignments", student, map[string]any{}, http.StatusNotFound)
	s.expect(http.MethodPost, coursePath+"/assignments", student, map[string]any{"due_date": "tomorrow"}, http.StatusForbidden)
	s.expect(http.MethodPost, "/api/assignments/999/grades", student, map[string]any{}, http.StatusNotFound)
	s.expect(http.MethodPut, "/api/assignments/999", teacher, map[string]any{"title": ""}, http.StatusNotFound)
	s.expect(http.MethodPost, "/api/users", student, map[string]any{"email": "bad"}, http.StatusForbidden)
	s.expect(http.MethodPut, "/api/users/1", student, map[string]any{"email": "bad"}, http.StatusForbidden)

	bad := s.expect(http.MethodPut, coursePath, teacher, map[string]any{"title": ""}, http.StatusBadRequest)
	if bad["message"] == nil {
		t.Fatalf("expected a validation message, got %v", bad)
	}
	s.expect(http.MethodPost, "/api/courses", teacher, map[string]any{"description": "no title"}, http.StatusBadRequest)
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	s := newTestServer(t)
	body := s.expect(http.MethodPost, "/register", "", map[string]string{"name": "Sam", "email": "not-an-email", "password": "pw"}, http.StatusBadRequest)
	if body["message"] != "email must be a valid email address" {
		t.Fatalf("unexpected message %v", body)
	}
}
