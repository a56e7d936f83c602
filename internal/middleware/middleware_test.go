package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Recovery())
	r.GET("/whoami", NewAuthMiddleware(tokens).RequireAuth(), func(c *gin.Context) {
		identity, err := response.GetIdentity(c)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
		c.String(http.StatusOK, "%d:%s", identity.ID, identity.Role)
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	token, _, err := tokens.Issue(entity.Identity{ID: 7, Email: "t@school.test", Role: entity.RoleTeacher})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	foreign, _, _ := auth.NewTokenManager("other", time.Hour).Issue(entity.Identity{ID: 7, Role: entity.RoleAdmin})

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "bearer header", header: "Bearer " + token, status: http.StatusOK, body: "7:teacher"},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK, body: "7:teacher"},
		{name: "query fallback", query: token, status: http.StatusOK, body: "7:teacher"},
		{name: "missing", status: http.StatusUnauthorized, body: "Authorization required"},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + foreign, status: http.StatusUnauthorized, body: "Invalid or expired token"},
	}

	r := newRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/whoami"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected body to contain %q, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newRouter(auth.NewTokenManager("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRecoveryHidesPanics(t *testing.T) {
	r := newRouter(auth.NewTokenManager("secret", time.Hour))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") || strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
