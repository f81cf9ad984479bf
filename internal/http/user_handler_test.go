package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/service"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := &memUserRepo{users: map[string]domain.User{}}
	jwtServ := service.NewJWTService("test-secret", time.Hour)
	userServ := service.NewUserService(logger, users)
	handler := NewUserHandler(logger, userServ, jwtServ)

	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.GET("/me", JWTAuthMiddleware(jwtServ), handler.Me)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	r := setupAuthRouter(t)

	rec := postJSON(t, r, "/auth/register", gin.H{
		"name":      "Ana Dev",
		"email":     "Ana@Example.com",
		"password":  "secreta123",
		"user_type": "developer",
		"title":     "Backend Dev",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var registered struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatal(err)
	}
	if registered.Token == "" || registered.User.ID == "" {
		t.Fatalf("expected user and token, got %+v", registered)
	}
	if registered.User.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", registered.User.Email)
	}

	// Email duplicado.
	rec = postJSON(t, r, "/auth/register", gin.H{
		"name": "Otra", "email": "ana@example.com", "password": "x12345", "user_type": "developer",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}

	// Login con credenciales correctas e incorrectas.
	rec = postJSON(t, r, "/auth/login", gin.H{"email": "ana@example.com", "password": "secreta123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var logged struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &logged); err != nil {
		t.Fatal(err)
	}

	rec = postJSON(t, r, "/auth/login", gin.H{"email": "ana@example.com", "password": "mala"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	// El token de login identifica al usuario en /auth/me.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+logged.Token)
	recMe := httptest.NewRecorder()
	r.ServeHTTP(recMe, req)
	if recMe.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recMe.Code)
	}
	var me struct {
		User domain.User `json:"user"`
	}
	if err := json.Unmarshal(recMe.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.User.ID != registered.User.ID {
		t.Fatalf("expected same user, got %+v", me.User)
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	r := setupAuthRouter(t)

	cases := []gin.H{
		{"email": "a@b.com", "password": "x12345", "user_type": "developer"},              // sin nombre
		{"name": "Ana", "password": "x12345", "user_type": "developer"},                   // sin email
		{"name": "Ana", "email": "no-es-email", "password": "x", "user_type": "developer"}, // email invalido
		{"name": "Ana", "email": "a@b.com", "password": "x12345", "user_type": "bot"},     // tipo invalido
	}
	for i, body := range cases {
		rec := postJSON(t, r, "/auth/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rec.Code)
		}
	}
}

func TestAuth_MeWithoutToken(t *testing.T) {
	r := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer basura")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}
