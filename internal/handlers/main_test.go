package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the global connection at a fresh sqlite database for
// each test run.
func setupTestDB(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	db.DB = conn
	require.NoError(t, db.MigrateDatabase())
}

// setupRouter mirrors the production route table without the CORS layer.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	authenticated := middleware.AuthMiddleware()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", Register)
	authGroup.POST("/login", Login)
	authGroup.GET("/me", authenticated, Me)

	projects := api.Group("/projects")
	projects.GET("", authenticated, ListMyProjects)
	projects.GET("/all", ListAllProjects)
	projects.GET("/:id", GetProject)
	projects.POST("", authenticated, CreateProject)
	projects.PUT("/:id", authenticated, UpdateProject)
	projects.DELETE("/:id", authenticated, DeleteProject)

	tasks := api.Group("/tasks")
	tasks.GET("/project/:project_id", authenticated, ListTasksByProject)
	tasks.GET("/:id", GetTask)
	tasks.POST("", authenticated, CreateTask)
	tasks.PUT("/:id", authenticated, UpdateTask)
	tasks.DELETE("/:id", authenticated, DeleteTask)

	users := api.Group("/users")
	users.GET("", authenticated, ListUsers)
	users.GET("/:id", GetUser)
	users.PUT("/:id", authenticated, UpdateUser)
	users.DELETE("/:id", authenticated, DeleteUser)

	return r
}

func performRequest(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer

	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var value T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &value))
	return value
}

func registerUser(t *testing.T, r *gin.Engine, name, email, password string) types.AuthResponse {
	w := performRequest(t, r, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeBody[types.AuthResponse](t, w)
}

// createAdmin seeds an admin account directly; there is no registration path
// that grants the ADMIN role.
func createAdmin(t *testing.T, email, password string) models.User {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         types.RoleAdmin,
	}
	require.NoError(t, db.DB.Create(&admin).Error)
	return admin
}

func loginUser(t *testing.T, r *gin.Engine, email, password string) types.AuthResponse {
	w := performRequest(t, r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	return decodeBody[types.AuthResponse](t, w)
}

func createProject(t *testing.T, r *gin.Engine, token, name string) types.ProjectResponse {
	w := performRequest(t, r, http.MethodPost, "/api/projects", token, ProjectRequest{Name: name})
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeBody[types.ProjectResponse](t, w)
}
