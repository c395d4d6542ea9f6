package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(ctx, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NotFound("Project", 5), http.StatusNotFound},
		{"duplicate", Duplicate("Email already registered: a@b.com"), http.StatusConflict},
		{"forbidden", Forbidden("You don't have permission to modify this project"), http.StatusForbidden},
		{"invalid credentials", InvalidCredentials(), http.StatusUnauthorized},
		{"validation", Validation(map[string]string{"name": "is required"}), http.StatusBadRequest},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := respond(t, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status, body.Status)
			assert.NotEmpty(t, body.Message)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestRespondInternalHidesDetail(t *testing.T) {
	_, body := respond(t, Internal(errors.New("pq: connection refused")))

	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.NotContains(t, body.Message, "connection refused")
}

func TestRespondGormSentinels(t *testing.T) {
	w, _ := respond(t, gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = respond(t, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondUnclassifiedIsInternal(t *testing.T) {
	w, body := respond(t, errors.New("something odd"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", body.Message)
}

func TestRespondValidationFieldMap(t *testing.T) {
	type registerForm struct {
		Name      string `validate:"required,min=2,max=100"`
		Email     string `validate:"required,email"`
		ProjectID uint   `validate:"required"`
	}

	err := validator.New().Struct(registerForm{Name: "x", Email: "nope"})
	require.Error(t, err)

	w, body := respond(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, "must be at least 2 characters", body.Errors["name"])
	assert.Equal(t, "must be a valid email address", body.Errors["email"])
	assert.Equal(t, "is required", body.Errors["project_id"])
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "name", snakeCase("Name"))
	assert.Equal(t, "due_date", snakeCase("DueDate"))
	assert.Equal(t, "project_id", snakeCase("ProjectID"))
}
