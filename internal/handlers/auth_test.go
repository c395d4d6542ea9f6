package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func TestRegister(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	resp := registerUser(t, router, "John Doe", "john@test.com", "password123")

	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "john@test.com", resp.Email)
	assert.Equal(t, types.RoleUser, resp.Role)
	assert.Equal(t, "Bearer", resp.Type)

	claims, err := auth.VerifyJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "john@test.com", claims.Subject)
	assert.Equal(t, types.RoleUser, claims.Role)

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "john@test.com").First(&user).Error)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	registerUser(t, router, "John Doe", "john@test.com", "password123")

	w := performRequest(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "John Doe",
		Email:    "john@test.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	resp := registerUser(t, router, "John Doe", "  John@Test.Com ", "password123")
	assert.Equal(t, "john@test.com", resp.Email)

	w := performRequest(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "John Doe",
		Email:    "JOHN@TEST.COM",
		Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	w := performRequest(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "J",
		Email:    "not-an-email",
		Password: "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody[apperrors.ErrorResponse](t, w)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestLogin(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	registerUser(t, router, "John Doe", "john@test.com", "password123")

	resp := loginUser(t, router, "john@test.com", "password123")

	assert.Equal(t, "john@test.com", resp.Email)
	assert.Equal(t, types.RoleUser, resp.Role)

	claims, err := auth.VerifyJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "john@test.com", claims.Subject)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginFailuresAreGeneric(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	registerUser(t, router, "John Doe", "john@test.com", "password123")

	wrongPass := performRequest(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "john@test.com",
		Password: "wrongpass",
	})
	unknownEmail := performRequest(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "nobody@test.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	wrongPassBody := decodeBody[apperrors.ErrorResponse](t, wrongPass)
	unknownEmailBody := decodeBody[apperrors.ErrorResponse](t, unknownEmail)
	assert.Equal(t, wrongPassBody.Message, unknownEmailBody.Message)
}

func TestMe(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	resp := registerUser(t, router, "John Doe", "john@test.com", "password123")

	w := performRequest(t, router, http.MethodGet, "/api/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := decodeBody[types.UserResponse](t, w)
	assert.Equal(t, "john@test.com", user.Email)

	w = performRequest(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
