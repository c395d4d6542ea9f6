package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// dummyHash is compared against on login when no account matches the email,
// so both failure paths cost a bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", email).First(&existingUser).Error

	if err == nil {
		apperrors.Respond(ctx, apperrors.Duplicate("Email already registered: "+email))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         types.RoleUser,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		// The unique index on email is the authority; a concurrent
		// registration that won the race lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperrors.Respond(ctx, apperrors.Duplicate("Email already registered: "+email))
			return
		}
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.Role, auth.TokenTTL())

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusCreated, types.AuthResponse{
		Token: token,
		Type:  "Bearer",
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.CheckPassword(req.Password, dummyHash)
			apperrors.Respond(ctx, apperrors.InvalidCredentials())
			return
		}
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		apperrors.Respond(ctx, apperrors.InvalidCredentials())
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.Role, auth.TokenTTL())

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, types.AuthResponse{
		Token: token,
		Type:  "Bearer",
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

func Me(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, principal.UserID).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}
