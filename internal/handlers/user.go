package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
	"gorm.io/gorm"
)

type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
}

func ListUsers(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := authz.Authorize(principal, authz.ActionUserList, authz.Resource{}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	var users []models.User

	if err := db.DB.Find(&users).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	responses := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	ctx.JSON(http.StatusOK, responses)
}

func GetUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("User", userID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func UpdateUser(ctx *gin.Context) {
	var req UpdateUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	userID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("User", userID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email != user.Email {
		var existingUser models.User

		err := db.DB.Where("email = ? AND id != ?", email, user.ID).First(&existingUser).Error

		if err == nil {
			apperrors.Respond(ctx, apperrors.Duplicate("Email already in use: "+email))
			return
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.Internal(err))
			return
		}
	}

	user.Name = req.Name
	user.Email = email

	if err := db.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperrors.Respond(ctx, apperrors.Duplicate("Email already in use: "+email))
			return
		}
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func DeleteUser(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := authz.Authorize(principal, authz.ActionUserDelete, authz.Resource{}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	userID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("User", userID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	// Removing a user takes their projects, and transitively those
	// projects' tasks, with them. The whole cascade commits or rolls back
	// as one transaction.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var projects []models.Project

		if err := tx.Where("owner_id = ?", user.ID).Find(&projects).Error; err != nil {
			return err
		}

		for _, project := range projects {
			if err := tx.Select("Tasks").Delete(&project).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toUserResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
