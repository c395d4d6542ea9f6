package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
	"gorm.io/gorm"
)

type ProjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"max=1000"`
}

func CreateProject(ctx *gin.Context) {
	var req ProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     principal.UserID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	if err := db.DB.First(&project.Owner, project.OwnerID).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	response, err := toProjectResponse(project)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

func ListMyProjects(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []models.Project

	if err := db.DB.Preload("Owner").Where("owner_id = ?", principal.UserID).Order("created_at DESC").Find(&projects).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	responses, err := toProjectResponses(projects)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, responses)
}

func ListAllProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Preload("Owner").Find(&projects).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	responses, err := toProjectResponses(projects)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, responses)
}

func GetProject(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var project models.Project

	if err := db.DB.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Project", projectID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	response, err := toProjectResponse(project)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateProject(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var project models.Project

	if err := db.DB.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Project", projectID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	if err := authz.Authorize(principal, authz.ActionProjectUpdate, authz.Resource{OwnerEmail: project.Owner.Email}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	project.Name = req.Name
	project.Description = req.Description

	if err := db.DB.Save(&project).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	response, err := toProjectResponse(project)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteProject(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var project models.Project

	if err := db.DB.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Project", projectID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	if err := authz.Authorize(principal, authz.ActionProjectDelete, authz.Resource{OwnerEmail: project.Owner.Email}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	// Deleting a project cascades to its tasks.
	if err := db.DB.Select("Tasks").Delete(&project).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toProjectResponse(project models.Project) (types.ProjectResponse, error) {
	var taskCount int64

	if err := db.DB.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error; err != nil {
		return types.ProjectResponse{}, err
	}

	return types.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Owner:       toUserResponse(project.Owner),
		CreatedAt:   project.CreatedAt,
		TaskCount:   taskCount,
	}, nil
}

func toProjectResponses(projects []models.Project) ([]types.ProjectResponse, error) {
	responses := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response, err := toProjectResponse(project)

		if err != nil {
			return nil, err
		}

		responses = append(responses, response)
	}

	return responses, nil
}
