package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   uint       `json:"project_id" binding:"required"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status" binding:"required,oneof=TODO IN_PROGRESS DONE"`
	Priority    string     `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"due_date"`
}

func CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.Preload("Owner").First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Project", req.ProjectID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	if err := authz.Authorize(principal, authz.ActionTaskCreate, authz.Resource{OwnerEmail: project.Owner.Email}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	if req.Status == "" {
		req.Status = types.StatusTodo
	}

	if req.Priority == "" {
		req.Priority = types.PriorityMedium
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   project.ID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

// ListTasksByProject returns the project's tasks newest first, optionally
// narrowed by status and/or priority. The filters combine conjunctively and
// each combination is a distinct query path.
func ListTasksByProject(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "project_id")

	if !ok {
		return
	}

	status := ctx.Query("status")
	priority := ctx.Query("priority")

	if status != "" && !types.ValidStatus(status) {
		apperrors.Respond(ctx, apperrors.Validation(map[string]string{"status": "must be one of: TODO, IN_PROGRESS, DONE"}))
		return
	}

	if priority != "" && !types.ValidPriority(priority) {
		apperrors.Respond(ctx, apperrors.Validation(map[string]string{"priority": "must be one of: LOW, MEDIUM, HIGH"}))
		return
	}

	var tasks []models.Task
	query := db.DB.Order("created_at DESC")

	switch {
	case status != "" && priority != "":
		query = query.Where("project_id = ? AND status = ? AND priority = ?", projectID, status, priority)
	case status != "":
		query = query.Where("project_id = ? AND status = ?", projectID, status)
	case priority != "":
		query = query.Where("project_id = ? AND priority = ?", projectID, priority)
	default:
		query = query.Where("project_id = ?", projectID)
	}

	if err := query.Find(&tasks).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	responses := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, responses)
}

func GetTask(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Task", taskID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	taskID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var task models.Task

	if err := db.DB.Preload("Project.Owner").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Task", taskID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	// Authorization follows the parent project's owner, never the task.
	if err := authz.Authorize(principal, authz.ActionTaskUpdate, authz.Resource{OwnerEmail: task.Project.Owner.Email}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Status = req.Status
	task.Priority = req.Priority
	task.DueDate = req.DueDate

	if err := db.DB.Save(&task).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	principal, err := utils.GetCurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var task models.Task

	if err := db.DB.Preload("Project.Owner").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.NotFound("Task", taskID))
		} else {
			apperrors.Respond(ctx, apperrors.Internal(err))
		}
		return
	}

	if err := authz.Authorize(principal, authz.ActionTaskDelete, authz.Resource{OwnerEmail: task.Project.Owner.Email}); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		apperrors.Respond(ctx, apperrors.Internal(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toTaskResponse(task models.Task) types.TaskResponse {
	return types.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
	}
}
