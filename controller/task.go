package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskchat-backend/logic"
)

// TaskController handles HTTP requests
type TaskController struct {
	taskLogic *logic.TaskLogic
}

func NewTaskController(logic *logic.TaskLogic) *TaskController {
	return &TaskController{taskLogic: logic}
}

func parseTaskID(ctx *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return taskID, true
}

// CreateTask handles POST /tasks
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	type Request struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := c.taskLogic.CreateTask(userID, req.Title, req.Description)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// ListTasks handles GET /tasks?status=all|pending|completed
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	tasks, err := c.taskLogic.ListTasks(userID, ctx.Query("status"))
	if err != nil {
		if errors.Is(err, logic.ErrBadStatusFilter) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /tasks/:id
func (c *TaskController) GetTask(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	taskID, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	task, err := c.taskLogic.GetTask(userID, taskID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/:id
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	taskID, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	type Request struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := c.taskLogic.UpdateTask(userID, taskID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// CompleteTask handles POST /tasks/:id/complete
func (c *TaskController) CompleteTask(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	taskID, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	task, err := c.taskLogic.CompleteTask(userID, taskID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	taskID, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	if err := c.taskLogic.DeleteTask(userID, taskID); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}
