package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/middleware"
	"github.com/HannanShehzad/TaskManager/internal/services"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, logger: logger}
}

// requester returns the authenticated owner identity, or aborts. BearerAuth
// runs before every task route, so a miss here is a wiring bug.
func requester(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status":  "fail",
			"message": "you are not logged in, please log in to get access",
		})
	}
	return id, ok
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID, ok := requester(c)
	if !ok {
		return
	}

	// Any client-supplied owner field is ignored; the owner is always the
	// authenticated identity.
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, apperror.Validation("body"))
		return
	}

	task, err := h.taskService.CreateTask(h.db, ownerID, services.CreateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"task": task},
	})
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	ownerID, ok := requester(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasks(h.db, ownerID, c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(tasks),
		"data":    gin.H{"tasks": tasks},
	})
}

// taskID parses the :id path parameter. A malformed id can never match a
// stored task, so it reports NotFound rather than a validation error.
func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperror.NotFound("task"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	ownerID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(h.db, ownerID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"task": task},
	})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	// Pointer fields distinguish "absent" from "set to empty".
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		DueDate     *string `json:"due_date"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, apperror.Validation("body"))
		return
	}

	task, err := h.taskService.UpdateTask(h.db, ownerID, id, services.UpdateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"task": task},
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
