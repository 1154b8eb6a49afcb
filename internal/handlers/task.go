package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/middleware"
	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/internal/validation"
	"github.com/temcen/taskhub/pkg/models"
)

type TaskHandler struct {
	logger *logrus.Logger
	tasks  services.TaskServiceInterface
}

func NewTaskHandler(logger *logrus.Logger, tasks services.TaskServiceInterface) *TaskHandler {
	return &TaskHandler{logger: logger, tasks: tasks}
}

func (h *TaskHandler) List(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure("Not authorized. Please log in."))
		return
	}

	filter := &models.TaskFilter{
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "-created_at"),
		Page:   parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		Limit:  parsePositiveInt(c.DefaultQuery("limit", "10"), 10),
	}

	if status := c.Query("status"); status != "" {
		if !models.TaskStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, models.Failure("Invalid status"))
			return
		}
		filter.Status = status
	}
	if priority := c.Query("priority"); priority != "" {
		if !models.TaskPriority(priority).Valid() {
			c.JSON(http.StatusBadRequest, models.Failure("Invalid priority"))
			return
		}
		filter.Priority = priority
	}

	list, err := h.tasks.ListTasks(c.Request.Context(), principal.ID, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tasks")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, models.Success(list))
}

func (h *TaskHandler) Get(c *gin.Context) {
	principal, taskID, ok := h.taskRequest(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), principal.ID, taskID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"task": task}))
}

func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure("Not authorized. Please log in."))
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(validation.MessageFor(err)))
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), principal.ID, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create task")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, models.Success(gin.H{"task": task}))
}

func (h *TaskHandler) Update(c *gin.Context) {
	principal, taskID, ok := h.taskRequest(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(validation.MessageFor(err)))
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), principal.ID, taskID, &req)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"task": task}))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	principal, taskID, ok := h.taskRequest(c)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), principal.ID, taskID); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"message": "Task deleted."}))
}

// taskRequest pulls the principal and the :id route parameter; it writes the
// error response itself when either is unusable.
func (h *TaskHandler) taskRequest(c *gin.Context) (*models.Principal, uuid.UUID, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure("Not authorized. Please log in."))
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.Failure("Task not found."))
		return nil, uuid.Nil, false
	}

	return principal, taskID, true
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, models.Failure("Task not found."))
		return
	}
	h.logger.WithError(err).Error("Task operation failed")
	c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
}

func parsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
