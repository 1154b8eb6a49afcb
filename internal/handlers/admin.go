package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/pkg/models"
)

// AdminHandler serves the role-gated operations; the router mounts it behind
// RequireRole(RoleAdmin).
type AdminHandler struct {
	logger *logrus.Logger
	users  services.UserServiceInterface
	tasks  services.TaskServiceInterface
}

func NewAdminHandler(logger *logrus.Logger, users services.UserServiceInterface, tasks services.TaskServiceInterface) *AdminHandler {
	return &AdminHandler{logger: logger, users: users, tasks: tasks}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	userCount, err := h.users.CountUsers(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to count users")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	taskCount, err := h.tasks.CountTasks(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to count tasks")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{
		"users": userCount,
		"tasks": taskCount,
	}))
}
