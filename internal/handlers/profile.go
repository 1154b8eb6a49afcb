package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/middleware"
	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/internal/validation"
	"github.com/temcen/taskhub/pkg/models"
)

type ProfileHandler struct {
	logger *logrus.Logger
	users  services.UserServiceInterface
}

func NewProfileHandler(logger *logrus.Logger, users services.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{logger: logger, users: users}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure("Not authorized. Please log in."))
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"user": principal}))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure("Not authorized. Please log in."))
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(validation.MessageFor(err)))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), principal.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, models.Failure("A user with this email already exists."))
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, models.Failure("Invalid or expired token. Please log in again."))
		default:
			h.logger.WithError(err).Error("Profile update failed")
			c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		}
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"user": user.Principal()}))
}
