package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/internal/validation"
	"github.com/temcen/taskhub/pkg/models"
)

type AuthHandler struct {
	logger *logrus.Logger
	users  services.UserServiceInterface
	tokens services.TokenIssuer
}

func NewAuthHandler(logger *logrus.Logger, users services.UserServiceInterface, tokens services.TokenIssuer) *AuthHandler {
	return &AuthHandler{logger: logger, users: users, tokens: tokens}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(validation.MessageFor(err)))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, models.Failure("A user with this email already exists."))
			return
		}
		h.logger.WithError(err).Error("Signup failed")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	principal := user.Principal()
	token, err := h.tokens.IssueToken(principal)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token after signup")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, models.Success(models.AuthResult{User: principal, Token: token}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(validation.MessageFor(err)))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.Failure("Invalid email or password."))
			return
		}
		h.logger.WithError(err).Error("Login failed")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	principal := user.Principal()
	token, err := h.tokens.IssueToken(principal)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token after login")
		c.JSON(http.StatusInternalServerError, models.Failure("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, models.Success(models.AuthResult{User: principal, Token: token}))
}
