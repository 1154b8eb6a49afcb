package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/services"
)

type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Profile *ProfileHandler
	Task    *TaskHandler
	Admin   *AdminHandler
}

func New(logger *logrus.Logger, svc *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(logger, svc.Health),
		Auth:    NewAuthHandler(logger, svc.User, svc.Auth),
		Profile: NewProfileHandler(logger, svc.User),
		Task:    NewTaskHandler(logger, svc.Task),
		Admin:   NewAdminHandler(logger, svc.User, svc.Task),
	}
}
