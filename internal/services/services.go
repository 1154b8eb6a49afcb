package services

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/config"
	"github.com/temcen/taskhub/internal/database"
)

type Services struct {
	Auth             *AuthService
	User             *UserService
	Task             *TaskService
	Health           *HealthService
	AuthRateLimit    *RateLimitService
	GeneralRateLimit *RateLimitService
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) *Services {
	rl := cfg.Auth.RateLimit

	authLimiter := NewRateLimitService("auth", rl.AuthMax, rl.AuthWindow, logger)
	generalLimiter := NewRateLimitService("general", rl.GeneralMax, rl.GeneralWindow, logger)
	authLimiter.StartSweeper(rl.SweepInterval, rl.IdleExpiry)
	generalLimiter.StartSweeper(rl.SweepInterval, rl.IdleExpiry)

	return &Services{
		Auth:             NewAuthService(cfg, logger),
		User:             NewUserService(db.PG, logger),
		Task:             NewTaskService(db.PG, logger),
		Health:           NewHealthService(logger, db),
		AuthRateLimit:    authLimiter,
		GeneralRateLimit: generalLimiter,
	}
}

func (s *Services) Stop() {
	s.AuthRateLimit.Stop()
	s.GeneralRateLimit.Stop()
}
