package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/database"
)

type HealthService struct {
	logger *logrus.Logger
	db     *database.Database
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func NewHealthService(logger *logrus.Logger, db *database.Database) *HealthService {
	return &HealthService{logger: logger, db: db}
}

// Check pings the dependencies. Postgres is critical; redis is optional and
// only reported when configured.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  map[string]string{},
	}

	if err := s.db.PG.Ping(ctx); err != nil {
		s.logger.WithError(err).Error("PostgreSQL health check failed")
		status.Services["postgres"] = "unhealthy"
		status.Status = "unhealthy"
	} else {
		status.Services["postgres"] = "healthy"
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.Ping(ctx).Err(); err != nil {
			s.logger.WithError(err).Warn("Redis health check failed")
			status.Services["redis"] = "unhealthy"
		} else {
			status.Services["redis"] = "healthy"
		}
	}

	return status
}
