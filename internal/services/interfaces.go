package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/temcen/taskhub/pkg/models"
)

// TokenVerifier is the part of AuthService the auth middleware depends on.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.TokenClaims, error)
}

// PrincipalResolver resolves a verified subject id to a live account; a
// deleted account must fail the lookup, not resurrect a stale identity.
type PrincipalResolver interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UserServiceInterface defines the operations the auth and profile handlers
// depend on.
type UserServiceInterface interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// TaskServiceInterface defines the operations the task handlers depend on.
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *models.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter *models.TaskFilter) (*models.TaskList, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	CountTasks(ctx context.Context) (int, error)
}

// TokenIssuer is the part of AuthService the auth handlers depend on.
type TokenIssuer interface {
	IssueToken(p *models.Principal) (string, error)
}
