package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/temcen/taskhub/pkg/models"
)

// DB is the subset of pgxpool.Pool the stores use; pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

// UserService is the credential store: it owns password hashing and is the
// only component that ever sees secret material.
type UserService struct {
	db     DB
	logger *logrus.Logger
}

func NewUserService(db DB, logger *logrus.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
		Role:  models.RoleStandard,
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		user.ID, email, name, string(hash), user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   email,
	}).Info("User created")

	return user, nil
}

// Authenticate verifies email+password. Unknown email and wrong password
// both return ErrInvalidCredentials so the response cannot be used to probe
// which emails exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	if !user.Role.Valid() {
		user.Role = models.RoleStandard
	}
	return user, nil
}

// GetUserByID resolves the subject of a verified token. The password hash is
// never selected, so principals built from this lookup carry no secret
// material.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, role, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Role.Valid() {
		user.Role = models.RoleStandard
	}
	return user, nil
}

// UpdateProfile applies a partial update. When neither field is present the
// current row is returned unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Name == nil && req.Email == nil {
		return s.GetUserByID(ctx, id)
	}

	sql := `UPDATE users SET updated_at = now()`
	args := []any{}
	idx := 1
	if req.Name != nil {
		sql += fmt.Sprintf(", name = $%d", idx)
		args = append(args, *req.Name)
		idx++
	}
	if req.Email != nil {
		sql += fmt.Sprintf(", email = $%d", idx)
		args = append(args, *req.Email)
		idx++
	}
	sql += fmt.Sprintf(` WHERE id = $%d
		 RETURNING id, email, name, role, created_at, updated_at`, idx)
	args = append(args, id)

	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if !user.Role.Valid() {
		user.Role = models.RoleStandard
	}
	return user, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
