package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is resolved at store read time; accounts without an explicit role
// are treated as RoleStandard.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// User is the credential store record. PasswordHash is only populated by
// lookups that explicitly request secret material (login) and is never
// serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a request. It carries
// no secret material by construction.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

func (u *User) Principal() *Principal {
	role := u.Role
	if !role.Valid() {
		role = RoleStandard
	}
	return &Principal{ID: u.ID, Email: u.Email, Name: u.Name, Role: role}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,password"`
	Name     string `json:"name" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}
