// Seeds the database with demo users and tasks. Destructive: wipes the
// users and tasks tables first.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/temcen/taskhub/internal/config"
)

type demoUser struct {
	email    string
	password string
	name     string
	role     string
}

type demoTask struct {
	title       string
	description string
	status      string
	priority    string
}

var demoUsers = []demoUser{
	{"demo@taskhub.dev", "Demo123!", "Demo User", "admin"},
	{"john@example.com", "John123!", "John Doe", "standard"},
	{"jane@example.com", "Jane123!", "Jane Smith", "standard"},
}

var demoTasks = []demoTask{
	{"Complete assignment", "Frontend + Backend task", "in_progress", "high"},
	{"Review PR", "Code review for auth module", "todo", "medium"},
	{"Write tests", "Unit tests for API", "done", "medium"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `TRUNCATE tasks, users`); err != nil {
		log.Fatalf("Failed to truncate tables: %v", err)
	}

	var firstUserID uuid.UUID
	for i, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		id := uuid.New()
		if i == 0 {
			firstUserID = id
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, email, name, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
			id, u.email, u.name, string(hash), u.role,
		)
		if err != nil {
			log.Fatalf("Failed to insert user %s: %v", u.email, err)
		}
	}

	for _, t := range demoTasks {
		_, err = pool.Exec(ctx,
			`INSERT INTO tasks (id, user_id, title, description, status, priority) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), firstUserID, t.title, t.description, t.status, t.priority,
		)
		if err != nil {
			log.Fatalf("Failed to insert task %q: %v", t.title, err)
		}
	}

	log.Println("Seed done. Demo credentials:")
	for _, u := range demoUsers {
		log.Printf("  %s / %s", u.email, u.password)
	}
}
