package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/pkg/models"
)

// taskSortColumns whitelists the sortable fields; anything else falls back
// to the default ordering.
var taskSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"priority":   "priority",
}

const (
	taskDefaultLimit = 10
	taskMaxLimit     = 50

	taskColumns = "id, user_id, title, description, status, priority, created_at, updated_at"
)

// TaskService owns task persistence. Every query is scoped to the owner's
// user id in the WHERE clause, so a caller can never read or mutate another
// user's tasks.
type TaskService struct {
	db     DB
	logger *logrus.Logger
}

func NewTaskService(db DB, logger *logrus.Logger) *TaskService {
	return &TaskService{db: db, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *models.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
	}
	if req.Status != "" {
		task.Status = models.TaskStatus(req.Status)
	}
	if req.Priority != "" {
		task.Priority = models.TaskPriority(req.Priority)
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO tasks (id, user_id, title, description, status, priority)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		task.ID, task.UserID, task.Title, task.Description, task.Status, task.Priority,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"user_id": userID,
	}).Info("Task created")

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	err := s.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListTasks applies the filter, search, sort and pagination rules and
// returns the matching page together with the total count.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter *models.TaskFilter) (*models.TaskList, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = taskDefaultLimit
	}
	if limit > taskMaxLimit {
		limit = taskMaxLimit
	}
	offset := (page - 1) * limit

	orderBy := taskOrderClause(filter.Sort)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.TaskList{
		Tasks: tasks,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *models.UpdateTaskRequest) (*models.Task, error) {
	if req.Title == nil && req.Description == nil && req.Status == nil && req.Priority == nil {
		return s.GetTask(ctx, userID, taskID)
	}

	sql := `UPDATE tasks SET updated_at = now()`
	args := []any{}
	if req.Title != nil {
		args = append(args, strings.TrimSpace(*req.Title))
		sql += fmt.Sprintf(", title = $%d", len(args))
	}
	if req.Description != nil {
		args = append(args, strings.TrimSpace(*req.Description))
		sql += fmt.Sprintf(", description = $%d", len(args))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		sql += fmt.Sprintf(", status = $%d", len(args))
	}
	if req.Priority != nil {
		args = append(args, *req.Priority)
		sql += fmt.Sprintf(", priority = $%d", len(args))
	}
	args = append(args, taskID, userID)
	sql += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING %s", len(args)-1, len(args), taskColumns)

	task := &models.Task{}
	err := s.db.QueryRow(ctx, sql, args...).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"task_id": taskID,
		"user_id": userID,
	}).Info("Task deleted")

	return nil
}

func (s *TaskService) CountTasks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func taskOrderClause(sort string) string {
	if sort == "" {
		sort = "-created_at"
	}
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}
	col, ok := taskSortColumns[sort]
	if !ok {
		return "created_at DESC"
	}
	return col + " " + dir
}
