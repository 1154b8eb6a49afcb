package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/taskhub/pkg/models"
)

func newTaskServiceWithMock(t *testing.T) (*TaskService, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewTaskService(mockDB, logger), mockDB
}

func taskRow(task *models.Task) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "title", "description", "status", "priority", "created_at", "updated_at"}).
		AddRow(task.ID, task.UserID, task.Title, task.Description, task.Status, task.Priority, task.CreatedAt, task.UpdatedAt)
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	now := time.Now()

	mockDB.ExpectQuery("INSERT INTO tasks").
		WithArgs(pgxmock.AnyArg(), userID, "Write tests", "", models.TaskStatusTodo, models.TaskPriorityMedium).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	task, err := svc.CreateTask(context.Background(), userID, &models.CreateTaskRequest{Title: "Write tests"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, userID, task.UserID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_GetTask_NotFound(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	taskID := uuid.New()

	mockDB.ExpectQuery("SELECT (.+) FROM tasks WHERE id").
		WithArgs(taskID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetTask(context.Background(), userID, taskID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_GetTask_ScopedToOwner(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Review PR",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mockDB.ExpectQuery("SELECT (.+) FROM tasks WHERE id").
		WithArgs(task.ID, userID).
		WillReturnRows(taskRow(task))

	got, err := svc.GetTask(context.Background(), userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_ListTasks(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Write tests",
		Status:    models.TaskStatusDone,
		Priority:  models.TaskPriorityMedium,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mockDB.ExpectQuery("SELECT count").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(25))

	mockDB.ExpectQuery("SELECT (.+) FROM tasks").
		WithArgs(userID, 10, 0).
		WillReturnRows(taskRow(task))

	list, err := svc.ListTasks(context.Background(), userID, &models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 1)
	assert.Equal(t, 25, list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.Limit)
	assert.Equal(t, 3, list.Pagination.TotalPages)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_ListTasks_FiltersAndSearch(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()

	mockDB.ExpectQuery("SELECT count").
		WithArgs(userID, "todo", "high", "%review%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	mockDB.ExpectQuery("SELECT (.+) FROM tasks").
		WithArgs(userID, "todo", "high", "%review%", 5, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "description", "status", "priority", "created_at", "updated_at"}))

	filter := &models.TaskFilter{
		Status:   "todo",
		Priority: "high",
		Search:   "review",
		Sort:     "title",
		Page:     2,
		Limit:    5,
	}

	list, err := svc.ListTasks(context.Background(), userID, filter)
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 1, list.Pagination.TotalPages, "total pages never drops below one")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_ListTasks_ClampsLimit(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()

	mockDB.ExpectQuery("SELECT count").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	mockDB.ExpectQuery("SELECT (.+) FROM tasks").
		WithArgs(userID, 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "description", "status", "priority", "created_at", "updated_at"}))

	list, err := svc.ListTasks(context.Background(), userID, &models.TaskFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, list.Pagination.Limit)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_UpdateTask(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	newStatus := "done"
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Review PR",
		Status:    models.TaskStatusDone,
		Priority:  models.TaskPriorityMedium,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mockDB.ExpectQuery("UPDATE tasks SET").
		WithArgs(newStatus, task.ID, userID).
		WillReturnRows(taskRow(task))

	got, err := svc.UpdateTask(context.Background(), userID, task.ID, &models.UpdateTaskRequest{Status: &newStatus})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	taskID := uuid.New()
	title := "New title"

	mockDB.ExpectQuery("UPDATE tasks SET").
		WithArgs(title, taskID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.UpdateTask(context.Background(), userID, taskID, &models.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_DeleteTask(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	taskID := uuid.New()

	mockDB.ExpectExec("DELETE FROM tasks").
		WithArgs(taskID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, svc.DeleteTask(context.Background(), userID, taskID))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTaskService_DeleteTask_NotFound(t *testing.T) {
	svc, mockDB := newTaskServiceWithMock(t)
	userID := uuid.New()
	taskID := uuid.New()

	mockDB.ExpectExec("DELETE FROM tasks").
		WithArgs(taskID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, svc.DeleteTask(context.Background(), userID, taskID), ErrTaskNotFound)
}

func TestTaskOrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"", "created_at DESC"},
		{"-created_at", "created_at DESC"},
		{"created_at", "created_at ASC"},
		{"title", "title ASC"},
		{"-priority", "priority DESC"},
		{"password_hash", "created_at DESC"},
		{"; DROP TABLE tasks", "created_at DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, taskOrderClause(tt.sort), "sort %q", tt.sort)
	}
}
