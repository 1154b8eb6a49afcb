package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/taskhub/internal/middleware"
	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/pkg/models"
)

func newTaskRouter(tasks *MockTaskService, principal *models.Principal) *gin.Engine {
	handler := NewTaskHandler(testLogger(), tasks)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			middleware.SetPrincipal(c, principal)
		}
	})
	router.GET("/tasks", handler.List)
	router.POST("/tasks", handler.Create)
	router.GET("/tasks/:id", handler.Get)
	router.PUT("/tasks/:id", handler.Update)
	router.DELETE("/tasks/:id", handler.Delete)
	return router
}

func standardPrincipal() *models.Principal {
	return &models.Principal{
		ID:    uuid.New(),
		Email: "demo@taskhub.dev",
		Name:  "Demo User",
		Role:  models.RoleStandard,
	}
}

func TestTaskHandler_List(t *testing.T) {
	principal := standardPrincipal()
	tasks := new(MockTaskService)

	list := &models.TaskList{
		Tasks: []models.Task{{
			ID:       uuid.New(),
			UserID:   principal.ID,
			Title:    "Review PR",
			Status:   models.TaskStatusTodo,
			Priority: models.TaskPriorityMedium,
		}},
		Pagination: models.Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3},
	}

	tasks.On("ListTasks", mock.Anything, principal.ID, &models.TaskFilter{
		Status:   "todo",
		Priority: "",
		Search:   "review",
		Sort:     "-created_at",
		Page:     2,
		Limit:    5,
	}).Return(list, nil)

	router := newTaskRouter(tasks, principal)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks?status=todo&search=review&page=2&limit=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Contains(t, w.Body.String(), `"total":11`)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_List_InvalidStatus(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTaskRouter(tasks, standardPrincipal())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks?status=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decodeResponse(t, w.Body.Bytes()).Error.Message)
	tasks.AssertNotCalled(t, "ListTasks")
}

func TestTaskHandler_List_NoPrincipal(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTaskRouter(tasks, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	tasks.AssertNotCalled(t, "ListTasks")
}

func TestTaskHandler_Create(t *testing.T) {
	principal := standardPrincipal()
	tasks := new(MockTaskService)

	created := &models.Task{
		ID:        uuid.New(),
		UserID:    principal.ID,
		Title:     "Write tests",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityHigh,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	tasks.On("CreateTask", mock.Anything, principal.ID, mock.AnythingOfType("*models.CreateTaskRequest")).
		Return(created, nil)

	router := newTaskRouter(tasks, principal)
	body, _ := json.Marshal(models.CreateTaskRequest{Title: "Write tests", Priority: "high"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w.Body.Bytes()).Success)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Create_InvalidPriority(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTaskRouter(tasks, standardPrincipal())

	body, _ := json.Marshal(gin.H{"title": "Write tests", "priority": "urgent"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid priority", decodeResponse(t, w.Body.Bytes()).Error.Message)
	tasks.AssertNotCalled(t, "CreateTask")
}

func TestTaskHandler_Get_NotFound(t *testing.T) {
	principal := standardPrincipal()
	taskID := uuid.New()
	tasks := new(MockTaskService)
	tasks.On("GetTask", mock.Anything, principal.ID, taskID).Return(nil, services.ErrTaskNotFound)

	router := newTaskRouter(tasks, principal)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found.", decodeResponse(t, w.Body.Bytes()).Error.Message)
}

func TestTaskHandler_Get_BadID(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTaskRouter(tasks, standardPrincipal())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tasks/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	// A malformed id is indistinguishable from a missing task.
	assert.Equal(t, http.StatusNotFound, w.Code)
	tasks.AssertNotCalled(t, "GetTask")
}

func TestTaskHandler_Update(t *testing.T) {
	principal := standardPrincipal()
	taskID := uuid.New()
	tasks := new(MockTaskService)

	updated := &models.Task{
		ID:       taskID,
		UserID:   principal.ID,
		Title:    "Review PR",
		Status:   models.TaskStatusDone,
		Priority: models.TaskPriorityMedium,
	}
	tasks.On("UpdateTask", mock.Anything, principal.ID, taskID, mock.AnythingOfType("*models.UpdateTaskRequest")).
		Return(updated, nil)

	router := newTaskRouter(tasks, principal)
	body, _ := json.Marshal(gin.H{"status": "done"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/tasks/"+taskID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"done"`)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Delete(t *testing.T) {
	principal := standardPrincipal()
	taskID := uuid.New()

	tests := []struct {
		name           string
		deleteErr      error
		expectedStatus int
	}{
		{"deleted", nil, http.StatusOK},
		{"not found", services.ErrTaskNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := new(MockTaskService)
			tasks.On("DeleteTask", mock.Anything, principal.ID, taskID).Return(tt.deleteErr)

			router := newTaskRouter(tasks, principal)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tasks.AssertExpectations(t)
		})
	}
}

func TestProfileHandler_Get(t *testing.T) {
	principal := standardPrincipal()
	users := new(MockUserService)
	handler := NewProfileHandler(testLogger(), users)

	router := gin.New()
	router.GET("/me", func(c *gin.Context) { middleware.SetPrincipal(c, principal) }, handler.Get)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), principal.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestProfileHandler_Update(t *testing.T) {
	principal := standardPrincipal()
	users := new(MockUserService)

	newName := "New Name"
	updated := &models.User{ID: principal.ID, Email: principal.Email, Name: newName, Role: models.RoleStandard}
	users.On("UpdateProfile", mock.Anything, principal.ID, mock.AnythingOfType("*models.UpdateProfileRequest")).
		Return(updated, nil)

	handler := NewProfileHandler(testLogger(), users)
	router := gin.New()
	router.PUT("/me", func(c *gin.Context) { middleware.SetPrincipal(c, principal) }, handler.Update)

	body, _ := json.Marshal(gin.H{"name": newName})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), newName)
	users.AssertExpectations(t)
}

func TestAdminHandler_Stats(t *testing.T) {
	users := new(MockUserService)
	tasks := new(MockTaskService)
	users.On("CountUsers", mock.Anything).Return(3, nil)
	tasks.On("CountTasks", mock.Anything).Return(12, nil)

	handler := NewAdminHandler(testLogger(), users, tasks)
	router := gin.New()
	router.GET("/admin/stats", handler.Stats)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w.Body.Bytes())
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, data["users"])
	assert.EqualValues(t, 12, data["tasks"])
}
