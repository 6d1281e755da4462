package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxAssigneeLen    = 100
)

type TaskHandler struct {
	repo repository.TaskRepositoryInterface
}

func NewTaskHandler(repo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// TaskCreateRequest is the body for creating a task
type TaskCreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Assignee    string     `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskUpdateRequest is the body for a partial update. Every field is a
// pointer so an absent field can be told apart from a zero value; only
// supplied fields are merged into the stored task.
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Assignee    *string    `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse is the wire representation of a task
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listQuery struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Assignee string `form:"assignee"`
}

func taskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Assignee:    task.Assignee,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// validateTitle returns the trimmed title, or an error if it is empty
// or longer than 200 characters.
func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", errors.New("Title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", errors.New("Title must be at most 200 characters")
	}
	return title, nil
}

// List returns all tasks, optionally filtered by status, priority
// and assignee (AND semantics)
func (h *TaskHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid query parameters"})
		return
	}

	var filter repository.TaskFilter
	if q.Status != "" {
		status := model.TaskStatus(q.Status)
		if !status.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = &status
	}
	if q.Priority != "" {
		priority := model.TaskPriority(q.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority filter"})
			return
		}
		filter.Priority = &priority
	}
	if q.Assignee != "" {
		filter.Assignee = &q.Assignee
	}

	tasks, err := h.repo.Find(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns a single task by its ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	c.JSON(http.StatusOK, taskResponse(task))
}

// Create validates the input, assigns a fresh ID and timestamps, and
// persists a new task
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body"})
		return
	}

	title, err := validateTitle(req.Title)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Description must be at most 1000 characters"})
		return
	}
	if utf8.RuneCountInString(req.Assignee) > maxAssigneeLen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Assignee must be at most 100 characters"})
		return
	}

	status := model.StatusTodo
	if req.Status != "" {
		status = model.TaskStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status"})
			return
		}
	}

	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.TaskPriority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority"})
			return
		}
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Assignee:    req.Assignee,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task))
}

// Update merges the supplied fields into an existing task. Omitted
// fields keep their current value; id and created_at never change.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > maxDescriptionLen {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Description must be at most 1000 characters"})
			return
		}
		task.Description = *req.Description
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status"})
			return
		}
		task.Status = status
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority"})
			return
		}
		task.Priority = priority
	}
	if req.Assignee != nil {
		if utf8.RuneCountInString(*req.Assignee) > maxAssigneeLen {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Assignee must be at most 100 characters"})
			return
		}
		task.Assignee = *req.Assignee
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	task.UpdatedAt = time.Now().UTC()

	if err := h.repo.Update(c.Request.Context(), task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, taskResponse(task))
}

// Delete permanently removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
