package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
)

// CreateTaskRequest represents the request body for creating a new task
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1"`
	Description string `json:"description"`
}

// TaskResponse represents the response data for a single task
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse represents the response for the task list endpoint,
// tagging the data with its provenance (cache or database).
type TaskListResponse struct {
	Source string         `json:"source"`
	Data   []TaskResponse `json:"data"`
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := TaskListResponse{
		Source: string(result.Source),
		Data:   make([]TaskResponse, 0, len(result.Tasks)),
	}
	for i := range result.Tasks {
		response.Data = append(response.Data, taskToDTOResponse(&result.Tasks[i]))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToDTOResponse(task))
}

// taskToDTOResponse converts a domain.Task to a TaskResponse
func taskToDTOResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
