package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port/usecases_port"
)

type TaskHandler struct {
	createTaskUC    usecases_port.CreateTaskUseCasePort
	updateTaskUC    usecases_port.UpdateTaskUseCasePort
	deleteTaskUC    usecases_port.DeleteTaskUseCasePort
	getTaskUC       usecases_port.GetTaskByIdUseCasePort
	getTasksUC      usecases_port.GetTasksListUseCasePort
	createCommentUC usecases_port.CreateCommentUseCasePort
	getCommentsUC   usecases_port.GetCommentsUseCasePort
	validate        *validator.Validate
}

func NewTaskHandler(
	createTaskUC usecases_port.CreateTaskUseCasePort,
	updateTaskUC usecases_port.UpdateTaskUseCasePort,
	deleteTaskUC usecases_port.DeleteTaskUseCasePort,
	getTaskUC usecases_port.GetTaskByIdUseCasePort,
	getTasksUC usecases_port.GetTasksListUseCasePort,
	createCommentUC usecases_port.CreateCommentUseCasePort,
	getCommentsUC usecases_port.GetCommentsUseCasePort,
) *TaskHandler {
	return &TaskHandler{
		createTaskUC:    createTaskUC,
		updateTaskUC:    updateTaskUC,
		deleteTaskUC:    deleteTaskUC,
		getTaskUC:       getTaskUC,
		getTasksUC:      getTasksUC,
		createCommentUC: createCommentUC,
		getCommentsUC:   getCommentsUC,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateTask handles POST /api/v1/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateTask"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode create task request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Create task request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid deadline: expected RFC 3339 timestamp")
		return
	}
	assignedIDs, err := parseUUIDs(req.AssignedUserIDs)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid assigned user id")
		return
	}

	input := usecases_port.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Deadline:        deadline,
		Priority:        domain.TaskPriority(req.Priority),
		AssignedUserIDs: assignedIDs,
	}

	task, err := h.createTaskUC.Execute(r.Context(), input, userID)
	if err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	logger.Info("Task created", port.Fields{"task_id": task.ID})
	RespondWithJSON(w, http.StatusCreated, toTaskResponse(task))
}

// GetTasks handles GET /api/v1/tasks
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetTasks"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, size, err := parsePageParams(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := port.TaskFilter{
		Status:   domain.TaskStatus(r.URL.Query().Get("status")),
		Priority: domain.TaskPriority(r.URL.Query().Get("priority")),
	}

	tasks, total, err := h.getTasksUC.Execute(r.Context(), userID, filter, page, size)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) || errors.Is(err, domain.ErrInvalidPriority) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Get tasks use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		data = append(data, toTaskResponse(&tasks[i]))
	}

	RespondWithJSON(w, http.StatusOK, PaginatedTasksResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages(total, size),
	})
}

// GetTask handles GET /api/v1/tasks/{taskID}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetTask"})

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.getTaskUC.Execute(r.Context(), taskID)
	if err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toTaskResponse(task))
}

// UpdateTask handles PUT /api/v1/tasks/{taskID}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateTask"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode update task request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Update task request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := usecases_port.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(req.Deadline)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid deadline: expected RFC 3339 timestamp")
			return
		}
		input.Deadline = deadline
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		input.Status = &s
	}
	if req.AssignedUserIDs != nil {
		ids, err := parseUUIDs(*req.AssignedUserIDs)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid assigned user id")
			return
		}
		input.AssignedUserIDs = &ids
	}

	task, err := h.updateTaskUC.Execute(r.Context(), taskID, input, userID)
	if err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	logger.Info("Task updated", port.Fields{"task_id": task.ID})
	RespondWithJSON(w, http.StatusOK, toTaskResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/{taskID}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteTask"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.deleteTaskUC.Execute(r.Context(), taskID, userID); err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	logger.Info("Task deleted", port.Fields{"task_id": taskID})
	w.WriteHeader(http.StatusNoContent)
}

// CreateComment handles POST /api/v1/tasks/{taskID}/comments
func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateComment"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode create comment request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Create comment request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.createCommentUC.Execute(r.Context(), taskID, req.Content, userID)
	if err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	logger.Info("Comment created", port.Fields{"comment_id": comment.ID})
	RespondWithJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// GetComments handles GET /api/v1/tasks/{taskID}/comments
func (h *TaskHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetComments"})

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	comments, err := h.getCommentsUC.Execute(r.Context(), taskID)
	if err != nil {
		h.writeTaskError(w, logger, err)
		return
	}

	data := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, toCommentResponse(&comments[i]))
	}
	RespondWithJSON(w, http.StatusOK, data)
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotTaskOwner):
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidPriority):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func parsePageParams(r *http.Request) (page, size int, err error) {
	page, size = 1, 10
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return 0, 0, errors.New("size must be a positive integer")
		}
	}
	return page, size, nil
}

func totalPages(total int64, size int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func parseDeadline(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
