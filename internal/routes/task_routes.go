package routes

import (
	"context"
	"fmt"
	"net/http"

	"tasker_server/internal/model"
	"tasker_server/pkg/db"
	"tasker_server/pkg/dispatcher"
	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"
)

// taskCreatedResponse :
// The payload answered to a successful task creation: the
// identifier of the new task along with a status hint.
type taskCreatedResponse struct {
	TaskID int64  `json:"taskId"`
	Status string `json:"status"`
}

// taskItem :
// One task as rendered in the list answer. The status and
// the priority carry the API labels rather than the codes
// used by the store.
type taskItem struct {
	TaskID        int64  `json:"taskId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"startDate"`
	DueDate       string `json:"dueDate"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	CreatedAt     string `json:"createdAt"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// taskListResponse :
// The payload answered by the list route: the requested
// page of tasks along with the total count of tasks that
// match the filters.
type taskListResponse struct {
	Tasks        []taskItem `json:"tasks"`
	TotalRecords int        `json:"totalRecords"`
}

// fetchOwnedTask :
// Fetch the task targeted by a mutating request and make
// sure that it belongs to the provided user. A task that
// does not exist or that belongs to somebody else answers
// with the same invalid identifier error.
//
// The `id` defines the identifier of the task.
//
// The `username` defines the user issuing the request.
//
// Returns the task along with any error.
func (s *server) fetchOwnedTask(id int64, username string) (model.Task, error) {
	task, err := s.tasks.FetchTask(id, username)
	if err == db.ErrNoRows {
		return model.Task{}, rest.NewError(http.StatusUnprocessableEntity, rest.InvalidTaskID)
	}
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Unable to fetch task %d for \"%s\" (err: %v)", id, username, err))
		return model.Task{}, internalError(err)
	}

	return task, nil
}

// createTask :
// Used to register a new task owned by the user identified
// by the credential attached to the request. The status of
// the new task is always `NEW` and the priority defaults
// to `NORMAL` when the payload does not provide one.
//
// Returns the handler to execute to serve such requests.
func (s *server) createTask() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseTaskRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		priority, err := validateTaskContent(req)
		if err != nil {
			return rest.Result{}, err
		}

		user, err := s.users.GetUser(id.Username)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to fetch user \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		status, _ := model.TaskStatusCode(model.DefaultTaskStatus)

		task := model.Task{
			Title:       *req.Title,
			Description: *req.Description,
			StartDate:   *req.StartDate,
			DueDate:     *req.DueDate,
			Status:      status,
			Priority:    priority,
			UserID:      user.ID,
		}

		taskID, err := s.tasks.CreateTask(task)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to create task for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		s.trace(logger.Info, fmt.Sprintf("Created task %d for \"%s\"", taskID, id.Username))

		return rest.Result{
			Key:    taskResponseKey,
			Value:  taskCreatedResponse{TaskID: taskID, Status: taskCreatedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// updateTask :
// Used to replace the content of a task owned by the user
// identified by the credential attached to the request. The
// payload obeys the same rules as a creation and must also
// carry the identifier of the task to update. The status,
// when absent from the payload, is left untouched.
//
// Returns the handler to execute to serve such requests.
func (s *server) updateTask() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseTaskRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if req.ID == nil {
			return rest.Result{}, rest.NewError(http.StatusBadRequest, rest.BadRequest)
		}
		priority, err := validateTaskContent(req)
		if err != nil {
			return rest.Result{}, err
		}

		existing, err := s.fetchOwnedTask(*req.ID, id.Username)
		if err != nil {
			return rest.Result{}, err
		}

		status := existing.Status
		if req.Status != nil {
			code, ok := model.TaskStatusCode(*req.Status)
			if !ok {
				return rest.Result{}, rest.NewError(http.StatusBadRequest, rest.InvalidTaskStatus)
			}
			status = code
		}

		task := model.Task{
			ID:          *req.ID,
			Title:       *req.Title,
			Description: *req.Description,
			StartDate:   *req.StartDate,
			DueDate:     *req.DueDate,
			Status:      status,
			Priority:    priority,
			UserID:      existing.UserID,
		}

		if err := s.tasks.UpdateTask(task, existing.UserID); err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to update task %d for \"%s\" (err: %v)", *req.ID, id.Username, err))
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key:    taskResponseKey,
			Value:  statusResponse{Status: taskUpdatedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// patchTask :
// Used to update only the status of a task owned by the
// user identified by the credential attached to the
// request.
//
// Returns the handler to execute to serve such requests.
func (s *server) patchTask() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseTaskRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if req.ID == nil || req.Status == nil {
			return rest.Result{}, rest.NewError(http.StatusBadRequest, rest.BadRequest)
		}

		status, ok := model.TaskStatusCode(*req.Status)
		if !ok {
			return rest.Result{}, rest.NewError(http.StatusBadRequest, rest.InvalidTaskStatus)
		}

		existing, err := s.fetchOwnedTask(*req.ID, id.Username)
		if err != nil {
			return rest.Result{}, err
		}

		if err := s.tasks.UpdateTaskStatus(*req.ID, status, existing.UserID); err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to patch task %d for \"%s\" (err: %v)", *req.ID, id.Username, err))
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key:    taskResponseKey,
			Value:  statusResponse{Status: taskUpdatedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// deleteTask :
// Used to remove a task owned by the user identified by
// the credential attached to the request.
//
// Returns the handler to execute to serve such requests.
func (s *server) deleteTask() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseTaskRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if req.ID == nil {
			return rest.Result{}, rest.NewError(http.StatusBadRequest, rest.BadRequest)
		}

		existing, err := s.fetchOwnedTask(*req.ID, id.Username)
		if err != nil {
			return rest.Result{}, err
		}

		if err := s.tasks.RemoveTask(*req.ID, existing.UserID); err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to remove task %d for \"%s\" (err: %v)", *req.ID, id.Username, err))
			return rest.Result{}, internalError(err)
		}

		s.trace(logger.Info, fmt.Sprintf("Removed task %d for \"%s\"", *req.ID, id.Username))

		return rest.Result{
			Key:    taskResponseKey,
			Value:  statusResponse{Status: taskDeletedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// listTasks :
// Used to fetch a page of the tasks owned by the user
// identified by the credential attached to the request.
// The filters and the pagination travel in the `data`
// query parameter. An absent parameter lists the first
// page with the default pagination.
//
// Returns the handler to execute to serve such requests.
func (s *server) listTasks() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req := &model.TaskRequest{}
		if len(payload.URLContent) > 0 {
			req, err = parseTaskRequest(payload.URLContent)
			if err != nil {
				return rest.Result{}, err
			}
		}

		filters, page, limit, err := validateTaskList(req)
		if err != nil {
			return rest.Result{}, err
		}

		tasks, err := s.tasks.FetchTaskList(filters, page, limit, id.Username)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to list tasks for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		total, err := s.tasks.CountTasks(filters, id.Username)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to count tasks for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		items := make([]taskItem, 0, len(tasks))
		for _, task := range tasks {
			items = append(items, taskItem{
				TaskID:        task.ID,
				Title:         task.Title,
				Description:   task.Description,
				StartDate:     task.StartDate,
				DueDate:       task.DueDate,
				Status:        model.TaskStatusLabel(task.Status),
				Priority:      model.TaskPriorityLabel(task.Priority),
				CreatedAt:     task.CreatedAt.Format(model.TimestampFormat),
				LastUpdatedAt: task.LastUpdatedAt.Format(model.TimestampFormat),
			})
		}

		return rest.Result{
			Key:    taskResponseKey,
			Value:  taskListResponse{Tasks: items, TotalRecords: total},
			Status: http.StatusOK,
		}, nil
	}
}
