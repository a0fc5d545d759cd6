package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"tasker_server/internal/data"
	"tasker_server/internal/model"
	"tasker_server/pkg/rest"
)

// Bounds applied to the textual fields of a task.
const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

// Pagination applied to the task list when the client does
// not request anything specific.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// parseTaskRequest :
// Interpret the body of one of the task routes. The body
// is expected to nest the payload under a `TaskRequest`
// key. A body that cannot be interpreted or that misses
// the payload is reported as a bad request.
//
// The `content` defines the raw body of the request.
//
// Returns the parsed payload along with any error.
func parseTaskRequest(content string) (*model.TaskRequest, error) {
	var env model.TaskRequestEnvelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if env.TaskRequest == nil {
		return nil, rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	return env.TaskRequest, nil
}

// parseDate :
// Interpret a date in the strict `YYYY-MM-DD` format. Any
// deviation (including out of range components) produces
// the provided error key.
//
// The `value` defines the raw date.
//
// The `key` defines the error to report on failure.
//
// Returns the parsed date along with any error.
func parseDate(value string, key rest.ErrorKey) (time.Time, error) {
	date, err := time.Parse(model.DateFormat, value)
	if err != nil {
		return time.Time{}, rest.NewError(http.StatusBadRequest, key)
	}

	return date, nil
}

// validateTaskContent :
// Make sure that a task creation or update request carries
// all the mandatory fields and that each one is valid. The
// priority is also translated to its persisted code (and
// defaulted when absent).
//
// The `req` defines the payload to validate.
//
// Returns the priority code to persist along with any
// validation error.
func validateTaskContent(req *model.TaskRequest) (string, error) {
	if req.Title == nil || req.Description == nil || req.StartDate == nil || req.DueDate == nil {
		return "", rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if len(*req.Title) == 0 || len(*req.Title) > maxTitleLength {
		return "", rest.NewError(http.StatusBadRequest, rest.InvalidTitleLen)
	}
	if len(*req.Description) == 0 || len(*req.Description) > maxDescriptionLength {
		return "", rest.NewError(http.StatusBadRequest, rest.InvalidDescLen)
	}

	start, err := parseDate(*req.StartDate, rest.InvalidStartDate)
	if err != nil {
		return "", err
	}
	due, err := parseDate(*req.DueDate, rest.InvalidDueDate)
	if err != nil {
		return "", err
	}
	if due.Before(start) {
		return "", rest.NewError(http.StatusUnprocessableEntity, rest.DueGreaterThanStartDate)
	}

	priority := model.DefaultTaskPriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	code, ok := model.TaskPriorityCode(priority)
	if !ok {
		return "", rest.NewError(http.StatusBadRequest, rest.InvalidPriorityVal)
	}

	return code, nil
}

// validateTaskList :
// Interpret the filters and the pagination of a task list
// request. The status and priority labels (when provided)
// are translated to their persisted codes and the page and
// limit values are defaulted when absent.
//
// The `req` defines the payload to validate.
//
// Returns the filters, the page and the limit to apply
// along with any validation error.
func validateTaskList(req *model.TaskRequest) (data.TaskFilters, int, int, error) {
	var filters data.TaskFilters

	if req.Status != nil {
		code, ok := model.TaskStatusCode(*req.Status)
		if !ok {
			return filters, 0, 0, rest.NewError(http.StatusBadRequest, rest.InvalidTaskStatus)
		}
		filters.Status = &code
	}
	if req.Priority != nil {
		code, ok := model.TaskPriorityCode(*req.Priority)
		if !ok {
			return filters, 0, 0, rest.NewError(http.StatusBadRequest, rest.InvalidPriorityVal)
		}
		filters.Priority = &code
	}

	page := defaultPage
	if req.Page != nil {
		if *req.Page < 1 {
			return filters, 0, 0, rest.NewError(http.StatusBadRequest, rest.InvalidPageVal)
		}
		page = *req.Page
	}

	limit := defaultLimit
	if req.Limit != nil {
		if *req.Limit < 1 {
			return filters, 0, 0, rest.NewError(http.StatusBadRequest, rest.InvalidPageVal)
		}
		limit = *req.Limit
	}

	return filters, page, limit, nil
}
