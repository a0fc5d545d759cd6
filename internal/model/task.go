package model

import "time"

// Format used by the API for the start and due dates of a
// task. Parsing is strict: anything that does not exactly
// match this layout is rejected.
const DateFormat = "2006-01-02"

// Format used by the API when exposing timestamps such as
// the creation date of a profile or a task.
const TimestampFormat = "2006-01-02 15:04:05"

// Labels accepted by the API for the status of a task.
const (
	TaskStatusNew      = "NEW"
	TaskStatusProgress = "PROGRESS"
	TaskStatusDone     = "DONE"
)

// Status applied to a task which does not define one.
const DefaultTaskStatus = TaskStatusNew

// Labels accepted by the API for the priority of a task.
const (
	TaskPriorityLow    = "LOW"
	TaskPriorityNormal = "NORMAL"
	TaskPriorityHigh   = "HIGH"
)

// Priority applied to a task which does not define one.
const DefaultTaskPriority = TaskPriorityNormal

// taskStatuses :
// Associates the status labels accepted by the API to the
// codes persisted in the store.
var taskStatuses = map[string]string{
	TaskStatusNew:      "0",
	TaskStatusProgress: "1",
	TaskStatusDone:     "2",
}

// taskPriorities :
// Associates the priority labels accepted by the API to
// the codes persisted in the store.
var taskPriorities = map[string]string{
	TaskPriorityLow:    "0",
	TaskPriorityNormal: "1",
	TaskPriorityHigh:   "2",
}

// TaskStatusCode :
// Converts a status label into the code persisted in the
// store.
//
// The `label` defines the status label to convert.
//
// Returns the code along with a boolean which is `false`
// when the label is not a valid status.
func TaskStatusCode(label string) (string, bool) {
	code, ok := taskStatuses[label]
	return code, ok
}

// TaskStatusLabel :
// Converts a persisted status code back into the label
// exposed by the API. Unknown codes yield an empty label.
//
// The `code` defines the persisted code to convert.
//
// Returns the label associated to the code.
func TaskStatusLabel(code string) string {
	for label, c := range taskStatuses {
		if c == code {
			return label
		}
	}

	return ""
}

// TaskPriorityCode :
// Converts a priority label into the code persisted in the
// store.
//
// The `label` defines the priority label to convert.
//
// Returns the code along with a boolean which is `false`
// when the label is not a valid priority.
func TaskPriorityCode(label string) (string, bool) {
	code, ok := taskPriorities[label]
	return code, ok
}

// TaskPriorityLabel :
// Converts a persisted priority code back into the label
// exposed by the API. Unknown codes yield an empty label.
//
// The `code` defines the persisted code to convert.
//
// Returns the label associated to the code.
func TaskPriorityLabel(code string) string {
	for label, c := range taskPriorities {
		if c == code {
			return label
		}
	}

	return ""
}

// Task :
// Describes a task as persisted in the store. The status
// and priority are kept under their persisted code form:
// the conversion to the labels exposed by the API happens
// when a response is shaped.
//
// The `ID` defines the identifier of the task.
//
// The `Title` defines a short description of the task.
//
// The `Description` defines the complete description of
// the task.
//
// The `StartDate` and `DueDate` define the window during
// which the task should be worked on, under the API date
// format.
//
// The `Status` defines the persisted status code of the
// task.
//
// The `Priority` defines the persisted priority code of
// the task.
//
// The `UserID` defines the identifier of the user owning
// the task.
//
// The `CreatedAt` and `LastUpdatedAt` define the life
// cycle timestamps of the task.
type Task struct {
	ID            int64
	Title         string
	Description   string
	StartDate     string
	DueDate       string
	Status        string
	Priority      string
	UserID        int64
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}
