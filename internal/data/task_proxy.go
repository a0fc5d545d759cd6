package data

import (
	"fmt"
	"time"

	"tasker_server/internal/model"
	"tasker_server/pkg/db"
	"tasker_server/pkg/logger"
)

// TaskFilters :
// Gathers the optional filters that can be applied when
// listing or counting the tasks of a user. The values
// are the persisted codes (and not the labels exposed
// by the API): the conversion happens at the validation
// layer. A `nil` value disables the corresponding filter.
type TaskFilters struct {
	Status   *string
	Priority *string
}

// TaskProxy :
// Intended as a wrapper to access properties of the tasks
// registered in the store. All the operations exposed by
// the proxy are scoped by the owning user so that a task
// can never be read or modified by someone else.
type TaskProxy struct {
	commonProxy
}

// NewTaskProxy :
// Create a new proxy allowing to serve the requests
// related to tasks.
//
// The `dbase` defines the database to wrap.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewTaskProxy(dbase *db.DB, log logger.Logger) TaskProxy {
	return TaskProxy{
		commonProxy: newCommonProxy(dbase, log, "tasks"),
	}
}

// CreateTask :
// Registers a new task in the store.
//
// The `task` defines the task to register. Its status and
// priority are expected to be persisted codes.
//
// Returns the identifier assigned to the created task
// along with any error.
func (p TaskProxy) CreateTask(task model.Task) (int64, error) {
	var id int64

	rows, err := p.dbase.DBQuery(
		"INSERT INTO tasks (title, description, start_date, due_date, status, priority, user_id, created_at, last_updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now()) RETURNING id",
		task.Title,
		task.Description,
		task.StartDate,
		task.DueDate,
		task.Status,
		task.Priority,
		task.UserID,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not create task \"%s\" (err: %v)", task.Title, err))
		return id, db.FormatDBError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return id, db.ErrNoRows
	}

	err = rows.Scan(&id)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not scan identifier of created task (err: %v)", err))
		return id, db.FormatDBError(err)
	}

	return id, nil
}

// UpdateTask :
// Replaces the content of the task identified by the input
// task's identifier, provided it is owned by the specified
// user.
//
// The `task` defines the new content of the task.
//
// The `userID` defines the owner of the task.
//
// Returns any error.
func (p TaskProxy) UpdateTask(task model.Task, userID int64) error {
	_, err := p.dbase.DBExecute(
		"UPDATE tasks SET title = $2, description = $3, start_date = $4, due_date = $5, status = $6, priority = $7, last_updated_at = now() WHERE id = $1 AND user_id = $8",
		task.ID,
		task.Title,
		task.Description,
		task.StartDate,
		task.DueDate,
		task.Status,
		task.Priority,
		userID,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update task %d (err: %v)", task.ID, err))
		return db.FormatDBError(err)
	}

	return nil
}

// UpdateTaskStatus :
// Replaces the status of the task identified by the input
// identifier, provided it is owned by the specified user.
//
// The `id` defines the task to update.
//
// The `status` defines the new persisted status code.
//
// The `userID` defines the owner of the task.
//
// Returns any error.
func (p TaskProxy) UpdateTaskStatus(id int64, status string, userID int64) error {
	_, err := p.dbase.DBExecute(
		"UPDATE tasks SET status = $2, last_updated_at = now() WHERE id = $1 AND user_id = $3",
		id,
		status,
		userID,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update status of task %d (err: %v)", id, err))
		return db.FormatDBError(err)
	}

	return nil
}

// FetchTask :
// Fetches the task registered under the input identifier
// provided it is owned by the specified user.
//
// The `id` defines the task to fetch.
//
// The `username` defines the owner of the task.
//
// Returns the task along with any error. An identifier
// that matches no task of this user yields `db.ErrNoRows`.
func (p TaskProxy) FetchTask(id int64, username string) (model.Task, error) {
	rows, err := p.dbase.DBQuery(
		"SELECT t.id, t.title, t.description, t.start_date, t.due_date, t.status, t.priority, t.user_id, t.created_at, t.last_updated_at FROM tasks t INNER JOIN users u ON t.user_id = u.id WHERE u.username = $1 AND t.id = $2",
		username,
		id,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not query task %d for \"%s\" (err: %v)", id, username, err))
		return model.Task{}, db.FormatDBError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return model.Task{}, db.ErrNoRows
	}

	task, err := scanTask(rows)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not scan task %d (err: %v)", id, err))
		return model.Task{}, db.FormatDBError(err)
	}

	return task, nil
}

// FetchTaskList :
// Fetches the tasks owned by the specified user, narrowed
// by the input filters and paginated. Tasks are returned
// ordered by their identifier so successive pages do not
// overlap.
//
// The `filters` define the optional status and priority
// to narrow the search with.
//
// The `page` defines the 1-based index of the page to
// fetch.
//
// The `limit` defines the number of tasks per page.
//
// The `username` defines the owner of the tasks.
//
// Returns the matching tasks along with any error.
func (p TaskProxy) FetchTaskList(filters TaskFilters, page int, limit int, username string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)

	offset := (page - 1) * limit

	rows, err := p.dbase.DBQuery(
		"SELECT t.id, t.title, t.description, t.start_date, t.due_date, t.status, t.priority, t.user_id, t.created_at, t.last_updated_at FROM tasks t INNER JOIN users u ON t.user_id = u.id WHERE u.username = $1 AND ($2::varchar IS NULL OR t.status = $2) AND ($3::varchar IS NULL OR t.priority = $3) ORDER BY t.id LIMIT $4 OFFSET $5",
		username,
		filters.Status,
		filters.Priority,
		limit,
		offset,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not query tasks for \"%s\" (err: %v)", username, err))
		return tasks, db.FormatDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			p.trace(logger.Error, fmt.Sprintf("Could not scan task for \"%s\" (err: %v)", username, err))
			return tasks, db.FormatDBError(err)
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// CountTasks :
// Counts the tasks owned by the specified user and kept
// by the input filters, regardless of any pagination.
//
// The `filters` define the optional status and priority
// to narrow the search with.
//
// The `username` defines the owner of the tasks.
//
// Returns the total number of matching tasks along with
// any error.
func (p TaskProxy) CountTasks(filters TaskFilters, username string) (int, error) {
	var count int

	rows, err := p.dbase.DBQuery(
		"SELECT count(*) FROM tasks t INNER JOIN users u ON t.user_id = u.id WHERE u.username = $1 AND ($2::varchar IS NULL OR t.status = $2) AND ($3::varchar IS NULL OR t.priority = $3)",
		username,
		filters.Status,
		filters.Priority,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not count tasks for \"%s\" (err: %v)", username, err))
		return count, db.FormatDBError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return count, db.ErrNoRows
	}

	err = rows.Scan(&count)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not scan tasks count for \"%s\" (err: %v)", username, err))
		return count, db.FormatDBError(err)
	}

	return count, nil
}

// RemoveTask :
// Deletes the task registered under the input identifier,
// provided it is owned by the specified user.
//
// The `id` defines the task to delete.
//
// The `userID` defines the owner of the task.
//
// Returns any error.
func (p TaskProxy) RemoveTask(id int64, userID int64) error {
	_, err := p.dbase.DBExecute(
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2",
		id,
		userID,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not remove task %d (err: %v)", id, err))
		return db.FormatDBError(err)
	}

	return nil
}

// taskScanner :
// Narrow view of the rows produced by a task query. It
// exists so that the scanning of a task can be shared
// between the fetch operations.
type taskScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask :
// Builds a task from the current row of a task query. The
// persisted dates are converted back to the API format.
//
// The `rows` defines the row to scan.
//
// Returns the built task along with any error.
func scanTask(rows taskScanner) (model.Task, error) {
	var task model.Task
	var startDate, dueDate time.Time

	err := rows.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&startDate,
		&dueDate,
		&task.Status,
		&task.Priority,
		&task.UserID,
		&task.CreatedAt,
		&task.LastUpdatedAt,
	)
	if err != nil {
		return task, err
	}

	task.StartDate = startDate.Format(model.DateFormat)
	task.DueDate = dueDate.Format(model.DateFormat)

	return task, nil
}
