package routes

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTask = `{"TaskRequest":{"title":"Write report","description":"Quarterly numbers","startDate":"2024-06-10","dueDate":"2024-06-20"}}`

func createTask(t *testing.T, env *testEnv, username string, payload string) int64 {
	t.Helper()

	w := env.perform("POST", "/api/1.0/task", payload, username)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp, ok := body["TaskResponse"].(map[string]interface{})
	require.True(t, ok)

	id, ok := resp["taskId"].(float64)
	require.True(t, ok)

	return int64(id)
}

func TestCreateTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")

	w := env.perform("POST", "/api/1.0/task", validTask, "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp, ok := body["TaskResponse"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "api.response.success.task_created", resp["status"])
	assert.Equal(t, float64(1), resp["taskId"])

	// The task is persisted with the default status and
	// priority codes and owned by the caller.
	stored := env.tasks.tasks[1]
	assert.Equal(t, "Write report", stored.Title)
	assert.Equal(t, "0", stored.Status)
	assert.Equal(t, "1", stored.Priority)
	assert.Equal(t, env.users.users["alice"].ID, stored.UserID)
}

func TestCreateTaskHonorsThePriority(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")

	payload := `{"TaskRequest":{"title":"T","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20","priority":"HIGH"}}`
	id := createTask(t, env, "alice", payload)

	assert.Equal(t, "2", env.tasks.tasks[id].Priority)
}

func TestCreateTaskValidation(t *testing.T) {
	longTitle := strings.Repeat("t", 201)
	longDesc := strings.Repeat("d", 1001)

	tests := []struct {
		name    string
		payload string
		status  int
		code    string
	}{
		{"no envelope", `{}`, http.StatusBadRequest, "400"},
		{"missing title", `{"TaskRequest":{"description":"D","startDate":"2024-06-10","dueDate":"2024-06-20"}}`, http.StatusBadRequest, "400"},
		{"title too long", fmt.Sprintf(`{"TaskRequest":{"title":"%s","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20"}}`, longTitle), http.StatusBadRequest, "1003"},
		{"description too long", fmt.Sprintf(`{"TaskRequest":{"title":"T","description":"%s","startDate":"2024-06-10","dueDate":"2024-06-20"}}`, longDesc), http.StatusBadRequest, "1004"},
		{"bad start date", `{"TaskRequest":{"title":"T","description":"D","startDate":"10/06/2024","dueDate":"2024-06-20"}}`, http.StatusBadRequest, "1005"},
		{"out of range start date", `{"TaskRequest":{"title":"T","description":"D","startDate":"2024-13-40","dueDate":"2024-06-20"}}`, http.StatusBadRequest, "1005"},
		{"bad due date", `{"TaskRequest":{"title":"T","description":"D","startDate":"2024-06-10","dueDate":"soon"}}`, http.StatusBadRequest, "1006"},
		{"due before start", `{"TaskRequest":{"title":"T","description":"D","startDate":"2024-06-20","dueDate":"2024-06-10"}}`, http.StatusUnprocessableEntity, "1007"},
		{"bad priority", `{"TaskRequest":{"title":"T","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20","priority":"URGENT"}}`, http.StatusBadRequest, "1009"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			signUp(t, env, "alice", "s3cret-pass")

			w := env.perform("POST", "/api/1.0/task", tc.payload, "alice")

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, decodeBody(t, w)))
		})
	}
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	id := createTask(t, env, "alice", validTask)

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d,"title":"Rewritten","description":"Updated numbers","startDate":"2024-06-11","dueDate":"2024-06-21","status":"PROGRESS"}}`, id)
	w := env.perform("PUT", "/api/1.0/task", payload, "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp, ok := body["TaskResponse"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "api.response.success.task_updated", resp["status"])

	stored := env.tasks.tasks[id]
	assert.Equal(t, "Rewritten", stored.Title)
	assert.Equal(t, "1", stored.Status)
}

func TestUpdateTaskKeepsStatusWhenAbsent(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	id := createTask(t, env, "alice", validTask)

	require.NoError(t, env.tasks.UpdateTaskStatus(id, "1", env.users.users["alice"].ID))

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d,"title":"T","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20"}}`, id)
	w := env.perform("PUT", "/api/1.0/task", payload, "alice")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "1", env.tasks.tasks[id].Status)
}

func TestUpdateTaskRejectsUnknownID(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")

	payload := `{"TaskRequest":{"id":99,"title":"T","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20"}}`
	w := env.perform("PUT", "/api/1.0/task", payload, "alice")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "1008", errorCode(t, decodeBody(t, w)))
}

func TestUpdateTaskRejectsForeignTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	signUp(t, env, "bob", "other-pass")
	id := createTask(t, env, "alice", validTask)

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d,"title":"T","description":"D","startDate":"2024-06-10","dueDate":"2024-06-20"}}`, id)
	w := env.perform("PUT", "/api/1.0/task", payload, "bob")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "1008", errorCode(t, decodeBody(t, w)))
}

func TestPatchTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	id := createTask(t, env, "alice", validTask)

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d,"status":"DONE"}}`, id)
	w := env.perform("PATCH", "/api/1.0/task", payload, "alice")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2", env.tasks.tasks[id].Status)
}

func TestPatchTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		status  int
		code    string
	}{
		{"missing id", `{"TaskRequest":{"status":"DONE"}}`, http.StatusBadRequest, "400"},
		{"missing status", `{"TaskRequest":{"id":1}}`, http.StatusBadRequest, "400"},
		{"bad status", `{"TaskRequest":{"id":1,"status":"SOMEDAY"}}`, http.StatusBadRequest, "1010"},
		{"unknown id", `{"TaskRequest":{"id":99,"status":"DONE"}}`, http.StatusUnprocessableEntity, "1008"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			signUp(t, env, "alice", "s3cret-pass")
			createTask(t, env, "alice", validTask)

			w := env.perform("PATCH", "/api/1.0/task", tc.payload, "alice")

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, decodeBody(t, w)))
		})
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	id := createTask(t, env, "alice", validTask)

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d}}`, id)
	w := env.perform("DELETE", "/api/1.0/task", payload, "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp, ok := body["TaskResponse"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "api.response.success.task_deleted", resp["status"])

	assert.NotContains(t, env.tasks.tasks, id)
}

func TestDeleteTaskRejectsForeignTask(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	signUp(t, env, "bob", "other-pass")
	id := createTask(t, env, "alice", validTask)

	payload := fmt.Sprintf(`{"TaskRequest":{"id":%d}}`, id)
	w := env.perform("DELETE", "/api/1.0/task", payload, "bob")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.tasks.tasks, id)
}

func listTarget(request string) string {
	if len(request) == 0 {
		return "/api/1.0/task/list"
	}

	return "/api/1.0/task/list?data=" + base64.StdEncoding.EncodeToString([]byte(request))
}

func TestListTasksDefaults(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	createTask(t, env, "alice", validTask)

	w := env.perform("GET", listTarget(""), "", "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp, ok := body["TaskResponse"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, float64(1), resp["totalRecords"])

	tasks, ok := resp["tasks"].([]interface{})
	require.True(t, ok)
	require.Len(t, tasks, 1)

	item, ok := tasks[0].(map[string]interface{})
	require.True(t, ok)

	// Labels, not codes.
	assert.Equal(t, "NEW", item["status"])
	assert.Equal(t, "NORMAL", item["priority"])
	assert.Equal(t, "Write report", item["title"])
	assert.Equal(t, "2024-06-10", item["startDate"])
	assert.Equal(t, "2024-06-02 08:30:00", item["createdAt"])
}

func TestListTasksFiltersByStatus(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	first := createTask(t, env, "alice", validTask)
	createTask(t, env, "alice", validTask)

	require.NoError(t, env.tasks.UpdateTaskStatus(first, "2", env.users.users["alice"].ID))

	w := env.perform("GET", listTarget(`{"TaskRequest":{"status":"DONE"}}`), "", "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp := body["TaskResponse"].(map[string]interface{})

	assert.Equal(t, float64(1), resp["totalRecords"])

	tasks := resp["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "DONE", tasks[0].(map[string]interface{})["status"])
}

func TestListTasksPaginates(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	for i := 0; i < 5; i++ {
		createTask(t, env, "alice", validTask)
	}

	w := env.perform("GET", listTarget(`{"TaskRequest":{"page":2,"limit":2}}`), "", "alice")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp := body["TaskResponse"].(map[string]interface{})

	// The total reflects every match, not the served page.
	assert.Equal(t, float64(5), resp["totalRecords"])

	tasks := resp["tasks"].([]interface{})
	require.Len(t, tasks, 2)
	assert.Equal(t, float64(3), tasks[0].(map[string]interface{})["taskId"])
	assert.Equal(t, float64(4), tasks[1].(map[string]interface{})["taskId"])
}

func TestListTasksOnlyShowsOwnTasks(t *testing.T) {
	env := newTestEnv()
	signUp(t, env, "alice", "s3cret-pass")
	signUp(t, env, "bob", "other-pass")
	createTask(t, env, "alice", validTask)

	w := env.perform("GET", listTarget(""), "", "bob")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	resp := body["TaskResponse"].(map[string]interface{})

	assert.Equal(t, float64(0), resp["totalRecords"])
	assert.Empty(t, resp["tasks"])
}

func TestListTasksValidation(t *testing.T) {
	tests := []struct {
		name    string
		request string
		code    string
	}{
		{"bad status", `{"TaskRequest":{"status":"SOMEDAY"}}`, "1010"},
		{"bad priority", `{"TaskRequest":{"priority":"URGENT"}}`, "1009"},
		{"zero page", `{"TaskRequest":{"page":0}}`, "1019"},
		{"negative limit", `{"TaskRequest":{"limit":-1}}`, "1019"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			signUp(t, env, "alice", "s3cret-pass")

			w := env.perform("GET", listTarget(tc.request), "", "alice")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, errorCode(t, decodeBody(t, w)))
		})
	}
}

func TestTaskRoutesRequireCredential(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		method string
		target string
	}{
		{"POST", "/api/1.0/task"},
		{"PUT", "/api/1.0/task"},
		{"PATCH", "/api/1.0/task"},
		{"DELETE", "/api/1.0/task"},
		{"GET", "/api/1.0/task/list"},
	}

	for _, tc := range tests {
		w := env.perform(tc.method, tc.target, "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.target)
		assert.Equal(t, "1002", errorCode(t, decodeBody(t, w)), "%s %s", tc.method, tc.target)
	}
}

func TestTaskRouteUnknownVerbAnswersMethodNotAllowed(t *testing.T) {
	env := newTestEnv()

	w := env.perform("HEAD", "/api/1.0/task", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "405", errorCode(t, decodeBody(t, w)))
}
