package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccessShapesTheEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteSuccess(w, "TaskResponse", map[string]interface{}{"taskId": 32}, http.StatusOK)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "0", body["reasonCode"])
	assert.Equal(t, "api.response.success_message", body["reasonText"])
	assert.Contains(t, body, "TaskResponse")
	assert.NotContains(t, body, "error")
	assert.Len(t, body, 3)
}

func TestWriteErrorShapesTheEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteError(w, InvalidCred, http.StatusUnprocessableEntity)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "1", body["reasonCode"])
	assert.Equal(t, "api.response.failure_message", body["reasonText"])
	assert.Len(t, body, 3)

	desc, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1001", desc["code"])
	assert.Equal(t, "api.response.error.invalid_cred", desc["message"])
}

func TestIdenticalResultsYieldByteIdenticalEnvelopes(t *testing.T) {
	first := httptest.NewRecorder()
	second := httptest.NewRecorder()

	require.NoError(t, WriteSuccess(first, "ProfileResponse", map[string]interface{}{"status": "ok"}, http.StatusOK))
	require.NoError(t, WriteSuccess(second, "ProfileResponse", map[string]interface{}{"status": "ok"}, http.StatusOK))

	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestDescribeKnownKeys(t *testing.T) {
	tests := []struct {
		key     ErrorKey
		code    string
		message string
	}{
		{ResNotFound, "404", "api.response.error.not_found"},
		{OpNotAllowed, "405", "api.response.error.operation_not_allowed"},
		{InternalErr, "500", "api.response.error.internal_err"},
		{BadRequest, "400", "api.response.error.bad_request"},
		{InvalidToken, "1002", "api.response.error.invalid_token"},
		{DueGreaterThanStartDate, "1007", "api.response.error.due_greater_start_date"},
		{UsernameTaken, "1015", "api.response.error.username_taken"},
		{InvalidPageVal, "1019", "api.response.error.invalid_page_val"},
	}

	for _, tc := range tests {
		desc := Describe(tc.key)
		assert.Equal(t, tc.code, desc.Code, "key %s", tc.key)
		assert.Equal(t, tc.message, desc.Message, "key %s", tc.key)
	}
}

func TestDescribeUnknownKeyFallsBackToInternalError(t *testing.T) {
	desc := Describe(ErrorKey("NOSUCHKEY"))

	assert.Equal(t, "500", desc.Code)
	assert.Equal(t, "api.response.error.internal_err", desc.Message)
}

func TestErrorImplementsError(t *testing.T) {
	err := NewError(http.StatusUnprocessableEntity, InvalidTaskID)

	assert.Equal(t, "api error INVALIDTASKID (status: 422)", err.Error())
}
