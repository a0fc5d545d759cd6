package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleConsolidatesTheMethodCase(t *testing.T) {
	route := newRoute("task", nopLogger{})
	route.Handle("post", false, okHandler("TaskResponse"))

	_, match := route.match("POST")
	assert.Equal(t, matched, match)
}

func TestHandleFiltersInvalidVerbs(t *testing.T) {
	route := newRoute("task", nopLogger{})
	route.Handle("FROB", false, okHandler("TaskResponse"))

	assert.Empty(t, route.methods)
}

func TestFilterMethod(t *testing.T) {
	consolidated, ok := filterMethod("patch", nopLogger{})
	assert.True(t, ok)
	assert.Equal(t, "PATCH", consolidated)

	_, ok = filterMethod("FROB", nopLogger{})
	assert.False(t, ok)
}
