package rest

import (
	"encoding/base64"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader :
// Serves the wrapped content one byte at a time so that a
// multi-byte sequence is guaranteed to be split across reads.
type chunkedReader struct {
	content []byte
	offset  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.offset >= len(r.content) {
		return 0, io.EOF
	}

	p[0] = r.content[r.offset]
	r.offset++

	return 1, nil
}

func TestReadPayloadDrainsTheBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/1.0/task", strings.NewReader(`{"TaskRequest":{}}`))

	payload, err := ReadPayload(req)
	require.NoError(t, err)

	assert.Equal(t, `{"TaskRequest":{}}`, payload.Content)
	assert.Empty(t, payload.URLContent)
}

func TestReadPayloadReassemblesMultiByteSequences(t *testing.T) {
	content := `{"title":"résumé ☕"}`
	req := httptest.NewRequest("POST", "/api/1.0/task", &chunkedReader{content: []byte(content)})

	payload, err := ReadPayload(req)
	require.NoError(t, err)

	assert.Equal(t, content, payload.Content)
}

func TestReadPayloadDecodesTheDataParameter(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"TaskRequest":{"page":2}}`))
	req := httptest.NewRequest("GET", "/api/1.0/task/list?data="+encoded, nil)

	payload, err := ReadPayload(req)
	require.NoError(t, err)

	assert.Equal(t, `{"TaskRequest":{"page":2}}`, payload.URLContent)
}

func TestReadPayloadIgnoresUndecodableDataParameter(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/1.0/task/list?data=%21not-base64%21", nil)

	payload, err := ReadPayload(req)
	require.NoError(t, err)

	assert.Empty(t, payload.URLContent)
}

func TestReadPayloadAcceptsMissingBody(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/1.0/task/list", nil)
	req.Body = nil

	payload, err := ReadPayload(req)
	require.NoError(t, err)

	assert.Empty(t, payload.Content)
}
