package rest

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Identity :
// Describes the decoded, verified payload of a bearer credential.
// An identity only lives for the duration of one request: it is
// produced by the authentication gate and attached to the request
// context before the handler is invoked.
//
// The `Username` defines the user on behalf of which the request
// is performed.
//
// The `IssuedAt`, `NotBefore` and `ExpiresAt` describe the window
// of validity of the credential the identity was decoded from.
type Identity struct {
	Username  string
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// Payload :
// Gathers the textual content carried by a request. Write style
// requests transport their payload in the body while read style
// requests (which cannot carry a body by HTTP semantics) encode
// it in the `data` query parameter.
//
// The `URLContent` is the decoded value of the `data` query
// parameter, or an empty string when the parameter is absent.
//
// The `Content` is the fully drained body decoded as UTF-8 text.
type Payload struct {
	URLContent string
	Content    string
}

// ReadPayload :
// Accumulates the request's byte stream into a decoded payload.
// The body is drained until the stream signals completion which
// guarantees that multi-byte sequences split across chunks are
// reassembled correctly before the conversion to text.
// The `data` query parameter, when present, is base64 decoded
// into the URL content. An undecodable value yields an empty URL
// content rather than an error: only a transport failure makes
// this operation fail.
//
// The `r` defines the request to read.
//
// Returns the accumulated payload along with any transport error.
func ReadPayload(r *http.Request) (Payload, error) {
	var payload Payload

	// Extract the optional URL content first.
	raw := r.URL.Query().Get("data")
	if len(raw) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err == nil {
			payload.URLContent = string(decoded)
		}
	}

	// Drain the body. A `nil` body happens for some requests
	// built programmatically and is equivalent to an empty one.
	if r.Body == nil {
		return payload, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return payload, fmt.Errorf("could not read request body (err: %v)", err)
	}

	payload.Content = string(content)

	return payload, nil
}
