package rest

import (
	"encoding/json"
	"net/http"
)

// Fixed message keys attached to every envelope so that clients
// can resolve them against their own translation catalog.
const (
	successReasonText = "api.response.success_message"
	failureReasonText = "api.response.failure_message"
)

// Reason codes identifying the two possible outcomes of a call.
const (
	successReasonCode = "0"
	failureReasonCode = "1"
)

// Result :
// Describes the success value produced by a handler. It gathers
// everything the envelope builder needs to shape the response:
// the resource key under which the value is exposed, the value
// itself and the HTTP status to answer with.
//
// The `Key` defines the resource key of the envelope (typically
// "TaskResponse" or "ProfileResponse").
//
// The `Value` defines the object serialized under the resource
// key.
//
// The `Status` defines the HTTP status code to answer with.
type Result struct {
	Key    string
	Value  interface{}
	Status int
}

// WriteSuccess :
// Converts the input result into the fixed success envelope and
// writes it to the response along with the provided status code.
// A success envelope carries a reason code of "0", the success
// message key and exactly one resource key; it never carries an
// `error` field.
// This call is terminal: it writes the headers and the complete
// serialized body. Calling it twice on the same response is a
// caller bug.
//
// The `w` defines the response writer to use.
//
// The `key` defines the resource key to expose the value under.
//
// The `value` defines the object exposed under the resource key.
//
// The `status` defines the HTTP status code to answer with.
//
// Returns any error encountered while writing the body.
func WriteSuccess(w http.ResponseWriter, key string, value interface{}, status int) error {
	body := map[string]interface{}{
		"reasonCode": successReasonCode,
		"reasonText": successReasonText,
		key:          value,
	}

	return writeEnvelope(w, status, body)
}

// WriteError :
// Converts the input error key into the fixed failure envelope
// and writes it to the response along with the provided status
// code. A failure envelope carries a reason code of "1", the
// failure message key and the description registered for the
// key in the error table; it never carries a resource key.
// This call is terminal just like `WriteSuccess`.
//
// The `w` defines the response writer to use.
//
// The `key` indexes the fixed error table.
//
// The `status` defines the HTTP status code to answer with.
//
// Returns any error encountered while writing the body.
func WriteError(w http.ResponseWriter, key ErrorKey, status int) error {
	body := map[string]interface{}{
		"reasonCode": failureReasonCode,
		"reasonText": failureReasonText,
		"error":      Describe(key),
	}

	return writeEnvelope(w, status, body)
}

// writeEnvelope :
// Performs the final shaping of a response: serializes the body,
// sets the content type, writes the headers and then the body.
// Note that marshalling of a map produces keys in a sorted order
// so identical inputs yield byte identical envelopes.
//
// The `w` defines the response writer to use.
//
// The `status` defines the HTTP status code to answer with.
//
// The `body` defines the envelope to serialize.
//
// Returns any error encountered while writing the body.
func writeEnvelope(w http.ResponseWriter, status int, body map[string]interface{}) error {
	out, err := json.Marshal(body)
	if err != nil {
		// The envelope itself could not be serialized: answer with
		// a bare internal error so that the client still gets one
		// response.
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)

		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)

	return err
}
