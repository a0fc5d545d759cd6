package routes

import (
	"context"
	"net/http"

	"tasker_server/pkg/dispatcher"
	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"
)

// Keys under which the payload of a successful answer is
// nested in the response envelope.
const (
	oauthResponseKey   = "OAuthResponse"
	profileResponseKey = "ProfileResponse"
	taskResponseKey    = "TaskResponse"
)

// Status hints returned to the client upon a successful
// mutating operation. They are translation keys and are
// not meant to be displayed verbatim.
const (
	userCreatedStatus     = "api.response.success.user_created"
	profileUpdatedStatus  = "api.response.success.profile_updated"
	passwordChangedStatus = "api.response.success.change_pass"
	taskCreatedStatus     = "api.response.success.task_created"
	taskUpdatedStatus     = "api.response.success.task_updated"
	taskDeletedStatus     = "api.response.success.task_deleted"
)

// identityFromRequest :
// Retrieve the identity attached to the request by the
// dispatcher when the credential was verified. A request
// reaching a protected handler without an identity is
// malformed so the error reflects that.
//
// The `ctx` defines the context of the request.
//
// Returns the identity along with any error.
func identityFromRequest(ctx context.Context) (rest.Identity, error) {
	id, ok := dispatcher.IdentityFromContext(ctx)
	if !ok || id.Username == "" {
		return rest.Identity{}, rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	return id, nil
}

// internalError :
// Convert an error reported by a collaborator into an
// error understood by the dispatcher. Errors that already
// carry a status are returned unchanged, anything else is
// reported as an internal failure.
//
// The `err` defines the error to convert.
//
// Returns the converted error.
func internalError(err error) error {
	if _, ok := err.(rest.Error); ok {
		return err
	}

	return rest.NewError(http.StatusInternalServerError, rest.InternalErr)
}

// trace :
// Convenience wrapper around the logger of the server to
// trace messages with the module of this package.
//
// The `level` defines the severity of the message.
//
// The `msg` defines the content of the trace.
func (s *server) trace(level logger.Severity, msg string) {
	s.log.Trace(level, module, msg)
}
