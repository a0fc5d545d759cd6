package routes

import (
	"encoding/json"
	"net/http"

	"tasker_server/internal/model"
	"tasker_server/pkg/rest"
)

// Bounds applied to the textual fields of the user routes.
const (
	maxCredentialLength = 100
	maxNameLength       = 100
	maxPasswordLength   = 100
)

// credentials :
// Convenience structure holding the content of a sign in
// request once validated.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// parseCredentials :
// Interpret the body of a sign in request. The payload is
// expected to contain exactly a username and a password,
// both within the accepted length. Anything else is
// reported as invalid credentials so that a probing client
// cannot tell a malformed request from a wrong password.
//
// The `content` defines the raw body of the request.
//
// Returns the parsed credentials along with any error.
func parseCredentials(content string) (credentials, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return credentials{}, rest.NewError(http.StatusBadRequest, rest.InvalidCred)
	}

	var creds credentials
	if err := json.Unmarshal([]byte(content), &creds); err != nil {
		return credentials{}, rest.NewError(http.StatusBadRequest, rest.InvalidCred)
	}

	_, hasUser := raw["username"]
	_, hasPass := raw["password"]
	if len(raw) != 2 || !hasUser || !hasPass {
		return credentials{}, rest.NewError(http.StatusBadRequest, rest.InvalidCred)
	}

	if len(creds.Username) == 0 || len(creds.Username) > maxCredentialLength ||
		len(creds.Password) == 0 || len(creds.Password) > maxCredentialLength {
		return credentials{}, rest.NewError(http.StatusBadRequest, rest.InvalidCred)
	}

	return creds, nil
}

// parseProfileRequest :
// Interpret the body of one of the user routes. The body
// is expected to nest the payload under a `ProfileRequest`
// key. A body that cannot be interpreted or that misses
// the payload is reported as a bad request.
//
// The `content` defines the raw body of the request.
//
// Returns the parsed payload along with any error.
func parseProfileRequest(content string) (*model.ProfileRequest, error) {
	var env model.ProfileRequestEnvelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if env.ProfileRequest == nil {
		return nil, rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	return env.ProfileRequest, nil
}

// validateNewProfile :
// Make sure that a profile creation request carries all
// the mandatory fields within the accepted lengths.
//
// The `req` defines the payload to validate.
//
// Returns any validation error.
func validateNewProfile(req *model.ProfileRequest) error {
	if req.Username == nil || req.Password == nil || req.FirstName == nil || req.LastName == nil {
		return rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if len(*req.Username) == 0 || len(*req.Username) > maxCredentialLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidUsernameLen)
	}
	if len(*req.Password) == 0 || len(*req.Password) > maxPasswordLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidPassLen)
	}
	if len(*req.FirstName) == 0 || len(*req.FirstName) > maxNameLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidFirstNameLen)
	}
	if len(*req.LastName) == 0 || len(*req.LastName) > maxNameLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidLastNameLen)
	}

	return nil
}

// validateProfileUpdate :
// Make sure that a profile update request carries at least
// one of the updatable fields and that the provided fields
// stay within the accepted lengths.
//
// The `req` defines the payload to validate.
//
// Returns any validation error.
func validateProfileUpdate(req *model.ProfileRequest) error {
	if req.FirstName == nil && req.LastName == nil {
		return rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if req.FirstName != nil && (len(*req.FirstName) == 0 || len(*req.FirstName) > maxNameLength) {
		return rest.NewError(http.StatusUnprocessableEntity, rest.InvalidFirstNameLen)
	}
	if req.LastName != nil && (len(*req.LastName) == 0 || len(*req.LastName) > maxNameLength) {
		return rest.NewError(http.StatusUnprocessableEntity, rest.InvalidLastNameLen)
	}

	return nil
}

// validatePasswordChange :
// Make sure that a password change request carries both
// the old and the new password within accepted lengths.
//
// The `req` defines the payload to validate.
//
// Returns any validation error.
func validatePasswordChange(req *model.ProfileRequest) error {
	if req.OldPassword == nil || req.NewPassword == nil {
		return rest.NewError(http.StatusBadRequest, rest.BadRequest)
	}

	if len(*req.OldPassword) == 0 || len(*req.OldPassword) > maxPasswordLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidOldPassLen)
	}
	if len(*req.NewPassword) == 0 || len(*req.NewPassword) > maxPasswordLength {
		return rest.NewError(http.StatusBadRequest, rest.InvalidNewPassLen)
	}

	return nil
}
