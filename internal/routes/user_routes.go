package routes

import (
	"context"
	"fmt"
	"net/http"

	"tasker_server/internal/model"
	"tasker_server/pkg/db"
	"tasker_server/pkg/dispatcher"
	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"

	"golang.org/x/crypto/bcrypt"
)

// oauthResponse :
// The payload answered to a successful sign in.
type oauthResponse struct {
	AccessToken string `json:"accessToken"`
}

// profileResponse :
// The payload answered by the profile fetch route.
type profileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
}

// statusResponse :
// The payload answered by the mutating routes: a single
// translation key hinting at what succeeded.
type statusResponse struct {
	Status string `json:"status"`
}

// createAuthToken :
// Used to verify the credentials carried by a sign in request
// and to issue a bearer token when they match a registered
// user. A client probing the route cannot tell an unknown
// user from a wrong password: both answer with the same
// invalid credentials error.
//
// Returns the handler to execute to serve such requests.
func (s *server) createAuthToken() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		creds, err := parseCredentials(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}

		user, err := s.users.GetUser(creds.Username)
		if err == db.ErrNoRows {
			return rest.Result{}, rest.NewError(http.StatusUnprocessableEntity, rest.InvalidCred)
		}
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to fetch user \"%s\" (err: %v)", creds.Username, err))
			return rest.Result{}, internalError(err)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
			return rest.Result{}, rest.NewError(http.StatusUnprocessableEntity, rest.InvalidCred)
		}

		token, err := s.tokens.IssueToken(user.Username)
		if err != nil {
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key:    oauthResponseKey,
			Value:  oauthResponse{AccessToken: token},
			Status: http.StatusOK,
		}, nil
	}
}

// getUserProfile :
// Used to fetch the profile of the user identified by the
// credential attached to the request.
//
// Returns the handler to execute to serve such requests.
func (s *server) getUserProfile() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		user, err := s.users.GetUser(id.Username)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to fetch profile for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key: profileResponseKey,
			Value: profileResponse{
				Username:  user.Username,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				CreatedAt: user.CreatedAt.Format(model.TimestampFormat),
			},
			Status: http.StatusOK,
		}, nil
	}
}

// updateUserProfile :
// Used to update the first or last name of the user identified
// by the credential attached to the request. Fields absent from
// the payload are left untouched.
//
// Returns the handler to execute to serve such requests.
func (s *server) updateUserProfile() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseProfileRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if err := validateProfileUpdate(req); err != nil {
			return rest.Result{}, err
		}

		if err := s.users.UpdateUser(id.Username, req.FirstName, req.LastName); err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to update profile for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key:    profileResponseKey,
			Value:  statusResponse{Status: profileUpdatedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// createUserProfile :
// Used to register a new user. The route is reachable without
// a credential. The username must not be already registered
// and the password is hashed before being persisted.
//
// Returns the handler to execute to serve such requests.
func (s *server) createUserProfile() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		req, err := parseProfileRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if err := validateNewProfile(req); err != nil {
			return rest.Result{}, err
		}

		_, err = s.users.GetUser(*req.Username)
		if err == nil {
			return rest.Result{}, rest.NewError(http.StatusUnprocessableEntity, rest.UsernameTaken)
		}
		if err != db.ErrNoRows {
			s.trace(logger.Error, fmt.Sprintf("Unable to check username \"%s\" (err: %v)", *req.Username, err))
			return rest.Result{}, internalError(err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to hash password for \"%s\" (err: %v)", *req.Username, err))
			return rest.Result{}, internalError(err)
		}

		user := model.User{
			Username:  *req.Username,
			Password:  string(hash),
			FirstName: *req.FirstName,
			LastName:  *req.LastName,
		}

		if _, err := s.users.CreateUser(user); err != nil {
			// Two concurrent registrations of the same name can
			// both pass the lookup above: the unique constraint
			// on the store catches the loser.
			if _, ok := err.(db.DuplicatedElementError); ok {
				return rest.Result{}, rest.NewError(http.StatusUnprocessableEntity, rest.UsernameTaken)
			}

			s.trace(logger.Error, fmt.Sprintf("Unable to register user \"%s\" (err: %v)", *req.Username, err))
			return rest.Result{}, internalError(err)
		}

		s.trace(logger.Info, fmt.Sprintf("Registered new user \"%s\"", *req.Username))

		return rest.Result{
			Key:    profileResponseKey,
			Value:  statusResponse{Status: userCreatedStatus},
			Status: http.StatusOK,
		}, nil
	}
}

// changeUserPassword :
// Used to replace the password of the user identified by the
// credential attached to the request. The current password is
// verified before the new one is hashed and persisted.
//
// Returns the handler to execute to serve such requests.
func (s *server) changeUserPassword() dispatcher.Handler {
	return func(ctx context.Context, payload rest.Payload) (rest.Result, error) {
		id, err := identityFromRequest(ctx)
		if err != nil {
			return rest.Result{}, err
		}

		req, err := parseProfileRequest(payload.Content)
		if err != nil {
			return rest.Result{}, err
		}
		if err := validatePasswordChange(req); err != nil {
			return rest.Result{}, err
		}

		user, err := s.users.GetUser(id.Username)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to fetch user \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(*req.OldPassword)) != nil {
			return rest.Result{}, rest.NewError(http.StatusUnprocessableEntity, rest.InvalidOldPass)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to hash password for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
			s.trace(logger.Error, fmt.Sprintf("Unable to change password for \"%s\" (err: %v)", id.Username, err))
			return rest.Result{}, internalError(err)
		}

		return rest.Result{
			Key:    profileResponseKey,
			Value:  statusResponse{Status: passwordChangedStatus},
			Status: http.StatusOK,
		}, nil
	}
}
