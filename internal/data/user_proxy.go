package data

import (
	"fmt"

	"tasker_server/internal/model"
	"tasker_server/pkg/db"
	"tasker_server/pkg/logger"
)

// UserProxy :
// Intended as a wrapper to access properties of the users
// registered in the store. The proxy only exposes the few
// operations the user handlers need and keeps the layout
// of the `users` table private.
type UserProxy struct {
	commonProxy
}

// NewUserProxy :
// Create a new proxy allowing to serve the requests
// related to users.
//
// The `dbase` defines the database to wrap.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewUserProxy(dbase *db.DB, log logger.Logger) UserProxy {
	return UserProxy{
		commonProxy: newCommonProxy(dbase, log, "users"),
	}
}

// GetUser :
// Fetches the user registered under the input username,
// including the hash of its password so that credential
// checks can be performed by the caller.
//
// The `username` defines the user to fetch.
//
// Returns the user along with any error. A username that
// matches no record yields `db.ErrNoRows`.
func (p UserProxy) GetUser(username string) (model.User, error) {
	var user model.User

	rows, err := p.dbase.DBQuery(
		"SELECT id, username, password, first_name, last_name, created_at FROM users WHERE username = $1",
		username,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not query user \"%s\" (err: %v)", username, err))
		return user, db.FormatDBError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return user, db.ErrNoRows
	}

	err = rows.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not scan user \"%s\" (err: %v)", username, err))
		return user, db.FormatDBError(err)
	}

	return user, nil
}

// CreateUser :
// Registers a new user in the store. The password carried
// by the input user is expected to already be hashed.
//
// The `user` defines the profile to register.
//
// Returns the identifier assigned to the created user
// along with any error.
func (p UserProxy) CreateUser(user model.User) (int64, error) {
	var id int64

	rows, err := p.dbase.DBQuery(
		"INSERT INTO users (username, password, first_name, last_name, created_at) VALUES ($1, $2, $3, $4, now()) RETURNING id",
		user.Username,
		user.Password,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not create user \"%s\" (err: %v)", user.Username, err))
		return id, db.FormatDBError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return id, db.ErrNoRows
	}

	err = rows.Scan(&id)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not scan identifier of user \"%s\" (err: %v)", user.Username, err))
		return id, db.FormatDBError(err)
	}

	return id, nil
}

// UpdateUser :
// Updates the civil name of the user registered under the
// input username. A `nil` first or last name leaves the
// corresponding column untouched.
//
// The `username` defines the user to update.
//
// The `firstName` and `lastName` define the new values,
// or `nil` to keep the persisted ones.
//
// Returns any error.
func (p UserProxy) UpdateUser(username string, firstName *string, lastName *string) error {
	_, err := p.dbase.DBExecute(
		"UPDATE users SET first_name = COALESCE($2, first_name), last_name = COALESCE($3, last_name) WHERE username = $1",
		username,
		firstName,
		lastName,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update user \"%s\" (err: %v)", username, err))
		return db.FormatDBError(err)
	}

	return nil
}

// UpdatePassword :
// Replaces the password hash of the user registered under
// the input identifier.
//
// The `id` defines the user to update.
//
// The `hash` defines the new password hash.
//
// Returns any error.
func (p UserProxy) UpdatePassword(id int64, hash string) error {
	_, err := p.dbase.DBExecute(
		"UPDATE users SET password = $2 WHERE id = $1",
		id,
		hash,
	)
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not update password of user %d (err: %v)", id, err))
		return db.FormatDBError(err)
	}

	return nil
}
