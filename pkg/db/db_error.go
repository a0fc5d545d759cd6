package db

import (
	"fmt"

	"github.com/jackc/pgx"
)

// ErrInvalidDB :
// Provides an abstract way to define that an error
// occurred while accessing some properties on the
// DB. This is especially useful to define whether
// an error returned by a proxy originates in a
// failure of the DB.
var ErrInvalidDB = fmt.Errorf("invalid nil DB")

// ErrNoRows :
// Used to indicate that a query expected to fetch
// at least one row did not match anything. Callers
// can use it to distinguish an absent record from
// an actual DB failure.
var ErrNoRows = fmt.Errorf("no rows matched by DB query")

// Defines the possible error codes as returned by
// the SQL driver.
const (
	nonNullConstraint   = "23502"
	foreignKeyViolation = "23503"
	duplicatedElement   = "23505"
)

// Error :
// Defines a generic error type which is associated to a
// SQL error. It basically defines the code that was set
// as return value for the SQL query along with the initial
// error.
//
// The `SQLCode` defines the SQL error code returned by
// the query.
//
// The `Err` defines the initial error that produced
// this `DBError`.
type Error struct {
	SQLCode string
	Err     error
}

// Error :
// Implementation of the `error` interface to provide a
// description of the error.
func (e Error) Error() string {
	return fmt.Sprintf("SQL query failed with code %s (err: %v)", e.SQLCode, e.Err)
}

// NonNullConstraintError :
// Used to define an error indicating that a non null
// constraint was violated by an insert request.
//
// The `Column` defines the name of the column that
// was meant to be populated with a null value which
// was not possible due to a constraint.
//
// The `Err` defines the initial error that caused
// the non null violation error.
type NonNullConstraintError struct {
	Column string
	Err    error
}

// Error :
// Implementation of the `error` interface.
func (e NonNullConstraintError) Error() string {
	return fmt.Sprintf("query violates non null constraint on column \"%s\"", e.Column)
}

// DuplicatedElementError :
// Used to define a duplicated element in a table which
// leads to a unique key error.
//
// The `Constraint` defines the name of the unique key
// constraint that was violated by the request.
//
// The `Err` defines the initial error that caused the
// duplicated element error.
type DuplicatedElementError struct {
	Constraint string
	Err        error
}

// Error :
// Implementation of the `error` interface.
func (e DuplicatedElementError) Error() string {
	return fmt.Sprintf("query violates unique constraint \"%s\"", e.Constraint)
}

// ForeignKeyViolationError :
// Used to define a foreign key violation in a table
// which leads to inconsistent data.
//
// The `Table` defines the name of the table attached
// to the error.
//
// The `ForeignKey` defines the key that was actually
// violated by the request.
//
// The `Err` defines the initial error that caused the
// foreign key violation error.
type ForeignKeyViolationError struct {
	Table      string
	ForeignKey string
	Err        error
}

// Error :
// Implementation of the `error` interface.
func (e ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("query violates foreign key \"%s\" on table \"%s\"", e.ForeignKey, e.Table)
}

// FormatDBError :
// Used to convert the raw error returned by the driver
// into one of the specialized error types provided by
// this package whenever the SQL error code is known.
// Unknown codes are wrapped into the generic `Error`
// type so that the code stays available to callers.
//
// The `err` defines the raw error to analyze. A `nil`
// value is returned unchanged.
//
// Returns the converted error.
func FormatDBError(err error) error {
	if err == nil {
		return nil
	}

	// Only errors reported by the driver carry a SQL
	// error code.
	pgErr, ok := err.(pgx.PgError)
	if !ok {
		return err
	}

	switch pgErr.Code {
	case nonNullConstraint:
		return NonNullConstraintError{
			Column: pgErr.ColumnName,
			Err:    err,
		}
	case foreignKeyViolation:
		return ForeignKeyViolationError{
			Table:      pgErr.TableName,
			ForeignKey: pgErr.ConstraintName,
			Err:        err,
		}
	case duplicatedElement:
		return DuplicatedElementError{
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}

	return Error{
		SQLCode: pgErr.Code,
		Err:     err,
	}
}
