package model

import "time"

// User :
// Describes a user as persisted in the store.
//
// The `ID` defines the identifier of the user.
//
// The `Username` defines the unique name the user signs
// in with.
//
// The `Password` defines the hash of the password of the
// user. The clear text password never reaches this type.
//
// The `FirstName` and `LastName` define the civil name of
// the user.
//
// The `CreatedAt` defines the creation timestamp of the
// profile.
type User struct {
	ID        int64
	Username  string
	Password  string
	FirstName string
	LastName  string
	CreatedAt time.Time
}
