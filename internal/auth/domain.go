package auth

import "time"

// User is one row of the operator credential table. The shop runs with a
// fixed, seeded set of operators (owner and counter staff); there is no
// self-service signup.
type User struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
