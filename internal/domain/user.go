package domain

import "time"

// User is the domain model for citizens and administrators. The is_admin
// flag is the only role distinction the system has.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
