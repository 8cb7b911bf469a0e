package domain

import "time"

// Session is the server-side record the session provider keeps per login.
// The client only ever holds an opaque token that resolves to this record.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	LoggedIn  bool      `json:"logged_in"`
	CreatedAt time.Time `json:"created_at"`
}
