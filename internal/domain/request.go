package domain

import "time"

// InitialStatusID is the lifecycle stage assigned to every new request.
// It matches the seeded "received" row in the statuses table.
const InitialStatusID int64 = 1

// Category classifies requests. Read-only reference data.
type Category struct {
	ID   int64
	Name string
}

// Status is an enumerated lifecycle stage. Read-only reference data.
type Status struct {
	ID   int64
	Name string
}

// Request is the PQRSSI aggregate: a petition, complaint, claim or
// suggestion submitted by a user. Its status is the only mutable field.
type Request struct {
	ID          int64
	Type        string
	Description string
	UserID      int64
	StatusID    int64
	CategoryID  int64
	CreatedAt   time.Time
}

// RequestSummary is a request joined with its human-readable labels,
// as returned by listing queries.
type RequestSummary struct {
	ID          int64
	Type        string
	Description string
	Status      string
	Category    string
	Submitter   string
	CreatedAt   time.Time
}

// HistoryEntry is an immutable audit record of a request's status at a
// point in time. Entries are append-only: one at creation, one per
// status change.
type HistoryEntry struct {
	ID        int64
	RequestID int64
	StatusID  int64
	Status    string
	Comment   string
	CreatedAt time.Time
}
