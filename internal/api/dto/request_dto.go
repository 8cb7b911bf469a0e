package dto

import "time"

// CreateRequestPayload is the submit form body.
type CreateRequestPayload struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

// ChangeStatusPayload is the admin status-change body.
type ChangeStatusPayload struct {
	StatusID int64  `json:"status_id"`
	Comment  string `json:"comment"`
}

// RequestResponse is the created-request view.
type RequestResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	StatusID    int64     `json:"status_id"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestSummaryResponse is a listing row joined with labels.
type RequestSummaryResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	Submitter   string    `json:"submitter"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntryResponse is one audit-trail row.
type HistoryEntryResponse struct {
	ID        int64     `json:"id"`
	StatusID  int64     `json:"status_id"`
	Status    string    `json:"status"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferenceItem is a category or status label.
type ReferenceItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
