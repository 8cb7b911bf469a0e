package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pqrssi-service/internal/domain"
)

// RequestRepository encapsulates request and history persistence. Both
// mutation methods pair their two writes inside a single transaction:
// a request row without its history entry (or the reverse) must never
// be observable.
type RequestRepository interface {
	CreateWithHistory(ctx context.Context, request *domain.Request, comment string) error
	UpdateStatusWithHistory(ctx context.Context, requestID, statusID int64, comment string) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	ListAll(ctx context.Context) ([]domain.RequestSummary, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.RequestSummary, error)
	HistoryByRequest(ctx context.Context, requestID int64) ([]domain.HistoryEntry, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) CreateWithHistory(ctx context.Context, request *domain.Request, comment string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertRequest = `
        INSERT INTO requests (type, description, user_id, status_id, category_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertRequest,
		request.Type,
		request.Description,
		request.UserID,
		request.StatusID,
		request.CategoryID,
	).Scan(&request.ID, &request.CreatedAt); err != nil {
		return err
	}

	const insertHistory = `
        INSERT INTO request_history (request_id, status_id, comment)
        VALUES ($1,$2,$3)`
	if _, err := tx.Exec(ctx, insertHistory, request.ID, request.StatusID, comment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *requestRepository) UpdateStatusWithHistory(ctx context.Context, requestID, statusID int64, comment string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const updateStatus = `UPDATE requests SET status_id=$1 WHERE id=$2`
	cmd, err := tx.Exec(ctx, updateStatus, statusID, requestID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertHistory = `
        INSERT INTO request_history (request_id, status_id, comment)
        VALUES ($1,$2,$3)`
	if _, err := tx.Exec(ctx, insertHistory, requestID, statusID, comment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	const query = `
        SELECT id, type, description, user_id, status_id, category_id, created_at
        FROM requests WHERE id=$1`
	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.Type,
		&request.Description,
		&request.UserID,
		&request.StatusID,
		&request.CategoryID,
		&request.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

const summarySelect = `
        SELECT p.id, p.type, p.description, s.name AS status, c.name AS category, u.name AS submitter, p.created_at
        FROM requests p
        JOIN statuses s ON p.status_id = s.id
        JOIN categories c ON p.category_id = c.id
        JOIN users u ON p.user_id = u.id`

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.RequestSummary, error) {
	rows, err := r.pool.Query(ctx, summarySelect+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *requestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RequestSummary, error) {
	rows, err := r.pool.Query(ctx, summarySelect+` WHERE p.user_id=$1 ORDER BY p.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *requestRepository) HistoryByRequest(ctx context.Context, requestID int64) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT h.id, h.request_id, h.status_id, s.name AS status, h.comment, h.created_at
        FROM request_history h
        JOIN statuses s ON h.status_id = s.id
        WHERE h.request_id=$1
        ORDER BY h.created_at ASC, h.id ASC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.StatusID,
			&entry.Status,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanSummaries(rows pgx.Rows) ([]domain.RequestSummary, error) {
	var result []domain.RequestSummary
	for rows.Next() {
		var summary domain.RequestSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Type,
			&summary.Description,
			&summary.Status,
			&summary.Category,
			&summary.Submitter,
			&summary.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}
