package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/events"
	"github.com/spec-kit/pqrssi-service/internal/repository"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// History comments written by the lifecycle engine. The status-change
// comment wraps whatever text the administrator supplied.
const (
	creationComment           = "request created"
	statusChangeCommentFormat = "status changed by administrator: %s"
)

// LifecycleService owns the request state machine: creation, status
// transitions and the append-only history trail.
type LifecycleService struct {
	requests   repository.RequestRepository
	categories repository.CategoryRepository
	statuses   repository.StatusRepository
	dispatcher events.Dispatcher
}

// LifecycleDependencies bundles repositories for the lifecycle service.
type LifecycleDependencies struct {
	RequestRepo  repository.RequestRepository
	CategoryRepo repository.CategoryRepository
	StatusRepo   repository.StatusRepository
	Dispatcher   events.Dispatcher
}

// RequestCreateInput describes the submit payload.
type RequestCreateInput struct {
	Type        string
	Description string
	CategoryID  int64
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		requests:   deps.RequestRepo,
		categories: deps.CategoryRepo,
		statuses:   deps.StatusRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateRequest registers a new request at the initial status and writes
// its first history entry in the same transaction.
func (s *LifecycleService) CreateRequest(ctx context.Context, submitterID int64, input RequestCreateInput) (*domain.Request, error) {
	requestType := strings.TrimSpace(input.Type)
	description := strings.TrimSpace(input.Description)
	if requestType == "" || description == "" {
		return nil, apperrors.NewValidationError("type and description required", nil)
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.NewStorageFailure(err)
	}

	request := &domain.Request{
		Type:        requestType,
		Description: description,
		UserID:      submitterID,
		StatusID:    domain.InitialStatusID,
		CategoryID:  input.CategoryID,
	}
	if err := s.requests.CreateWithHistory(ctx, request, creationComment); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		ActorID:   submitterID,
		Payload: events.RequestCreatedPayload{
			Type:       request.Type,
			CategoryID: request.CategoryID,
			StatusID:   request.StatusID,
		},
	})
	return request, nil
}

// ChangeStatus moves a request to a new status and appends the matching
// history entry in the same transaction. Re-applying the current status
// is allowed and still appends an entry.
func (s *LifecycleService) ChangeStatus(ctx context.Context, requestID, newStatusID int64, comment string) (*domain.Request, error) {
	if _, err := s.statuses.GetByID(ctx, newStatusID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("status", map[string]any{"status_id": newStatusID})
		}
		return nil, apperrors.NewStorageFailure(err)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.NewStorageFailure(err)
	}

	oldStatusID := request.StatusID
	fullComment := fmt.Sprintf(statusChangeCommentFormat, comment)
	if err := s.requests.UpdateStatusWithHistory(ctx, requestID, newStatusID, fullComment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.NewStorageFailure(err)
	}
	request.StatusID = newStatusID

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: request.ID,
		Payload: events.RequestStatusChangedPayload{
			OldStatusID: oldStatusID,
			NewStatusID: newStatusID,
			Comment:     comment,
		},
	})
	return request, nil
}

// ListForViewer returns requests visible to the viewer. Administrators and
// regular users both see the full listing, matching the product's shared
// board; ListOwn provides the per-submitter view.
func (s *LifecycleService) ListForViewer(ctx context.Context, viewerID int64, isAdmin bool) ([]domain.RequestSummary, error) {
	summaries, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return summaries, nil
}

// ListOwn returns only the viewer's submitted requests.
func (s *LifecycleService) ListOwn(ctx context.Context, viewerID int64) ([]domain.RequestSummary, error) {
	summaries, err := s.requests.ListByUser(ctx, viewerID)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return summaries, nil
}

// History returns a request's history entries, oldest first, joined with
// status labels.
func (s *LifecycleService) History(ctx context.Context, requestID int64) ([]domain.HistoryEntry, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.NewStorageFailure(err)
	}
	history, err := s.requests.HistoryByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return history, nil
}

// Categories lists the classification labels for the submit form.
func (s *LifecycleService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return categories, nil
}

// Statuses lists the lifecycle stages for the admin status picker.
func (s *LifecycleService) Statuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return statuses, nil
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
