package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/events"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

func newLifecycleFixture() (*LifecycleService, *MockRequestRepository, *MockCategoryRepository, *MockStatusRepository, *recordingDispatcher) {
	requests := new(MockRequestRepository)
	categories := new(MockCategoryRepository)
	statuses := new(MockStatusRepository)
	dispatcher := &recordingDispatcher{}
	svc := NewLifecycleService(LifecycleDependencies{
		RequestRepo:  requests,
		CategoryRepo: categories,
		StatusRepo:   statuses,
		Dispatcher:   dispatcher,
	})
	return svc, requests, categories, statuses, dispatcher
}

func TestCreateRequestValidation(t *testing.T) {
	svc, requests, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input RequestCreateInput
	}{
		{"empty type", RequestCreateInput{Type: "", Description: "late delivery", CategoryID: 2}},
		{"empty description", RequestCreateInput{Type: "claim", Description: "", CategoryID: 2}},
		{"whitespace only", RequestCreateInput{Type: "  ", Description: "\t", CategoryID: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(ctx, 7, tc.input)
			require.Error(t, err)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
	requests.AssertNotCalled(t, "CreateWithHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRequestUnknownCategory(t *testing.T) {
	svc, requests, categories, _, _ := newLifecycleFixture()
	ctx := context.Background()

	categories.On("GetByID", ctx, int64(99)).Return(nil, pgx.ErrNoRows)

	_, err := svc.CreateRequest(ctx, 7, RequestCreateInput{Type: "claim", Description: "late delivery", CategoryID: 99})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	requests.AssertNotCalled(t, "CreateWithHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRequestWritesInitialHistory(t *testing.T) {
	svc, requests, categories, _, dispatcher := newLifecycleFixture()
	ctx := context.Background()

	categories.On("GetByID", ctx, int64(2)).Return(&domain.Category{ID: 2, Name: "billing"}, nil)
	requests.On("CreateWithHistory", ctx, mock.AnythingOfType("*domain.Request"), "request created").
		Run(func(args mock.Arguments) {
			request := args.Get(1).(*domain.Request)
			request.ID = 1
			request.CreatedAt = time.Now()
		}).Return(nil)

	request, err := svc.CreateRequest(ctx, 7, RequestCreateInput{Type: "claim", Description: "late delivery", CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), request.ID)
	assert.Equal(t, domain.InitialStatusID, request.StatusID)
	assert.Equal(t, int64(7), request.UserID)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventRequestCreated, dispatcher.published[0].Type)
	assert.Equal(t, int64(1), dispatcher.published[0].RequestID)
	requests.AssertExpectations(t)
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	svc, requests, _, statuses, _ := newLifecycleFixture()
	ctx := context.Background()

	statuses.On("GetByID", ctx, int64(42)).Return(nil, pgx.ErrNoRows)

	_, err := svc.ChangeStatus(ctx, 1, 42, "resolved")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	requests.AssertNotCalled(t, "UpdateStatusWithHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusUnknownRequest(t *testing.T) {
	svc, requests, _, statuses, _ := newLifecycleFixture()
	ctx := context.Background()

	statuses.On("GetByID", ctx, int64(3)).Return(&domain.Status{ID: 3, Name: "resolved"}, nil)
	requests.On("GetByID", ctx, int64(404)).Return(nil, pgx.ErrNoRows)

	_, err := svc.ChangeStatus(ctx, 404, 3, "resolved")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestChangeStatusAppendsAdministratorComment(t *testing.T) {
	svc, requests, _, statuses, dispatcher := newLifecycleFixture()
	ctx := context.Background()

	statuses.On("GetByID", ctx, int64(3)).Return(&domain.Status{ID: 3, Name: "resolved"}, nil)
	requests.On("GetByID", ctx, int64(1)).Return(&domain.Request{ID: 1, StatusID: domain.InitialStatusID}, nil)
	requests.On("UpdateStatusWithHistory", ctx, int64(1), int64(3), "status changed by administrator: resolved").Return(nil)

	request, err := svc.ChangeStatus(ctx, 1, 3, "resolved")
	require.NoError(t, err)
	assert.Equal(t, int64(3), request.StatusID)

	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventRequestStatusChanged, event.Type)
	payload := event.Payload.(events.RequestStatusChangedPayload)
	assert.Equal(t, domain.InitialStatusID, payload.OldStatusID)
	assert.Equal(t, int64(3), payload.NewStatusID)
	requests.AssertExpectations(t)
}

func TestChangeStatusSameStatusStillAppends(t *testing.T) {
	svc, requests, _, statuses, _ := newLifecycleFixture()
	ctx := context.Background()

	// Re-applying the current status is not deduplicated: it still writes
	// a history entry.
	statuses.On("GetByID", ctx, int64(1)).Return(&domain.Status{ID: 1, Name: "received"}, nil)
	requests.On("GetByID", ctx, int64(5)).Return(&domain.Request{ID: 5, StatusID: 1}, nil)
	requests.On("UpdateStatusWithHistory", ctx, int64(5), int64(1), "status changed by administrator: still reviewing").Return(nil)

	request, err := svc.ChangeStatus(ctx, 5, 1, "still reviewing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), request.StatusID)
	requests.AssertExpectations(t)
}

func TestHistoryOrderingAndNotFound(t *testing.T) {
	svc, requests, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	entries := []domain.HistoryEntry{
		{ID: 1, RequestID: 1, StatusID: 1, Status: "received", Comment: "request created"},
		{ID: 2, RequestID: 1, StatusID: 3, Status: "resolved", Comment: "status changed by administrator: resolved"},
	}
	requests.On("GetByID", ctx, int64(1)).Return(&domain.Request{ID: 1, StatusID: 3}, nil)
	requests.On("HistoryByRequest", ctx, int64(1)).Return(entries, nil)
	requests.On("GetByID", ctx, int64(404)).Return(nil, pgx.ErrNoRows)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "request created", history[0].Comment)
	assert.Equal(t, "status changed by administrator: resolved", history[1].Comment)
	// latest entry matches the request's current status
	assert.Equal(t, int64(3), history[len(history)-1].StatusID)

	_, err = svc.History(ctx, 404)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListForViewerReturnsAllRequests(t *testing.T) {
	svc, requests, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	summaries := []domain.RequestSummary{
		{ID: 1, Type: "claim", Status: "received", Submitter: "Ana"},
		{ID: 2, Type: "suggestion", Status: "resolved", Submitter: "Luis"},
	}
	requests.On("ListAll", ctx).Return(summaries, nil)

	// Regular users see the shared listing too.
	listed, err := svc.ListForViewer(ctx, 7, false)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestListOwnFiltersBySubmitter(t *testing.T) {
	svc, requests, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	requests.On("ListByUser", ctx, int64(7)).Return([]domain.RequestSummary{{ID: 1, Submitter: "Ana"}}, nil)

	listed, err := svc.ListOwn(ctx, 7)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].ID)
}

func TestStorageFailureSurfacesAsDefinedError(t *testing.T) {
	svc, requests, categories, _, _ := newLifecycleFixture()
	ctx := context.Background()

	categories.On("GetByID", ctx, int64(2)).Return(&domain.Category{ID: 2}, nil)
	requests.On("CreateWithHistory", ctx, mock.AnythingOfType("*domain.Request"), "request created").
		Return(assert.AnError)

	_, err := svc.CreateRequest(ctx, 7, RequestCreateInput{Type: "claim", Description: "late delivery", CategoryID: 2})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORAGE_FAILURE", domainErr.Code)
}
