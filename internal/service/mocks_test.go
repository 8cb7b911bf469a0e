package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/events"
)

// MockRequestRepository is a testify mock of repository.RequestRepository.
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) CreateWithHistory(ctx context.Context, request *domain.Request, comment string) error {
	args := m.Called(ctx, request, comment)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatusWithHistory(ctx context.Context, requestID, statusID int64, comment string) error {
	args := m.Called(ctx, requestID, statusID, comment)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if req := args.Get(0); req != nil {
		return req.(*domain.Request), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestRepository) ListAll(ctx context.Context) ([]domain.RequestSummary, error) {
	args := m.Called(ctx)
	if summaries := args.Get(0); summaries != nil {
		return summaries.([]domain.RequestSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RequestSummary, error) {
	args := m.Called(ctx, userID)
	if summaries := args.Get(0); summaries != nil {
		return summaries.([]domain.RequestSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestRepository) HistoryByRequest(ctx context.Context, requestID int64) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, requestID)
	if entries := args.Get(0); entries != nil {
		return entries.([]domain.HistoryEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCategoryRepository is a testify mock of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if categories := args.Get(0); categories != nil {
		return categories.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if category := args.Get(0); category != nil {
		return category.(*domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStatusRepository is a testify mock of repository.StatusRepository.
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) List(ctx context.Context) ([]domain.Status, error) {
	args := m.Called(ctx)
	if statuses := args.Get(0); statuses != nil {
		return statuses.([]domain.Status), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	args := m.Called(ctx, id)
	if status := args.Get(0); status != nil {
		return status.(*domain.Status), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepository is a testify mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
