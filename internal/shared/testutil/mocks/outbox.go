package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/agrofarm/internal/shared/domain"
	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
)

// MockOutboxRepository simula la tabla outbox.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]sharedDomain.OutboxEvent)
	return events, args.Error(1)
}

func (m *MockOutboxRepository) MarkOutboxDispatched(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepository) MarkOutboxFailed(ctx context.Context, id uuid.UUID, reason string, maxRetries int) error {
	return m.Called(ctx, id, reason, maxRetries).Error(0)
}

// MockPublisher simula un bus de eventos.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg sharedBus.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var (
	_ sharedDomain.OutboxRepository = (*MockOutboxRepository)(nil)
	_ sharedBus.EventBus            = (*MockPublisher)(nil)
)
