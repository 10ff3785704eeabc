package commands_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockChatRepository struct{ mock.Mock }

func (m *MockChatRepository) Add(ctx context.Context, message *chat.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) Get(ctx context.Context, id kernel.UUID) (*chat.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Message), args.Error(1)
}

func (m *MockChatRepository) GetConversation(ctx context.Context, key chat.ConversationKey) ([]*chat.Message, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Message), args.Error(1)
}

func (m *MockChatRepository) MarkDelivered(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockImageJobRepository struct{ mock.Mock }

func (m *MockImageJobRepository) Add(ctx context.Context, job *imagejob.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImageJobRepository) Update(ctx context.Context, job *imagejob.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImageJobRepository) Get(ctx context.Context, id kernel.UUID) (*imagejob.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagejob.Job), args.Error(1)
}

func (m *MockImageJobRepository) ClaimPending(ctx context.Context) (*imagejob.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagejob.Job), args.Error(1)
}

func (m *MockImageJobRepository) ResetStale(ctx context.Context, threshold time.Duration) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockChatUoW struct{ mock.Mock }

func (m *MockChatUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) ChatRepository() ports.ChatRepository {
	args := m.Called()
	return args.Get(0).(ports.ChatRepository)
}

type MockChatUoWFactory struct{ mock.Mock }

func (m *MockChatUoWFactory) Create() commands.ChatUoW {
	args := m.Called()
	return args.Get(0).(commands.ChatUoW)
}

type MockJobUoW struct{ mock.Mock }

func (m *MockJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) ImageJobRepository() ports.ImageJobRepository {
	args := m.Called()
	return args.Get(0).(ports.ImageJobRepository)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) PublishOrderEvent(event order.Event) {
	m.Called(event)
}

func (m *MockOrderEventPublisher) CloseOrder(orderID kernel.UUID) {
	m.Called(orderID)
}

type MockChatEventPublisher struct{ mock.Mock }

func (m *MockChatEventPublisher) PublishMessage(message *chat.Message) {
	m.Called(message)
}

type MockJobEventPublisher struct{ mock.Mock }

func (m *MockJobEventPublisher) PublishJobEvent(event imagejob.Event) {
	m.Called(event)
}

func (m *MockJobEventPublisher) CloseJob(jobID kernel.UUID) {
	m.Called(jobID)
}

type MockObjectStorage struct{ mock.Mock }

func (m *MockObjectStorage) Put(ctx context.Context, key string, content io.Reader) error {
	args := m.Called(ctx, key, content)
	return args.Error(0)
}

func (m *MockObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockImageProcessor struct{ mock.Mock }

func (m *MockImageProcessor) Process(ctx context.Context, sourceKey string) (string, error) {
	args := m.Called(ctx, sourceKey)
	return args.String(0), args.Error(1)
}

type MockJobNotifier struct{ mock.Mock }

func (m *MockJobNotifier) Wake() {
	m.Called()
}
