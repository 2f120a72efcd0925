package services

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ExecBatch(ctx context.Context, ops ...repository.WriteOp) error {
	args := m.Called(ctx, ops)
	return args.Error(0)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Group), args.Get(1).(int64), args.Error(2)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, id string) (*model.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) GetActiveByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) GetLatestByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) TicketTaken(ctx context.Context, groupID string, ticket int) (bool, error) {
	args := m.Called(ctx, groupID, ticket)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Membership), args.Error(1)
}

type MockAuctionRepository struct {
	mock.Mock
}

func (m *MockAuctionRepository) GetByMonth(ctx context.Context, groupID string, month int) (*model.Auction, error) {
	args := m.Called(ctx, groupID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Auction, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListScheduledDates(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledAuctionDate), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, ev *model.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockGroupLocker struct {
	mock.Mock
}

func (m *MockGroupLocker) Acquire(ctx context.Context, groupID string) (func(), error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
