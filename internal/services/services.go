package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/lock"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/pkg/logger"
)

// Error categories. Every error returned by a service wraps exactly one of
// them so callers can branch with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrGroupNotFound      = fmt.Errorf("%w: group", ErrNotFound)
	ErrMemberNotFound     = fmt.Errorf("%w: member", ErrNotFound)
	ErrMembershipNotFound = fmt.Errorf("%w: membership", ErrNotFound)
	ErrDueNotFound        = fmt.Errorf("%w: due", ErrNotFound)

	ErrGroupClosed       = fmt.Errorf("%w: group is closed", ErrInvalidInput)
	ErrMonthMismatch     = fmt.Errorf("%w: month is not the group's current month", ErrInvalidInput)
	ErrBidOutOfRange     = fmt.Errorf("%w: bid must be positive and not above the pot", ErrInvalidInput)
	ErrWinnerNotEligible = fmt.Errorf("%w: winner is not an active membership of the group", ErrInvalidInput)
	ErrAlreadyPrized     = fmt.Errorf("%w: membership has already won an auction", ErrInvalidInput)
	ErrTicketOutOfRange  = fmt.Errorf("%w: ticket number out of range", ErrInvalidInput)
	ErrOverpayment       = fmt.Errorf("%w: payment exceeds amount due", ErrInvalidInput)
	ErrMembershipActive  = fmt.Errorf("%w: membership is still active", ErrInvalidInput)
	ErrNothingToSettle   = fmt.Errorf("%w: surrender value is not positive", ErrInvalidInput)
	ErrAuctionExists     = fmt.Errorf("%w: auction already conducted for this month", ErrConflict)
	ErrTicketTaken       = fmt.Errorf("%w: ticket already assigned", ErrConflict)
	ErrAlreadyMember     = fmt.Errorf("%w: member already active in group", ErrConflict)
	ErrAlreadySettled    = fmt.Errorf("%w: exit already settled", ErrConflict)
	ErrGroupBusy         = fmt.Errorf("%w: group is locked by another writer", ErrConflict)
)

type Store interface {
	ExecBatch(ctx context.Context, ops ...repository.WriteOp) error
}

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.Group, error)
	List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error)
	Delete(ctx context.Context, id string) error
}

type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByPhone(ctx context.Context, phone string) (*model.Member, error)
	GetByPhones(ctx context.Context, phones []string) (map[string]*model.Member, error)
}

type MembershipRepository interface {
	GetByID(ctx context.Context, id string) (*model.Membership, error)
	GetActiveByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error)
	GetLatestByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error)
	TicketTaken(ctx context.Context, groupID string, ticket int) (bool, error)
	List(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error)
}

type AuctionRepository interface {
	GetByMonth(ctx context.Context, groupID string, month int) (*model.Auction, error)
	ListByGroup(ctx context.Context, groupID string) ([]*model.Auction, error)
	ListScheduledDates(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error)
}

type DueRepository interface {
	GetByID(ctx context.Context, id string) (*model.Due, error)
	List(ctx context.Context, f model.DueFilter) ([]*model.Due, int64, error)
}

type LedgerRepository interface {
	List(ctx context.Context, f model.LedgerFilter) ([]*model.LedgerEntry, error)
}

type ReportRepository interface {
	LedgerTotals(ctx context.Context, groupID string) (map[model.LedgerKind]int64, error)
	Outstanding(ctx context.Context, groupID string) (active int64, inactive int64, err error)
	MembershipCounts(ctx context.Context, groupID string) (members int, active int, err error)
	GroupCounts(ctx context.Context) (active int, closed int, err error)
	Defaulters(ctx context.Context, groupID string) ([]*model.Defaulter, error)
	MonthlyDueSummary(ctx context.Context, groupID string) ([]*model.MonthlyDueSummary, error)
	NetPayableHistory(ctx context.Context, groupID string, beforeMonth int) ([]int64, error)
}

// EventPublisher hands committed changes to the export boundary.
type EventPublisher interface {
	Publish(ctx context.Context, ev *model.Event) error
}

// GroupLocker serializes writers of the same group across processes.
type GroupLocker interface {
	Acquire(ctx context.Context, groupID string) (release func(), err error)
}

// writer bundles what every mutating service needs.
type writer struct {
	store  Store
	events EventPublisher
	locker GroupLocker
}

func (w writer) lock(ctx context.Context, groupID string) (func(), error) {
	if w.locker == nil {
		return func() {}, nil
	}
	release, err := w.locker.Acquire(ctx, groupID)
	if errors.Is(err, lock.ErrLocked) {
		return nil, ErrGroupBusy
	}
	if err != nil {
		return nil, fmt.Errorf("lock group %s: %w", groupID, err)
	}
	return release, nil
}

func (w writer) exec(ctx context.Context, ops ...repository.WriteOp) error {
	return storeErr(w.store.ExecBatch(ctx, ops...))
}

// publish never fails the caller: the batch is already committed.
func (w writer) publish(ctx context.Context, ev *model.Event) {
	if w.events == nil {
		return
	}
	ev.ID = uuid.NewString()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := w.events.Publish(ctx, ev); err != nil {
		logger.Error("failed to publish event", "type", ev.Type, "group_id", ev.GroupID, "error", err)
	}
}

// storeErr maps repository errors onto the service categories.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// lookupErr maps a point lookup failure, using notFound for missing rows.
func lookupErr(err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func now() time.Time {
	return time.Now().UTC()
}
