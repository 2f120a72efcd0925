package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/prom"
)

type PaymentService struct {
	writer
	groups GroupRepository
	dues   DueRepository
}

func NewPaymentService(store Store, groups GroupRepository, dues DueRepository, events EventPublisher, locker GroupLocker) *PaymentService {
	return &PaymentService{
		writer: writer{store: store, events: events, locker: locker},
		groups: groups,
		dues:   dues,
	}
}

// RecordPayment applies an installment payment to a due, credits the
// membership and appends the ledger entry in one batch. Paying more than is
// outstanding is rejected.
func (s *PaymentService) RecordPayment(ctx context.Context, p model.PaymentRequest) (*model.Due, error) {
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	p.Channel = strings.TrimSpace(p.Channel)
	if p.PaidAt.IsZero() {
		p.PaidAt = now()
	}

	due, err := s.dues.GetByID(ctx, p.DueID)
	if err != nil {
		return nil, lookupErr(err, ErrDueNotFound)
	}

	release, err := s.lock(ctx, due.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	if p.Amount > due.Outstanding() {
		return nil, ErrOverpayment
	}

	membershipID := due.MembershipID
	err = s.exec(ctx,
		repository.ApplyDuePayment{DueID: due.ID, Amount: p.Amount, Channel: p.Channel, PaidAt: p.PaidAt},
		repository.AdjustMembershipTotals{MembershipID: due.MembershipID, PaidDelta: p.Amount},
		repository.AppendLedgerEntry{Entry: &model.LedgerEntry{
			ID:              uuid.NewString(),
			GroupID:         due.GroupID,
			Kind:            model.LedgerKindInstallmentPayment,
			Amount:          p.Amount,
			MembershipID:    &membershipID,
			Note:            p.Channel,
			TransactionDate: p.PaidAt,
		}},
	)
	if err != nil {
		return nil, err
	}

	prom.PaymentRecorded(p.Channel)
	logger.Info("payment recorded", "due_id", due.ID, "amount", p.Amount, "channel", p.Channel)
	s.publish(ctx, &model.Event{
		Type:         model.EventPaymentRecorded,
		GroupID:      due.GroupID,
		MembershipID: due.MembershipID,
		Month:        due.Month,
		Ledger:       []model.LedgerLine{{Kind: model.LedgerKindInstallmentPayment, Amount: p.Amount}},
	})
	return s.dues.GetByID(ctx, due.ID)
}

func (s *PaymentService) MarkReceiptSent(ctx context.Context, dueID string) error {
	if err := s.exec(ctx, repository.MarkReceiptSent{DueID: dueID}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrDueNotFound
		}
		return err
	}
	return nil
}

// RecordOperationalCost books a foreman expense against a group.
func (s *PaymentService) RecordOperationalCost(ctx context.Context, groupID string, amount int64, note string) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, invalid(errors.New("amount must be positive"))
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}

	entry := &model.LedgerEntry{
		ID:              uuid.NewString(),
		GroupID:         groupID,
		Kind:            model.LedgerKindOperationalCost,
		Amount:          amount,
		Note:            note,
		TransactionDate: now(),
	}
	if err := s.exec(ctx, repository.AppendLedgerEntry{Entry: entry}); err != nil {
		return nil, err
	}
	s.publish(ctx, &model.Event{
		Type:    model.EventCostRecorded,
		GroupID: groupID,
		Ledger:  []model.LedgerLine{{Kind: model.LedgerKindOperationalCost, Amount: amount}},
	})
	return entry, nil
}
