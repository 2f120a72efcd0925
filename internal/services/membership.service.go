package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/calculator"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/pkg/logger"
)

type MembershipService struct {
	writer
	groups      GroupRepository
	members     MemberRepository
	memberships MembershipRepository
	ledger      LedgerRepository
	reports     ReportRepository
}

func NewMembershipService(store Store, groups GroupRepository, members MemberRepository, memberships MembershipRepository, ledger LedgerRepository, reports ReportRepository, events EventPublisher, locker GroupLocker) *MembershipService {
	return &MembershipService{
		writer:      writer{store: store, events: events, locker: locker},
		groups:      groups,
		members:     members,
		memberships: memberships,
		ledger:      ledger,
		reports:     reports,
	}
}

// RegisterMember returns the member owning the phone, creating it when the
// phone is new.
func (s *MembershipService) RegisterMember(ctx context.Context, p model.MemberCreateRequest) (*model.Member, error) {
	p.Name, p.Phone = normalizeContact(p.Name, p.Phone)
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	if p.Source == "" {
		p.Source = model.MemberSourceManual
	}

	existing, err := s.members.GetByPhone(ctx, p.Phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	m := &model.Member{ID: uuid.NewString(), Name: p.Name, Phone: p.Phone, Source: p.Source}
	if err := s.exec(ctx, repository.InsertMember{Member: m}); err != nil {
		return nil, err
	}
	return s.members.GetByID(ctx, m.ID)
}

func (s *MembershipService) ListMemberships(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error) {
	return s.memberships.List(ctx, f)
}

// AddMember seats an existing member on a free ticket at the group's current
// month. A late joiner gets a month 0 catch-up due when catchUp is positive.
func (s *MembershipService) AddMember(ctx context.Context, groupID, memberID string, ticket int, catchUp int64) (*model.Membership, error) {
	if catchUp < 0 {
		return nil, invalid(errors.New("catch-up amount must not be negative"))
	}

	release, err := s.lock(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer release()

	g, err := s.activeGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ticket < 1 || ticket > g.TotalMembers {
		return nil, ErrTicketOutOfRange
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, lookupErr(err, ErrMemberNotFound)
	}
	if err := s.ensureNotActive(ctx, groupID, memberID); err != nil {
		return nil, err
	}
	taken, err := s.memberships.TicketTaken(ctx, groupID, ticket)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTicketTaken
	}

	ms := newMembership(g, memberID, ticket, false)
	ops := []repository.WriteOp{repository.InsertMembership{Membership: ms}}
	if g.CurrentMonth > 1 && catchUp > 0 {
		ops = append(ops, catchUpDue(g, ms, catchUp))
	}
	if err := s.exec(ctx, ops...); err != nil {
		return nil, err
	}

	logger.Info("member added", "group_id", groupID, "member_id", memberID, "ticket", ticket, "catch_up", catchUp)
	s.publish(ctx, &model.Event{Type: model.EventMemberAdded, GroupID: groupID, MembershipID: ms.ID, Month: g.CurrentMonth})
	return s.memberships.GetByID(ctx, ms.ID)
}

// RemoveMember deactivates the member's active membership. Dues already
// created for it are kept.
func (s *MembershipService) RemoveMember(ctx context.Context, groupID, memberID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = model.ExitReasonVoluntary
	}

	release, err := s.lock(ctx, groupID)
	if err != nil {
		return err
	}
	defer release()

	g, err := s.activeGroup(ctx, groupID)
	if err != nil {
		return err
	}
	ms, err := s.memberships.GetActiveByMember(ctx, groupID, memberID)
	if err != nil {
		return lookupErr(err, ErrMembershipNotFound)
	}

	if err := s.exec(ctx, repository.DeactivateMembership{
		MembershipID: ms.ID,
		ExitMonth:    g.CurrentMonth,
		Reason:       reason,
	}); err != nil {
		return err
	}

	logger.Info("member removed", "group_id", groupID, "member_id", memberID, "reason", reason)
	s.publish(ctx, &model.Event{Type: model.EventMemberRemoved, GroupID: groupID, MembershipID: ms.ID, Month: g.CurrentMonth})
	return nil
}

// ReplaceMember hands the old member's ticket to a new member. The new
// membership inherits the prized flag because a ticket wins at most once.
func (s *MembershipService) ReplaceMember(ctx context.Context, groupID, oldMemberID, newMemberID string, catchUp int64) (*model.Membership, error) {
	if catchUp < 0 {
		return nil, invalid(errors.New("catch-up amount must not be negative"))
	}
	if oldMemberID == newMemberID {
		return nil, invalid(errors.New("old and new member must differ"))
	}

	release, err := s.lock(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer release()

	g, err := s.activeGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	old, err := s.memberships.GetActiveByMember(ctx, groupID, oldMemberID)
	if err != nil {
		return nil, lookupErr(err, ErrMembershipNotFound)
	}
	if _, err := s.members.GetByID(ctx, newMemberID); err != nil {
		return nil, lookupErr(err, ErrMemberNotFound)
	}
	if err := s.ensureNotActive(ctx, groupID, newMemberID); err != nil {
		return nil, err
	}

	ms := newMembership(g, newMemberID, old.TicketNumber, old.IsPrized)
	ops := []repository.WriteOp{
		repository.DeactivateMembership{MembershipID: old.ID, ExitMonth: g.CurrentMonth, Reason: model.ExitReasonReplaced},
		repository.InsertMembership{Membership: ms},
	}
	if catchUp > 0 {
		ops = append(ops, catchUpDue(g, ms, catchUp))
	}
	if err := s.exec(ctx, ops...); err != nil {
		return nil, err
	}

	logger.Info("member replaced", "group_id", groupID, "old_member_id", oldMemberID, "new_member_id", newMemberID, "ticket", old.TicketNumber)
	s.publish(ctx, &model.Event{Type: model.EventMemberReplaced, GroupID: groupID, MembershipID: ms.ID, Month: g.CurrentMonth})
	return s.memberships.GetByID(ctx, ms.ID)
}

// CatchUpQuote sums what a member joining now owes to be level with the
// founders: the base installment for month 1 and the next payable of every
// auction run so far, which covers months 2 through the current one.
func (s *MembershipService) CatchUpQuote(ctx context.Context, groupID string) (*model.CatchUpQuote, error) {
	g, err := s.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	history := []int64{}
	if g.CurrentMonth > 1 {
		payables, err := s.reports.NetPayableHistory(ctx, groupID, g.CurrentMonth)
		if err != nil {
			return nil, err
		}
		history = append(history, g.BaseInstallment)
		history = append(history, payables...)
	}
	return &model.CatchUpQuote{
		GroupID:      groupID,
		CurrentMonth: g.CurrentMonth,
		History:      history,
		Amount:       calculator.CatchUpAmount(history),
	}, nil
}

// ExitQuote reports what the member would get back on leaving.
func (s *MembershipService) ExitQuote(ctx context.Context, groupID, memberID string) (*model.ExitQuote, error) {
	g, err := s.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ms, err := s.memberships.GetLatestByMember(ctx, groupID, memberID)
	if err != nil {
		return nil, lookupErr(err, ErrMembershipNotFound)
	}
	return &model.ExitQuote{
		MembershipID:   ms.ID,
		TotalPaid:      ms.TotalPaid,
		SurrenderValue: calculator.SurrenderValue(ms.TotalPaid, g.PotValue),
	}, nil
}

// SettleExit refunds the surrender value of a member that already left.
func (s *MembershipService) SettleExit(ctx context.Context, groupID, memberID string) (*model.LedgerEntry, error) {
	release, err := s.lock(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer release()

	quote, err := s.ExitQuote(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	ms, err := s.memberships.GetByID(ctx, quote.MembershipID)
	if err != nil {
		return nil, lookupErr(err, ErrMembershipNotFound)
	}
	if ms.IsActive {
		return nil, ErrMembershipActive
	}
	if quote.SurrenderValue <= 0 {
		return nil, ErrNothingToSettle
	}
	refunds, err := s.ledger.List(ctx, model.LedgerFilter{
		GroupID:      groupID,
		MembershipID: ms.ID,
		Kinds:        []model.LedgerKind{model.LedgerKindRefund},
		Limit:        1,
	})
	if err != nil {
		return nil, err
	}
	if len(refunds) > 0 {
		return nil, ErrAlreadySettled
	}

	membershipID := ms.ID
	entry := &model.LedgerEntry{
		ID:              uuid.NewString(),
		GroupID:         groupID,
		Kind:            model.LedgerKindRefund,
		Amount:          quote.SurrenderValue,
		MembershipID:    &membershipID,
		Note:            "surrender value",
		TransactionDate: now(),
	}
	if err := s.exec(ctx,
		repository.AppendLedgerEntry{Entry: entry},
		repository.AdjustMembershipTotals{MembershipID: ms.ID, ReceivedDelta: quote.SurrenderValue},
	); err != nil {
		return nil, err
	}

	logger.Info("exit settled", "group_id", groupID, "membership_id", ms.ID, "refund", quote.SurrenderValue)
	s.publish(ctx, &model.Event{
		Type:         model.EventMemberSettled,
		GroupID:      groupID,
		MembershipID: ms.ID,
		Ledger:       []model.LedgerLine{{Kind: model.LedgerKindRefund, Amount: quote.SurrenderValue}},
	})
	return entry, nil
}

func (s *MembershipService) group(ctx context.Context, groupID string) (*model.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	return g, nil
}

func (s *MembershipService) activeGroup(ctx context.Context, groupID string) (*model.Group, error) {
	g, err := s.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsActive() {
		return nil, ErrGroupClosed
	}
	return g, nil
}

func (s *MembershipService) ensureNotActive(ctx context.Context, groupID, memberID string) error {
	_, err := s.memberships.GetActiveByMember(ctx, groupID, memberID)
	switch {
	case err == nil:
		return ErrAlreadyMember
	case errors.Is(err, repository.ErrNotFound):
		return nil
	}
	return err
}

func newMembership(g *model.Group, memberID string, ticket int, prized bool) *model.Membership {
	return &model.Membership{
		ID:           uuid.NewString(),
		GroupID:      g.ID,
		MemberID:     memberID,
		TicketNumber: ticket,
		JoinedMonth:  g.CurrentMonth,
		IsPrized:     prized,
		IsActive:     true,
	}
}

func catchUpDue(g *model.Group, ms *model.Membership, amount int64) repository.WriteOp {
	return repository.InsertDue{Due: &model.Due{
		ID:           uuid.NewString(),
		GroupID:      g.ID,
		MembershipID: ms.ID,
		Month:        model.CatchUpMonth,
		AmountDue:    amount,
		Status:       model.DueStatusPending,
	}}
}
