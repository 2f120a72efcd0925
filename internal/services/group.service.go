package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/calculator"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/pkg/logger"
)

// DurationLimits is the admissible range of group durations in months.
type DurationLimits struct {
	Min int
	Max int
}

type GroupService struct {
	writer
	groups   GroupRepository
	members  MemberRepository
	auctions AuctionRepository
	limits   DurationLimits
}

func NewGroupService(store Store, groups GroupRepository, members MemberRepository, auctions AuctionRepository, events EventPublisher, locker GroupLocker, limits DurationLimits) *GroupService {
	return &GroupService{
		writer:   writer{store: store, events: events, locker: locker},
		groups:   groups,
		members:  members,
		auctions: auctions,
		limits:   limits,
	}
}

// CreateGroup stores a new group with its founding members, their month 1
// dues and the auction schedule in one batch.
func (s *GroupService) CreateGroup(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error) {
	p.Name = strings.TrimSpace(p.Name)
	members := make([]model.GroupMemberInput, len(p.Members))
	for i, m := range p.Members {
		m.Name, m.Phone = normalizeContact(m.Name, m.Phone)
		members[i] = m
	}
	p.Members = members

	if err := p.Validate(s.limits.Min, s.limits.Max); err != nil {
		return nil, invalid(err)
	}

	g := &model.Group{
		ID:              uuid.NewString(),
		Name:            p.Name,
		PotValue:        p.PotValue,
		Duration:        p.Duration,
		CommissionRate:  p.CommissionRate,
		BaseInstallment: calculator.BaseInstallment(p.PotValue, p.Duration),
		TotalMembers:    p.TotalMembers,
		CurrentMonth:    1,
		Status:          model.GroupStatusActive,
	}

	phones := make([]string, len(p.Members))
	for i, m := range p.Members {
		phones[i] = m.Phone
	}
	known, err := s.members.GetByPhones(ctx, phones)
	if err != nil {
		return nil, err
	}

	ops := []repository.WriteOp{repository.InsertGroup{Group: g}}
	for _, in := range p.Members {
		member, ok := known[in.Phone]
		if !ok {
			member = &model.Member{
				ID:     uuid.NewString(),
				Name:   in.Name,
				Phone:  in.Phone,
				Source: model.MemberSourceManual,
			}
			ops = append(ops, repository.InsertMember{Member: member})
		}
		ms := &model.Membership{
			ID:           uuid.NewString(),
			GroupID:      g.ID,
			MemberID:     member.ID,
			TicketNumber: in.TicketNumber,
			JoinedMonth:  1,
			IsActive:     true,
		}
		ops = append(ops,
			repository.InsertMembership{Membership: ms},
			repository.InsertDue{Due: &model.Due{
				ID:           uuid.NewString(),
				GroupID:      g.ID,
				MembershipID: ms.ID,
				Month:        1,
				AmountDue:    g.BaseInstallment,
				Status:       model.DueStatusPending,
			}},
		)
	}

	schedule := p.Schedule
	if len(schedule) == 0 && p.StartDate != nil {
		schedule = GenerateSchedule(*p.StartDate, p.Duration)
	}
	for _, sd := range schedule {
		ops = append(ops, repository.InsertScheduledDate{Date: &model.ScheduledAuctionDate{
			ID:          uuid.NewString(),
			GroupID:     g.ID,
			Month:       sd.Month,
			AuctionDate: sd.Date,
		}})
	}

	if err := s.exec(ctx, ops...); err != nil {
		return nil, err
	}
	logger.Info("group created", "group_id", g.ID, "members", len(p.Members), "base_installment", g.BaseInstallment)
	s.publish(ctx, &model.Event{Type: model.EventGroupCreated, GroupID: g.ID, Month: 1})

	return s.GetGroup(ctx, g.ID)
}

// CloseGroup marks a group closed. Its history stays queryable.
func (s *GroupService) CloseGroup(ctx context.Context, groupID string) error {
	release, err := s.lock(ctx, groupID)
	if err != nil {
		return err
	}
	defer release()

	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.IsActive() {
		return ErrGroupClosed
	}

	closedAt := now()
	if err := s.exec(ctx, repository.UpdateGroupStatus{
		GroupID:  groupID,
		Status:   model.GroupStatusClosed,
		ClosedAt: &closedAt,
	}); err != nil {
		return err
	}
	logger.Info("group closed", "group_id", groupID)
	s.publish(ctx, &model.Event{Type: model.EventGroupClosed, GroupID: groupID, Month: g.CurrentMonth})
	return nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	return g, nil
}

func (s *GroupService) ListGroups(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, invalid(errStatus(*f.Status))
	}
	return s.groups.List(ctx, f)
}

// DeleteGroup removes a group and every row owned by it.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	release, err := s.lock(ctx, groupID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return lookupErr(storeErr(err), ErrGroupNotFound)
	}
	logger.Warn("group deleted", "group_id", groupID)
	s.publish(ctx, &model.Event{Type: model.EventGroupDeleted, GroupID: groupID})
	return nil
}

// RescheduleAuction moves the auction date of a month, for instance around a
// holiday.
func (s *GroupService) RescheduleAuction(ctx context.Context, groupID string, month int, date time.Time) error {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if month < 1 || month > g.Duration {
		return invalid(errMonth(month, g.Duration))
	}
	if date.IsZero() {
		return invalid(errRequired("date"))
	}
	return s.exec(ctx, repository.RescheduleAuctionDate{GroupID: groupID, Month: month, Date: date})
}

func (s *GroupService) ListSchedule(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.auctions.ListScheduledDates(ctx, groupID)
}

// GenerateSchedule returns one auction date per month starting at start and
// keeping its day of month. Days past the end of a short month fall on the
// month's last day.
func GenerateSchedule(start time.Time, duration int) []model.ScheduleInput {
	out := make([]model.ScheduleInput, 0, duration)
	day := start.Day()
	first := time.Date(start.Year(), start.Month(), 1, start.Hour(), start.Minute(), 0, 0, start.Location())
	for i := 0; i < duration; i++ {
		monthStart := first.AddDate(0, i, 0)
		last := monthStart.AddDate(0, 1, -1).Day()
		d := day
		if d > last {
			d = last
		}
		out = append(out, model.ScheduleInput{
			Month: i + 1,
			Date:  monthStart.AddDate(0, 0, d-1),
		})
	}
	return out
}
