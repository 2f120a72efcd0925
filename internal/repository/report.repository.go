package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

// ReportRepository runs the read-only aggregate queries behind the dues and
// ledger reports.
type ReportRepository struct {
	*pg.DB
}

func NewReportRepository(db *pg.DB) *ReportRepository {
	return &ReportRepository{
		db,
	}
}

type kindSum struct {
	Kind  string `gorm:"column:kind"`
	Total int64  `gorm:"column:total"`
}

type membershipCounts struct {
	Members       int `gorm:"column:members"`
	ActiveMembers int `gorm:"column:active_members"`
}

type outstandingSplit struct {
	Active   int64 `gorm:"column:active"`
	Inactive int64 `gorm:"column:inactive"`
}

// LedgerTotals sums ledger amounts per kind. An empty groupID covers every
// group.
func (r *ReportRepository) LedgerTotals(ctx context.Context, groupID string) (map[model.LedgerKind]int64, error) {
	q := r.Read(ctx).Model(&LedgerEntryEntity{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total")
	if groupID != "" {
		q = q.Where("group_id = ?", groupID)
	}
	var rows []kindSum
	if err := q.Group("kind").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[model.LedgerKind]int64, len(rows))
	for _, row := range rows {
		out[model.LedgerKind(row.Kind)] = row.Total
	}
	return out, nil
}

// Outstanding splits unpaid due amounts by whether the owing membership is
// still active. An empty groupID covers every group.
func (r *ReportRepository) Outstanding(ctx context.Context, groupID string) (active int64, inactive int64, err error) {
	q := r.Read(ctx).Table("dues AS d").
		Joins("JOIN memberships AS ms ON ms.id = d.membership_id").
		Select(`COALESCE(SUM(CASE WHEN ms.is_active = ? THEN d.amount_due - d.amount_paid ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN ms.is_active = ? THEN 0 ELSE d.amount_due - d.amount_paid END), 0) AS inactive`, true, true).
		Where("d.amount_due > d.amount_paid")
	if groupID != "" {
		q = q.Where("d.group_id = ?", groupID)
	}
	var row outstandingSplit
	if err := q.Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Active, row.Inactive, nil
}

func (r *ReportRepository) MembershipCounts(ctx context.Context, groupID string) (members int, active int, err error) {
	var row membershipCounts
	err = r.Read(ctx).Model(&MembershipEntity{}).
		Select("COUNT(*) AS members, COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_members", true).
		Where("group_id = ?", groupID).
		Scan(&row).Error
	return row.Members, row.ActiveMembers, err
}

func (r *ReportRepository) GroupCounts(ctx context.Context) (active int, closed int, err error) {
	var rows []struct {
		Status string `gorm:"column:status"`
		Count  int    `gorm:"column:count"`
	}
	err = r.Read(ctx).Model(&GroupEntity{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	for _, row := range rows {
		switch model.GroupStatus(row.Status) {
		case model.GroupStatusActive:
			active = row.Count
		case model.GroupStatusClosed:
			closed = row.Count
		}
	}
	return active, closed, err
}

// Defaulters lists active memberships that still owe on any due.
func (r *ReportRepository) Defaulters(ctx context.Context, groupID string) ([]*model.Defaulter, error) {
	var rows []*model.Defaulter
	err := r.Read(ctx).Table("dues AS d").
		Joins("JOIN memberships AS ms ON ms.id = d.membership_id").
		Joins("JOIN members AS m ON m.id = ms.member_id").
		Select(`ms.id AS membership_id,
			ms.member_id AS member_id,
			m.name AS member_name,
			m.phone AS member_phone,
			ms.ticket_number AS ticket_number,
			COUNT(d.id) AS due_count,
			SUM(d.amount_due - d.amount_paid) AS outstanding`).
		Where("d.group_id = ? AND ms.is_active = ? AND d.amount_due > d.amount_paid", groupID, true).
		Group("ms.id, ms.member_id, m.name, m.phone, ms.ticket_number").
		Order("ms.ticket_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MonthlyDueSummary(ctx context.Context, groupID string) ([]*model.MonthlyDueSummary, error) {
	var rows []*model.MonthlyDueSummary
	err := r.Read(ctx).Model(&DueEntity{}).
		Select("month, COUNT(*) AS due_count, COALESCE(SUM(amount_due), 0) AS total_due, COALESCE(SUM(amount_paid), 0) AS total_paid").
		Where("group_id = ?", groupID).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// NetPayableHistory returns next_payable of every auction before month in
// month order.
func (r *ReportRepository) NetPayableHistory(ctx context.Context, groupID string, beforeMonth int) ([]int64, error) {
	var amounts []int64
	err := r.Read(ctx).Model(&AuctionEntity{}).
		Where("group_id = ? AND month < ?", groupID, beforeMonth).
		Order("month ASC").
		Pluck("next_payable", &amounts).Error
	return amounts, err
}
