package repository

import (
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"gorm.io/gorm"
)

type InsertGroup struct{ Group *model.Group }

func (InsertGroup) Name() string { return "InsertGroup" }
func (o InsertGroup) apply(tx *gorm.DB) error {
	return tx.Create(toGroupEntity(o.Group)).Error
}

type InsertMember struct{ Member *model.Member }

func (InsertMember) Name() string { return "InsertMember" }
func (o InsertMember) apply(tx *gorm.DB) error {
	return tx.Create(toMemberEntity(o.Member)).Error
}

type InsertMembership struct{ Membership *model.Membership }

func (InsertMembership) Name() string { return "InsertMembership" }
func (o InsertMembership) apply(tx *gorm.DB) error {
	return tx.Create(toMembershipEntity(o.Membership)).Error
}

type InsertScheduledDate struct {
	Date *model.ScheduledAuctionDate
}

func (InsertScheduledDate) Name() string { return "InsertScheduledDate" }
func (o InsertScheduledDate) apply(tx *gorm.DB) error {
	return tx.Create(toScheduledDateEntity(o.Date)).Error
}

type InsertDue struct{ Due *model.Due }

func (InsertDue) Name() string { return "InsertDue" }
func (o InsertDue) apply(tx *gorm.DB) error {
	return tx.Create(toDueEntity(o.Due)).Error
}

type InsertAuction struct{ Auction *model.Auction }

func (InsertAuction) Name() string { return "InsertAuction" }
func (o InsertAuction) apply(tx *gorm.DB) error {
	return tx.Create(toAuctionEntity(o.Auction)).Error
}

type AppendLedgerEntry struct{ Entry *model.LedgerEntry }

func (AppendLedgerEntry) Name() string { return "AppendLedgerEntry" }
func (o AppendLedgerEntry) apply(tx *gorm.DB) error {
	return tx.Create(toLedgerEntryEntity(o.Entry)).Error
}

// MarkMembershipPrized flips is_prized once. It conflicts when the membership
// already won or is no longer active.
type MarkMembershipPrized struct{ MembershipID string }

func (MarkMembershipPrized) Name() string { return "MarkMembershipPrized" }
func (o MarkMembershipPrized) apply(tx *gorm.DB) error {
	res := tx.Model(&MembershipEntity{}).
		Where("id = ? AND is_prized = ? AND is_active = ?", o.MembershipID, false, true).
		Update("is_prized", true)
	return guarded(res, "membership already prized or inactive")
}

// AdvanceGroupMonth moves the month counter from From to To. It conflicts when
// the counter is no longer at From.
type AdvanceGroupMonth struct {
	GroupID string
	From    int
	To      int
}

func (AdvanceGroupMonth) Name() string { return "AdvanceGroupMonth" }
func (o AdvanceGroupMonth) apply(tx *gorm.DB) error {
	res := tx.Model(&GroupEntity{}).
		Where("id = ? AND current_month = ?", o.GroupID, o.From).
		Update("current_month", o.To)
	return guarded(res, "group month moved")
}

type UpdateGroupStatus struct {
	GroupID  string
	Status   model.GroupStatus
	ClosedAt *time.Time
}

func (UpdateGroupStatus) Name() string { return "UpdateGroupStatus" }
func (o UpdateGroupStatus) apply(tx *gorm.DB) error {
	res := tx.Model(&GroupEntity{}).
		Where("id = ?", o.GroupID).
		Updates(map[string]interface{}{"status": string(o.Status), "closed_at": o.ClosedAt})
	return guarded(res, "group missing")
}

// DeactivateMembership ends an active membership.
type DeactivateMembership struct {
	MembershipID string
	ExitMonth    int
	Reason       string
}

func (DeactivateMembership) Name() string { return "DeactivateMembership" }
func (o DeactivateMembership) apply(tx *gorm.DB) error {
	res := tx.Model(&MembershipEntity{}).
		Where("id = ? AND is_active = ?", o.MembershipID, true).
		Updates(map[string]interface{}{
			"is_active":   false,
			"exit_month":  o.ExitMonth,
			"exit_reason": o.Reason,
		})
	return guarded(res, "membership not active")
}

// AdjustMembershipTotals adds the deltas to the running paid and received
// totals.
type AdjustMembershipTotals struct {
	MembershipID  string
	PaidDelta     int64
	ReceivedDelta int64
}

func (AdjustMembershipTotals) Name() string { return "AdjustMembershipTotals" }
func (o AdjustMembershipTotals) apply(tx *gorm.DB) error {
	res := tx.Model(&MembershipEntity{}).
		Where("id = ?", o.MembershipID).
		Updates(map[string]interface{}{
			"total_paid":     gorm.Expr("total_paid + ?", o.PaidDelta),
			"total_received": gorm.Expr("total_received + ?", o.ReceivedDelta),
		})
	return guarded(res, "membership missing")
}

// ApplyDuePayment adds Amount to a due and recomputes its status. It conflicts
// when the payment would exceed the amount due.
type ApplyDuePayment struct {
	DueID   string
	Amount  int64
	Channel string
	PaidAt  time.Time
}

func (ApplyDuePayment) Name() string { return "ApplyDuePayment" }
func (o ApplyDuePayment) apply(tx *gorm.DB) error {
	var due DueEntity
	if err := tx.Where("id = ?", o.DueID).First(&due).Error; err != nil {
		return err
	}
	paid := due.AmountPaid + o.Amount
	res := tx.Model(&DueEntity{}).
		Where("id = ? AND amount_paid = ? AND amount_due >= ?", o.DueID, due.AmountPaid, paid).
		Updates(map[string]interface{}{
			"amount_paid":     paid,
			"status":          string(model.StatusFor(due.AmountDue, paid)),
			"payment_channel": o.Channel,
			"paid_date":       o.PaidAt,
		})
	return guarded(res, "payment exceeds amount due")
}

type MarkReceiptSent struct{ DueID string }

func (MarkReceiptSent) Name() string { return "MarkReceiptSent" }
func (o MarkReceiptSent) apply(tx *gorm.DB) error {
	res := tx.Model(&DueEntity{}).Where("id = ?", o.DueID).Update("receipt_sent", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RescheduleAuctionDate moves a month's auction date and marks it as
// manually adjusted. The row is created when the month had no date yet.
type RescheduleAuctionDate struct {
	GroupID string
	Month   int
	Date    time.Time
}

func (RescheduleAuctionDate) Name() string { return "RescheduleAuctionDate" }
func (o RescheduleAuctionDate) apply(tx *gorm.DB) error {
	res := tx.Model(&ScheduledAuctionDateEntity{}).
		Where("group_id = ? AND month = ?", o.GroupID, o.Month).
		Updates(map[string]interface{}{"auction_date": o.Date, "manually_adjusted": true})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&ScheduledAuctionDateEntity{
		GroupID:          o.GroupID,
		Month:            o.Month,
		AuctionDate:      o.Date,
		ManuallyAdjusted: true,
	}).Error
}
