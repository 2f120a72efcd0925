package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := pg.CreateSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db.Write(context.Background())))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type seededGroup struct {
	Group       *model.Group
	Members     []*model.Member
	Memberships []*model.Membership
}

// seedGroup stores a 10 slot group of pot 100000 with n members and their
// month 1 dues.
func seedGroup(t *testing.T, store *Store, n int) *seededGroup {
	t.Helper()
	g := &model.Group{
		ID:              uuid.NewString(),
		Name:            "group " + uuid.NewString()[:8],
		PotValue:        100000,
		Duration:        10,
		CommissionRate:  decimal.NewFromInt(5),
		BaseInstallment: 10000,
		TotalMembers:    10,
		CurrentMonth:    1,
		Status:          model.GroupStatusActive,
	}
	ops := []WriteOp{InsertGroup{Group: g}}
	out := &seededGroup{Group: g}
	for i := 1; i <= n; i++ {
		m := &model.Member{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("member %d", i),
			Phone:  fmt.Sprintf("+9100000%s%02d", g.ID[:4], i),
			Source: model.MemberSourceManual,
		}
		ms := &model.Membership{
			ID:           uuid.NewString(),
			GroupID:      g.ID,
			MemberID:     m.ID,
			TicketNumber: i,
			JoinedMonth:  1,
			IsActive:     true,
		}
		ops = append(ops,
			InsertMember{Member: m},
			InsertMembership{Membership: ms},
			InsertDue{Due: &model.Due{
				ID:           uuid.NewString(),
				GroupID:      g.ID,
				MembershipID: ms.ID,
				Month:        1,
				AmountDue:    g.BaseInstallment,
				Status:       model.DueStatusPending,
			}},
		)
		out.Members = append(out.Members, m)
		out.Memberships = append(out.Memberships, ms)
	}
	ops = append(ops, InsertScheduledDate{Date: &model.ScheduledAuctionDate{
		GroupID:     g.ID,
		Month:       1,
		AuctionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, store.ExecBatch(context.Background(), ops...))
	return out
}
