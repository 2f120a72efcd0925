package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_GetAndList(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	first := seedGroup(t, store, 1)
	second := seedGroup(t, store, 1)
	closedAt := time.Now().UTC()
	require.NoError(t, store.ExecBatch(ctx, UpdateGroupStatus{
		GroupID:  second.Group.ID,
		Status:   model.GroupStatusClosed,
		ClosedAt: &closedAt,
	}))

	t.Run("missing group", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list all", func(t *testing.T) {
		groups, total, err := repo.List(ctx, model.GroupFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, groups, 2)
	})

	t.Run("list by status", func(t *testing.T) {
		status := model.GroupStatusActive
		groups, total, err := repo.List(ctx, model.GroupFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, groups, 1)
		assert.Equal(t, first.Group.ID, groups[0].ID)
	})

	t.Run("closed group keeps its close time", func(t *testing.T) {
		g, err := repo.GetByID(ctx, second.Group.ID)
		require.NoError(t, err)
		assert.Equal(t, model.GroupStatusClosed, g.Status)
		require.NotNil(t, g.ClosedAt)
	})
}

func TestGroupRepository_DeleteLeavesNoOrphans(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	doomed := seedGroup(t, store, 3)
	kept := seedGroup(t, store, 2)
	winner := doomed.Memberships[0].ID
	require.NoError(t, store.ExecBatch(ctx,
		InsertAuction{Auction: &model.Auction{
			GroupID:            doomed.Group.ID,
			Month:              1,
			WinnerMembershipID: winner,
			BidAmount:          80000,
			Commission:         4000,
			Dividend:           7600,
			NextPayable:        2400,
			AuctionDate:        time.Now().UTC(),
		}},
		AppendLedgerEntry{Entry: &model.LedgerEntry{
			GroupID:         doomed.Group.ID,
			Kind:            model.LedgerKindPrize,
			Amount:          80000,
			MembershipID:    &winner,
			TransactionDate: time.Now().UTC(),
		}},
	))

	require.NoError(t, repo.Delete(ctx, doomed.Group.ID))

	raw := db.Read(ctx)
	for _, e := range Entities() {
		var count int64
		q := raw.Model(e)
		switch e.(type) {
		case *GroupEntity:
			q = q.Where("id = ?", doomed.Group.ID)
		case *MemberEntity:
			continue
		default:
			q = q.Where("group_id = ?", doomed.Group.ID)
		}
		require.NoError(t, q.Count(&count).Error)
		assert.Zero(t, count, "%T rows left", e)
	}

	_, err := repo.GetByID(ctx, kept.Group.ID)
	require.NoError(t, err)
	var keptDues int64
	require.NoError(t, raw.Model(&DueEntity{}).Where("group_id = ?", kept.Group.ID).Count(&keptDues).Error)
	assert.Equal(t, int64(2), keptDues)

	// members are shared across groups and survive
	var members int64
	require.NoError(t, raw.Model(&MemberEntity{}).Count(&members).Error)
	assert.Equal(t, int64(5), members)

	assert.ErrorIs(t, repo.Delete(ctx, doomed.Group.ID), ErrNotFound)
}
