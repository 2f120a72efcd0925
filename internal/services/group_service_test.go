package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	start := time.Date(2026, 1, 31, 18, 30, 0, 0, time.UTC)

	schedule := GenerateSchedule(start, 4)
	require.Len(t, schedule, 4)

	want := []time.Time{
		time.Date(2026, 1, 31, 18, 30, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 18, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 18, 30, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 18, 30, 0, 0, time.UTC),
	}
	for i, s := range schedule {
		assert.Equal(t, i+1, s.Month)
		assert.True(t, want[i].Equal(s.Date), "month %d: got %s", s.Month, s.Date)
	}

	assert.Empty(t, GenerateSchedule(start, 0))
}
