package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_Range(t *testing.T) {
	// A Wednesday.
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "ThisWeek", tf: TimeframeThisWeek, wantStart: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)},
		{name: "LastWeek", tf: TimeframeLastWeek, wantStart: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{name: "ThisMonth", tf: TimeframeThisMonth, wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{name: "LastMonth", tf: TimeframeLastMonth, wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.tf.Range(now)
			assert.True(t, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframe_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)

	start, _, _ := TimeframeThisWeek.Range(sunday)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), start)
}

func TestTimeframe_Contains(t *testing.T) {
	now := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	assert.True(t, TimeframeAll.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, TimeframeThisMonth.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, TimeframeThisMonth.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, TimeframeAll, TimeframeLastMonth.Next())
}
