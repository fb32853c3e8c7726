package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/payment-service/internal/domain/model"
)

func TestWindowStart(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
		// 02:00 on Jan 1st in UTC+5:30 is still December in UTC
		{time.Date(2026, 1, 1, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, windowStart(tt.now), tt.now.String())
	}
}

func TestBucketByMonth(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	points := []model.RevenuePoint{
		{Amount: decimal.RequireFromString("0.10"), CreatedAt: time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)},
		{Amount: decimal.RequireFromString("0.20"), CreatedAt: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.RequireFromString("499.00"), CreatedAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		// Local October, UTC September
		{Amount: decimal.RequireFromString("1.00"), CreatedAt: time.Date(2026, 10, 1, 3, 0, 0, 0, ist)},
	}

	months := bucketByMonth(points)
	require.Len(t, months, 2)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), months[0].Month)
	assert.Equal(t, "499.00", months[0].Revenue.StringFixed(2))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), months[1].Month)
	// No float drift: 0.1 + 0.2 + 1 is exactly 1.3
	assert.True(t, months[1].Revenue.Equal(decimal.RequireFromString("1.3")))
}
