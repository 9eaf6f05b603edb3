package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPayableAmount(t *testing.T) {
	t.Parallel()

	discount := 50.0
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	fine := TrafficFine{Amount: 500, DiscountAmount: &discount, DiscountValidUntil: &until}

	require.InDelta(t, 450.0, fine.PayableAmount(until.Add(-time.Hour)), 0.001)
	require.InDelta(t, 450.0, fine.PayableAmount(until), 0.001)
	require.InDelta(t, 500.0, fine.PayableAmount(until.Add(time.Hour)), 0.001)

	noDiscount := TrafficFine{Amount: 200}
	require.InDelta(t, 200.0, noDiscount.PayableAmount(until), 0.001)
}

func TestIsPayable(t *testing.T) {
	t.Parallel()

	supported := Municipality{IsSupported: true}
	require.True(t, TrafficFine{Municipality: supported, Status: FineStatusOutstanding}.IsPayable())
	require.True(t, TrafficFine{Municipality: supported, Status: FineStatusOverdue}.IsPayable())
	require.False(t, TrafficFine{Municipality: supported, Status: FineStatusPaid}.IsPayable())
	require.False(t, TrafficFine{Municipality: Municipality{}, Status: FineStatusOutstanding}.IsPayable())
}

func TestSummarise(t *testing.T) {
	t.Parallel()

	user := User{
		Vehicles: []Vehicle{{Registration: "CA123456"}},
		PaymentHistory: []PaymentRecord{
			{Amount: 200, Status: PaymentCompleted},
			{Amount: 99, Status: PaymentFailed},
		},
	}
	fines := []TrafficFine{
		{Amount: 500, Status: FineStatusOutstanding},
		{Amount: 1500, Status: FineStatusOverdue},
		{Amount: 200, Status: FineStatusPaid},
	}

	stats := Summarise(user, fines)
	require.Equal(t, 3, stats.TotalCount)
	require.Equal(t, 1, stats.OutstandingCount)
	require.Equal(t, 1, stats.OverdueCount)
	require.Equal(t, 1, stats.PaidCount)
	require.InDelta(t, 2000.0, stats.OutstandingTotal, 0.001)
	require.InDelta(t, 200.0, stats.TotalPaid, 0.001)
	require.Equal(t, 1, stats.VehicleCount)
}
