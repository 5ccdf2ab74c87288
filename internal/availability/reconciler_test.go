package availability

import (
	"testing"

	"studyhall/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cabinRefs(ids ...string) []CabinRef {
	out := make([]CabinRef, len(ids))
	for i, id := range ids {
		out[i] = CabinRef{ID: id, RecordID: int64(i + 1)}
	}
	return out
}

func TestReconcile_NoBookings(t *testing.T) {
	cabins := cabinRefs("cabin-0-0", "cabin-0-1", "cabin-1-0")

	got := Reconcile(cabins, nil)

	require.Len(t, got, 3)
	for id, a := range got {
		assert.Equal(t, domain.CabinAvailable, a.Status, id)
		assert.Equal(t, 0, a.ActiveBookings, id)
	}
}

func TestReconcile_ActivePaidOccupies(t *testing.T) {
	cabins := cabinRefs("cabin-0-0", "cabin-0-1")
	bookings := []BookingRecord{
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
	}

	got := Reconcile(cabins, bookings)

	assert.Equal(t, domain.CabinOccupied, got["cabin-0-0"].Status)
	assert.Equal(t, 1, got["cabin-0-0"].ActiveBookings)
	assert.Equal(t, domain.CabinAvailable, got["cabin-0-1"].Status)
}

func TestReconcile_IgnoresNonQualifyingBookings(t *testing.T) {
	cabins := cabinRefs("cabin-0-0")
	bookings := []BookingRecord{
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentUnpaid},
		{CabinID: "cabin-0-0", Status: domain.BookingPending, PaymentStatus: domain.PaymentPaid},
		{CabinID: "cabin-0-0", Status: domain.BookingCancelled, PaymentStatus: domain.PaymentPaid},
		{CabinID: "cabin-0-0", Status: domain.BookingCompleted, PaymentStatus: domain.PaymentPaid},
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentRefunded},
	}

	got := Reconcile(cabins, bookings)

	assert.Equal(t, domain.CabinAvailable, got["cabin-0-0"].Status)
	assert.Equal(t, 0, got["cabin-0-0"].ActiveBookings)
}

func TestReconcile_BookingForUnknownCabin(t *testing.T) {
	cabins := cabinRefs("cabin-0-0")
	bookings := []BookingRecord{
		{CabinID: "cabin-9-9", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
	}

	got := Reconcile(cabins, bookings)

	require.Len(t, got, 1)
	assert.Equal(t, domain.CabinAvailable, got["cabin-0-0"].Status)
}

func TestReconcile_CountsMultipleActiveBookings(t *testing.T) {
	cabins := cabinRefs("cabin-0-0")
	bookings := []BookingRecord{
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
	}

	got := Reconcile(cabins, bookings)

	assert.Equal(t, 2, got["cabin-0-0"].ActiveBookings)
	assert.Equal(t, domain.CabinOccupied, got["cabin-0-0"].Status)
}

func TestOccupancyRate(t *testing.T) {
	t.Run("empty map is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, OccupancyRate(nil))
		assert.Equal(t, 0.0, OccupancyRate(map[string]CabinAvailability{}))
	})

	t.Run("half occupied", func(t *testing.T) {
		m := map[string]CabinAvailability{
			"cabin-0-0": {Status: domain.CabinOccupied, ActiveBookings: 1},
			"cabin-0-1": {Status: domain.CabinAvailable},
		}
		assert.Equal(t, 0.5, OccupancyRate(m))
	})

	t.Run("bounded", func(t *testing.T) {
		m := map[string]CabinAvailability{
			"cabin-0-0": {Status: domain.CabinOccupied, ActiveBookings: 3},
		}
		rate := OccupancyRate(m)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 1.0)
	})
}

func TestNewSnapshot(t *testing.T) {
	cabins := cabinRefs("cabin-0-0", "cabin-0-1", "cabin-1-0", "cabin-1-1")
	bookings := []BookingRecord{
		{CabinID: "cabin-0-0", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
	}

	snap := NewSnapshot(42, cabins, bookings)

	assert.Equal(t, int64(42), snap.HallID)
	assert.Equal(t, 4, snap.TotalCabins)
	assert.Equal(t, 1, snap.OccupiedCount)
	assert.Equal(t, 0.25, snap.OccupancyRate)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestNewSnapshot_ZeroCabins(t *testing.T) {
	snap := NewSnapshot(7, nil, nil)

	assert.Equal(t, 0, snap.TotalCabins)
	assert.Equal(t, 0, snap.OccupiedCount)
	assert.Equal(t, 0.0, snap.OccupancyRate)
}
