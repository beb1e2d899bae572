//go:build unit

package booking_test

import (
	"testing"
	"time"

	"carhive/internal/domain/booking"
	"carhive/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	b, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, booking.StatusPending, b.Status())
	assert.True(t, booking.IsValidReference(b.Reference()))

	_, err = builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
		bb.Reference = ""
	}).BuildDomain()
	assert.ErrorIs(t, err, booking.ErrEmptyReference)
}

func TestBookingCancel(t *testing.T) {
	cutoff := 24 * time.Hour

	newBooking := func(t *testing.T) *booking.Booking {
		t.Helper()
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		return b
	}

	t.Run("allowed before the cutoff", func(t *testing.T) {
		b := newBooking(t)
		// 25h of lead time against a 24h cutoff
		now := b.Period().Pickup().Add(-25 * time.Hour)
		assert.NoError(t, b.Cancel(now, cutoff))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("rejected inside the cutoff", func(t *testing.T) {
		b := newBooking(t)
		// only 23h left before pickup
		now := b.Period().Pickup().Add(-23 * time.Hour)
		assert.ErrorIs(t, b.Cancel(now, cutoff), booking.ErrCancellationCutoff)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("rejected exactly at the cutoff", func(t *testing.T) {
		b := newBooking(t)
		now := b.Period().Pickup().Add(-cutoff)
		assert.ErrorIs(t, b.Cancel(now, cutoff), booking.ErrCancellationCutoff)
	})

	t.Run("zero cutoff bypasses the window", func(t *testing.T) {
		b := newBooking(t)
		now := b.Period().Pickup().Add(-time.Minute)
		assert.NoError(t, b.Cancel(now, 0))
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		b := newBooking(t)
		require.NoError(t, b.Cancel(b.Period().Pickup().Add(-48*time.Hour), cutoff))
		assert.ErrorIs(t, b.Cancel(b.Period().Pickup().Add(-48*time.Hour), cutoff), booking.ErrBookingCancelled)
	})

	t.Run("completed bookings cannot be cancelled", func(t *testing.T) {
		b := newBooking(t)
		require.NoError(t, b.Confirm())
		require.NoError(t, b.Complete())
		assert.ErrorIs(t, b.Cancel(b.Period().Pickup().Add(-48*time.Hour), 0), booking.ErrInvalidTransition)
	})
}

func TestBookingExtend(t *testing.T) {
	bb := builder.NewBookingBuilder()
	b, err := bb.BuildDomain()
	require.NoError(t, err)

	originalTotal := b.Quote().TotalCents
	newReturn := bb.Return.Add(48 * time.Hour)
	tail, err := bb.Period().Extension(newReturn)
	require.NoError(t, err)
	additional := booking.NewQuote(tail, bb.RatePerDay, nil, nil)

	t.Run("adds the extension quote", func(t *testing.T) {
		require.NoError(t, b.Extend(newReturn, additional))
		assert.Equal(t, newReturn, b.Period().Return())
		assert.Equal(t, originalTotal+additional.TotalCents, b.Quote().TotalCents)
	})

	t.Run("earlier return rejected", func(t *testing.T) {
		assert.ErrorIs(t, b.Extend(bb.Return, additional), booking.ErrReturnNotExtended)
	})

	t.Run("cancelled booking rejected", func(t *testing.T) {
		c, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, c.Cancel(c.Period().Pickup().Add(-48*time.Hour), 0))
		assert.ErrorIs(t, c.Extend(newReturn, additional), booking.ErrNotActiveForExtension)
	})

	t.Run("completed booking rejected", func(t *testing.T) {
		c, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, c.Confirm())
		require.NoError(t, c.Complete())
		assert.ErrorIs(t, c.Extend(newReturn, additional), booking.ErrNotActiveForExtension)
	})
}

func TestBookingAuthorizedFor(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owning user", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
			bb.Renter = booking.UserRenter(ownerID)
		}).BuildDomain()
		require.NoError(t, err)

		assert.True(t, b.AuthorizedFor(&ownerID, ""))

		other := uuid.New()
		assert.False(t, b.AuthorizedFor(&other, ""))
		assert.False(t, b.AuthorizedFor(nil, b.Reference()), "reference is not a credential for user bookings")
	})

	t.Run("guest presents the reference", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
			bb.Renter = booking.GuestRenter(uuid.New())
		}).BuildDomain()
		require.NoError(t, err)

		assert.True(t, b.AuthorizedFor(nil, b.Reference()))
		assert.True(t, b.AuthorizedFor(nil, "  "+b.Reference()+" "), "lookup is normalized")
		assert.False(t, b.AuthorizedFor(nil, "RG202601010000000000"))
		assert.False(t, b.AuthorizedFor(nil, ""))
	})
}
