//go:build unit

package booking_test

import (
	"testing"

	"carhive/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	all := []booking.Status{
		booking.StatusPending, booking.StatusConfirmed,
		booking.StatusCompleted, booking.StatusCancelled,
	}

	allowed := map[booking.Status][]booking.Status{
		booking.StatusPending:   {booking.StatusConfirmed, booking.StatusCancelled},
		booking.StatusConfirmed: {booking.StatusCompleted, booking.StatusCancelled},
		booking.StatusCompleted: {},
		booking.StatusCancelled: {},
	}

	for from, targets := range allowed {
		legal := map[booking.Status]bool{}
		for _, to := range targets {
			legal[to] = true
		}
		for _, to := range all {
			assert.Equal(t, legal[to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestStatusProperties(t *testing.T) {
	assert.True(t, booking.StatusPending.Active())
	assert.True(t, booking.StatusConfirmed.Active())
	assert.True(t, booking.StatusCompleted.Active())
	assert.False(t, booking.StatusCancelled.Active())

	assert.True(t, booking.StatusCompleted.Terminal())
	assert.True(t, booking.StatusCancelled.Terminal())
	assert.False(t, booking.StatusPending.Terminal())

	_, err := booking.NewStatus("unknown")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)
}
