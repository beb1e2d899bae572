//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"carhive/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestNewReference(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 45, 0, time.UTC)

	ref := booking.NewReference(now)
	assert.True(t, booking.IsValidReference(ref), "got %q", ref)
	assert.True(t, strings.HasPrefix(ref, "RG20260310143045"))
	assert.Len(t, ref, 20)
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "RG202603101430450042", booking.NormalizeReference("  rg202603101430450042 "))
}

func TestIsValidReference(t *testing.T) {
	assert.False(t, booking.IsValidReference(""))
	assert.False(t, booking.IsValidReference("RG123"))
	assert.False(t, booking.IsValidReference("XX202603101430450042"))
}
