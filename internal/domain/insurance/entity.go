package insurance

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName     = errors.New("insurance name is required")
	ErrInvalidCoverage = errors.New("coverage percentage must be between 1 and 100")
)

// Insurance is a named product whose coverage percentage is charged on top of
// the car-rental subtotal.
type Insurance struct {
	id              uuid.UUID
	name            string
	coveragePercent int32
	description     *string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewInsurance(name string, coveragePercent int32, description *string) (*Insurance, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if coveragePercent < 1 || coveragePercent > 100 {
		return nil, ErrInvalidCoverage
	}

	return &Insurance{
		id:              uuid.New(),
		name:            name,
		coveragePercent: coveragePercent,
		description:     description,
	}, nil
}

func Reconstruct(id uuid.UUID, name string, coveragePercent int32, description *string, createdAt, updatedAt time.Time) *Insurance {
	return &Insurance{
		id:              id,
		name:            name,
		coveragePercent: coveragePercent,
		description:     description,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// PremiumCents computes the insurance charge for a rental subtotal.
func (i *Insurance) PremiumCents(subtotalCents int64) int64 {
	return subtotalCents * int64(i.coveragePercent) / 100
}

func (i *Insurance) ID() uuid.UUID          { return i.id }
func (i *Insurance) Name() string           { return i.name }
func (i *Insurance) CoveragePercent() int32 { return i.coveragePercent }
func (i *Insurance) Description() *string   { return i.description }
func (i *Insurance) CreatedAt() time.Time   { return i.createdAt }
func (i *Insurance) UpdatedAt() time.Time   { return i.updatedAt }
