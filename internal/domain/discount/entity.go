package discount

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCode       = errors.New("discount code must be 3-20 characters")
	ErrAmbiguousDiscount = errors.New("set either percentage or fixed amount, not both")
	ErrMissingDiscount   = errors.New("either percentage or fixed amount is required")
	ErrInvalidPercent    = errors.New("percentage must be between 0 and 100")
	ErrNegativeAmount    = errors.New("fixed amount cannot be negative")
	ErrInvalidWindow     = errors.New("end date must be after start date")
	ErrCodeInactive      = errors.New("discount code is inactive")
	ErrCodeNotYetValid   = errors.New("discount code is not yet valid")
	ErrCodeExpired       = errors.New("discount code has expired")
	ErrUsageExhausted    = errors.New("discount code usage limit reached")
)

// DiscountCode reduces a booking total by a percentage or a fixed amount,
// never both.
type DiscountCode struct {
	id          uuid.UUID
	code        string
	percentOff  *int32
	amountCents *int64
	startDate   time.Time
	endDate     time.Time
	usageLimit  int
	usedCount   int
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

type Spec struct {
	Code        string
	PercentOff  *int32
	AmountCents *int64
	StartDate   time.Time
	EndDate     time.Time
	UsageLimit  int
}

func NewDiscountCode(spec Spec) (*DiscountCode, error) {
	code := strings.ToUpper(strings.TrimSpace(spec.Code))
	if len(code) < 3 || len(code) > 20 {
		return nil, ErrInvalidCode
	}
	if spec.PercentOff != nil && spec.AmountCents != nil {
		return nil, ErrAmbiguousDiscount
	}
	if spec.PercentOff == nil && spec.AmountCents == nil {
		return nil, ErrMissingDiscount
	}
	if spec.PercentOff != nil && (*spec.PercentOff < 0 || *spec.PercentOff > 100) {
		return nil, ErrInvalidPercent
	}
	if spec.AmountCents != nil && *spec.AmountCents < 0 {
		return nil, ErrNegativeAmount
	}
	if !spec.EndDate.After(spec.StartDate) {
		return nil, ErrInvalidWindow
	}
	limit := spec.UsageLimit
	if limit < 1 {
		limit = 1
	}

	return &DiscountCode{
		id:          uuid.New(),
		code:        code,
		percentOff:  spec.PercentOff,
		amountCents: spec.AmountCents,
		startDate:   spec.StartDate,
		endDate:     spec.EndDate,
		usageLimit:  limit,
		isActive:    true,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	code string,
	percentOff *int32,
	amountCents *int64,
	startDate, endDate time.Time,
	usageLimit, usedCount int,
	isActive bool,
) *DiscountCode {
	return &DiscountCode{
		id:          id,
		code:        code,
		percentOff:  percentOff,
		amountCents: amountCents,
		startDate:   startDate,
		endDate:     endDate,
		usageLimit:  usageLimit,
		usedCount:   usedCount,
		isActive:    isActive,
	}
}

// ValidateUsage reports whether the code can be applied at the given instant.
func (d *DiscountCode) ValidateUsage(now time.Time) error {
	if !d.isActive {
		return ErrCodeInactive
	}
	if now.Before(d.startDate) {
		return ErrCodeNotYetValid
	}
	if now.After(d.endDate) {
		return ErrCodeExpired
	}
	if d.usedCount >= d.usageLimit {
		return ErrUsageExhausted
	}
	return nil
}

// Deactivate retires the code without deleting rows that reference it.
func (d *DiscountCode) Deactivate() {
	d.isActive = false
}

// Apply returns the discounted total, clamped at zero.
func (d *DiscountCode) Apply(totalCents int64) int64 {
	result := totalCents
	if d.percentOff != nil {
		result -= totalCents * int64(*d.percentOff) / 100
	}
	if d.amountCents != nil {
		result -= *d.amountCents
	}
	if result < 0 {
		result = 0
	}
	return result
}

func (d *DiscountCode) ID() uuid.UUID        { return d.id }
func (d *DiscountCode) Code() string         { return d.code }
func (d *DiscountCode) PercentOff() *int32   { return d.percentOff }
func (d *DiscountCode) AmountCents() *int64  { return d.amountCents }
func (d *DiscountCode) StartDate() time.Time { return d.startDate }
func (d *DiscountCode) EndDate() time.Time   { return d.endDate }
func (d *DiscountCode) UsageLimit() int      { return d.usageLimit }
func (d *DiscountCode) UsedCount() int       { return d.usedCount }
func (d *DiscountCode) IsActive() bool       { return d.isActive }
func (d *DiscountCode) CreatedAt() time.Time { return d.createdAt }
func (d *DiscountCode) UpdatedAt() time.Time { return d.updatedAt }
