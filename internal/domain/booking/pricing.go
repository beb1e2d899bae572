package booking

// Quote is the priced breakdown of a rental period. All amounts are integer
// cents; currency never touches floating point.
type Quote struct {
	Days           int
	CarCents       int64
	InsuranceCents int64
	DriverCents    int64
	DiscountCents  int64
	TotalCents     int64
}

// NewQuote prices a period: whole days times the car rate, plus the insurance
// coverage percentage of the car subtotal, plus the driver's daily fee.
func NewQuote(period DatePeriod, rateCentsPerDay int64, insurancePercent *int32, driverFeeCentsPerDay *int64) Quote {
	days := period.Days()
	carCents := int64(days) * rateCentsPerDay

	var insuranceCents int64
	if insurancePercent != nil {
		insuranceCents = carCents * int64(*insurancePercent) / 100
	}

	var driverCents int64
	if driverFeeCentsPerDay != nil {
		driverCents = int64(days) * *driverFeeCentsPerDay
	}

	return Quote{
		Days:           days,
		CarCents:       carCents,
		InsuranceCents: insuranceCents,
		DriverCents:    driverCents,
		TotalCents:     carCents + insuranceCents + driverCents,
	}
}

// SubtotalCents is the pre-discount sum of all charge lines.
func (q Quote) SubtotalCents() int64 {
	return q.CarCents + q.InsuranceCents + q.DriverCents
}

// Discounted records a discount against the quote, clamping the total at zero.
func (q Quote) Discounted(discountCents int64) Quote {
	if discountCents < 0 {
		discountCents = 0
	}
	if discountCents > q.SubtotalCents() {
		discountCents = q.SubtotalCents()
	}
	q.DiscountCents = discountCents
	q.TotalCents = q.SubtotalCents() - discountCents
	return q
}

func (q Quote) Total() Money {
	return Money{cents: q.TotalCents}
}
