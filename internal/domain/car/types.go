package car

type Status string

const (
	StatusAvailable        Status = "available"
	StatusBooked           Status = "booked"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusNotAvailable     Status = "not_available"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusUnderMaintenance, StatusNotAvailable:
		return true
	default:
		return false
	}
}

// OutOfService reports whether the car is withdrawn from the rentable fleet.
// A car marked booked can still accept non-overlapping future bookings; the
// booking table, not this flag, decides date availability.
func (s Status) OutOfService() bool {
	return s == StatusUnderMaintenance || s == StatusNotAvailable
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
)

func (f FuelType) String() string {
	return string(f)
}

func (f FuelType) IsValid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric:
		return true
	default:
		return false
	}
}

type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

func (t Transmission) String() string {
	return string(t)
}

func (t Transmission) IsValid() bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic:
		return true
	default:
		return false
	}
}
