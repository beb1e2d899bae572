//go:build unit || e2e

package builder

import (
	"fmt"
	"math/rand"

	"carhive/internal/domain/car"
)

type CarBuilder struct {
	Spec car.Spec
}

func NewCarBuilder() *CarBuilder {
	return &CarBuilder{
		Spec: car.Spec{
			RegistrationNumber: fmt.Sprintf("KA-%06d", rand.Intn(1000000)),
			Brand:              "Toyota",
			Model:              "Corolla",
			Year:               2023,
			FuelType:           car.FuelPetrol,
			Transmission:       car.TransmissionAutomatic,
			RateCentsPerDay:    5000,
			NumberOfSeats:      5,
			AirConditioned:     true,
			MileageKmpl:        15,
		},
	}
}

func (b *CarBuilder) With(mutate func(*car.Spec)) *CarBuilder {
	mutate(&b.Spec)
	return b
}

func (b *CarBuilder) BuildDomain() (*car.Car, error) {
	return car.NewCar(b.Spec)
}
