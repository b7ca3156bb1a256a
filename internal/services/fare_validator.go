package services

import (
	"math"

	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// fareTolerance absorbs float rounding between client and server sums
const fareTolerance = 0.01

// FareValidator checks client-submitted totals against persisted seat prices
type FareValidator struct{}

// NewFareValidator creates a new fare validator
func NewFareValidator() *FareValidator {
	return &FareValidator{}
}

// Validate sums the persisted seat prices and compares the submitted
// total within tolerance. On success it returns the authoritative total,
// rounded to two decimals; the client's figure is never persisted.
func (v *FareValidator) Validate(seats []models.Seat, submitted float64) (float64, error) {
	var calculated float64
	for _, seat := range seats {
		calculated += seat.Price
	}
	calculated = round2(calculated)

	if math.Abs(calculated-submitted) > fareTolerance {
		return 0, &models.FareMismatchError{Calculated: calculated, Submitted: submitted}
	}

	return calculated, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
