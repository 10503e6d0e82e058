package billing

import (
	"github.com/shopspring/decimal"

	"waterbill-backend/internal/apperrors"
)

// Compute derives consumption and amount due from a pair of meter readings
// and a rate. Pure; results are rounded to 2 decimal places.
func Compute(previousReading, currentReading, ratePerUnit decimal.Decimal) (consumption, amountDue decimal.Decimal, err error) {
	if previousReading.IsNegative() {
		return decimal.Zero, decimal.Zero, apperrors.Validation("previous reading cannot be negative")
	}
	if !ratePerUnit.IsPositive() {
		return decimal.Zero, decimal.Zero, apperrors.Validation("rate per unit must be greater than 0")
	}
	if currentReading.LessThan(previousReading) {
		return decimal.Zero, decimal.Zero, apperrors.Validation("current reading must be greater than or equal to previous reading")
	}

	consumption = currentReading.Sub(previousReading).Round(2)
	amountDue = consumption.Mul(ratePerUnit).Round(2)
	return consumption, amountDue, nil
}
