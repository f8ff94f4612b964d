package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary amount to 2 decimal places, half up.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// MonthlyFee calculates the fixed monthly installment for a credit using the
// French amortization formula:
//
//	monthlyRate = interestRate / totalMonths
//	fee         = totalAmount * monthlyRate / (1 - (1+monthlyRate)^(-totalMonths))
//
// A zero interest rate degenerates into an even split of the principal.
// The power term is computed in float64 and the result converted back to
// decimal for the final rounding.
func MonthlyFee(totalAmount decimal.Decimal, interestRate decimal.Decimal, totalMonths int) decimal.Decimal {
	if totalMonths <= 0 {
		return decimal.Zero
	}

	months := decimal.NewFromInt(int64(totalMonths))
	if interestRate.IsZero() {
		return totalAmount.Div(months).Round(2)
	}

	monthlyRate := interestRate.InexactFloat64() / float64(totalMonths)
	denominator := 1 - math.Pow(1+monthlyRate, -float64(totalMonths))
	fee := totalAmount.InexactFloat64() * monthlyRate / denominator

	return decimal.NewFromFloat(fee).Round(2)
}

// DailyPenalty calculates one day of overdue interest on a debt.
// monthlyRate is the monthly penalty rate (e.g. 0.15), applied as rate/30 per day.
func DailyPenalty(totalDebt decimal.Decimal, monthlyRate decimal.Decimal) decimal.Decimal {
	daily := monthlyRate.Div(decimal.NewFromInt(30))
	return totalDebt.Mul(daily).Round(2)
}
