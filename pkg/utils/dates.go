package utils

import (
	"time"

	customError "github.com/appbank/credit-engine/pkg/errors"
)

// Billing days accepted for credit cards and the due day each one maps to.
const (
	BillingDayEarly = 13
	BillingDayLate  = 20

	DueDayForEarlyBilling = 28
	DueDayForLateBilling  = 5
)

// DueDayForBillingDay maps a card's billing day to its fixed due day.
// Billing on the 20th falls due on the 5th, billing on the 13th on the 28th.
func DueDayForBillingDay(billingDay int) (int, error) {
	switch billingDay {
	case BillingDayLate:
		return DueDayForLateBilling, nil
	case BillingDayEarly:
		return DueDayForEarlyBilling, nil
	default:
		return 0, customError.WrapInvalidProduct("The billing day must be 20 or 13")
	}
}

// ExpectedDueDate projects the due date of the current period for an
// installment credit from its first payment date (the anniversary day).
// While the first payment date is still in the future the obligation has not
// started, so it is returned unchanged. Otherwise the anniversary day is
// carried into today's month, clamped to the month's length.
func ExpectedDueDate(firstDatePay time.Time, today time.Time) time.Time {
	if firstDatePay.After(today) {
		return firstDatePay
	}
	return dateWithClampedDay(today.Year(), today.Month(), firstDatePay.Day())
}

// NextStatementDueDate computes the due date assigned by a billing statement:
// one month after the statement day, pinned to the card's due day.
func NextStatementDueDate(today time.Time, dueDay int) time.Time {
	// First of the current month, plus one month: avoids the end-of-month
	// normalization AddDate applies on days 29-31.
	next := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return dateWithClampedDay(next.Year(), next.Month(), dueDay)
}

// SamePeriod reports whether a payment's (month, year) matches the given date.
func SamePeriod(month, year int, date time.Time) bool {
	return month == int(date.Month()) && year == date.Year()
}

func dateWithClampedDay(year int, month time.Month, day int) time.Time {
	last := lastDayOfMonth(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
