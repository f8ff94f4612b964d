package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit represents an installment loan repaid in fixed monthly fees.
// MonthlyFee is computed once at creation from the amortization formula and
// PendingBalance starts equal to TotalAmount.
type Credit struct {
	ID               string          `json:"id" db:"id"`
	ClientID         string          `json:"client_id" db:"client_id"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	PendingBalance   decimal.Decimal `json:"pending_balance" db:"pending_balance"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	DisbursementDate time.Time       `json:"disbursement_date" db:"disbursement_date"`
	FirstDatePay     time.Time       `json:"first_date_pay" db:"first_date_pay"`
	TotalMonths      int             `json:"total_months" db:"total_months"`
	MonthlyFee       decimal.Decimal `json:"monthly_fee" db:"monthly_fee"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	// Payments are served by the remote payment service, never persisted here.
	Payments []*Payment `json:"payments,omitempty" db:"-"`
}

func (c *Credit) ProductID() string { return c.ID }

func (c *Credit) OwnerID() string { return c.ClientID }

func (c *Credit) CurrentBalance() decimal.Decimal { return c.PendingBalance }

// HasPaymentForPeriod reports whether any recorded payment corresponds to the
// given (month, year).
func (c *Credit) HasPaymentForPeriod(month, year int) bool {
	for _, payment := range c.Payments {
		if payment.MonthCorresponding == month && payment.YearCorresponding == year {
			return true
		}
	}
	return false
}

// DTOs for requests and responses

type CreateCreditRequest struct {
	ClientID         string          `json:"client_id" validate:"required"`
	TotalAmount      decimal.Decimal `json:"total_amount" validate:"required"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	DisbursementDate time.Time       `json:"disbursement_date" validate:"required"`
	FirstDatePay     time.Time       `json:"first_date_pay" validate:"required"`
	TotalMonths      int             `json:"total_months" validate:"required,gt=0"`
}

type MonthlyFeeResponse struct {
	TotalAmount  decimal.Decimal `json:"total_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TotalMonths  int             `json:"total_months"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
}

type EligibilityResponse struct {
	ClientID       string `json:"client_id"`
	HasOverdueDebt bool   `json:"has_overdue_debt"`
}
