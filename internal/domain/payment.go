package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment product types reported by the payment service.
const (
	PaymentProductCreditCard = "CREDIT_CARD"
	PaymentProductCredit     = "CREDIT"
)

// Payment is a payment record owned by the remote payment service.
// MonthCorresponding/YearCorresponding identify the billing period the
// payment settles.
type Payment struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"id_product_credit"`
	Amount             decimal.Decimal `json:"amount"`
	DatePayment        time.Time       `json:"date_payment"`
	ProductType        string          `json:"type_credit_product"`
	MonthCorresponding int             `json:"month_corresponding"`
	YearCorresponding  int             `json:"year_corresponding"`
	PenaltyFee         decimal.Decimal `json:"penalty_fee"`
	CreatedAt          time.Time       `json:"created_at"`
}
