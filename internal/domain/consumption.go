package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consumption is a credit-card purchase owned by the remote consumption
// service. It transitions from unbilled to billed exactly once, when the
// billing cycle rolls it into the card's debt and stamps the billing period.
type Consumption struct {
	ID              string          `json:"id"`
	CreditCardID    string          `json:"id_credit_card"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	DateConsumption time.Time       `json:"date_consumption"`
	Billed          bool            `json:"billed"`
	BillingMonth    int             `json:"billing_month"`
	BillingYear     int             `json:"billing_year"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MarkBilled stamps the consumption with the billing period.
func (c *Consumption) MarkBilled(month, year int) {
	c.Billed = true
	c.BillingMonth = month
	c.BillingYear = year
}

// MarkUnbilled reverts a billing stamp. Used only to compensate a statement
// that failed after the consumptions were already saved as billed.
func (c *Consumption) MarkUnbilled() {
	c.Billed = false
	c.BillingMonth = 0
	c.BillingYear = 0
}
