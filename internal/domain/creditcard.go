package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard represents a revolving credit card.
//
// AvailableBalance tracks LimitCredit - TotalDebt; it is recomputed wherever
// the debt changes, not re-derived on reads. DueDate stays nil until the
// first billing statement is generated and only moves forward after that.
// LastStatementMonth/Year record the last billed period so a repeated daily
// tick cannot bill the same period twice. Version backs optimistic
// concurrency on billing updates.
type CreditCard struct {
	ID                 string          `json:"id" db:"id"`
	ClientID           string          `json:"client_id" db:"client_id"`
	LimitCredit        decimal.Decimal `json:"limit_credit" db:"limit_credit"`
	AvailableBalance   decimal.Decimal `json:"available_balance" db:"available_balance"`
	TotalDebt          decimal.Decimal `json:"total_debt" db:"total_debt"`
	BillingDay         int             `json:"billing_day" db:"billing_day"`
	DueDay             int             `json:"due_day" db:"due_day"`
	DueDate            *time.Time      `json:"due_date" db:"due_date"`
	LastStatementMonth int             `json:"last_statement_month" db:"last_statement_month"`
	LastStatementYear  int             `json:"last_statement_year" db:"last_statement_year"`
	Version            int             `json:"version" db:"version"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

func (c *CreditCard) ProductID() string { return c.ID }

func (c *CreditCard) OwnerID() string { return c.ClientID }

func (c *CreditCard) CurrentBalance() decimal.Decimal { return c.AvailableBalance }

// IsOverdue reports whether the card carries debt past its due date.
func (c *CreditCard) IsOverdue(today time.Time) bool {
	return c.DueDate != nil && today.After(*c.DueDate) && c.TotalDebt.IsPositive()
}

// StatementRecorded reports whether a billing statement already exists for
// the given period.
func (c *CreditCard) StatementRecorded(month, year int) bool {
	return c.LastStatementMonth == month && c.LastStatementYear == year
}

// BillingStatement is the persisted record of one statement run: the unbilled
// consumption rolled into debt for a card in a given period. Unique per
// (credit_card_id, billing_month, billing_year).
type BillingStatement struct {
	ID           string          `json:"id" db:"id"`
	CreditCardID string          `json:"credit_card_id" db:"credit_card_id"`
	BillingMonth int             `json:"billing_month" db:"billing_month"`
	BillingYear  int             `json:"billing_year" db:"billing_year"`
	NewDebt      decimal.Decimal `json:"new_debt" db:"new_debt"`
	DueDate      time.Time       `json:"due_date" db:"due_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateCreditCardRequest struct {
	ClientID    string          `json:"client_id" validate:"required"`
	LimitCredit decimal.Decimal `json:"limit_credit" validate:"required"`
	BillingDay  int             `json:"billing_day" validate:"required"`
}
