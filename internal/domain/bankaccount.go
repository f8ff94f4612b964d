package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Bank account types.
const (
	AccountTypeSaving    = "SAVING"
	AccountTypeCurrent   = "CURRENT"
	AccountTypeFixedTerm = "FIXED_TERM"
)

// BankAccount represents a deposit account owned by a client. Business
// accounts carry holders and optionally authorized signatories; both lists
// reference client ids.
type BankAccount struct {
	ID                    string          `json:"id" db:"id"`
	ClientID              string          `json:"client_id" db:"client_id"`
	Balance               decimal.Decimal `json:"balance" db:"balance"`
	Type                  string          `json:"type" db:"type"`
	LimitMovements        int             `json:"limit_movements" db:"limit_movements"`
	MaxTransactions       int             `json:"max_transactions" db:"max_transactions"`
	CommissionPercentage  decimal.Decimal `json:"commission_percentage" db:"commission_percentage"`
	ExpirationDay         int             `json:"expiration_day" db:"expiration_day"`
	MaintenanceCost       decimal.Decimal `json:"maintenance_cost" db:"maintenance_cost"`
	MinimumDailyAverage   decimal.Decimal `json:"minimum_daily_average" db:"minimum_daily_average"`
	AccountHolders        pq.StringArray  `json:"account_holders" db:"account_holders"`
	AuthorizedSignatories pq.StringArray  `json:"authorized_signatories" db:"authorized_signatories"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

func (a *BankAccount) ProductID() string { return a.ID }

func (a *BankAccount) OwnerID() string { return a.ClientID }

func (a *BankAccount) CurrentBalance() decimal.Decimal { return a.Balance }

// DTOs for requests and responses

type CreateBankAccountRequest struct {
	ClientID              string          `json:"client_id" validate:"required"`
	Balance               decimal.Decimal `json:"balance"`
	Type                  string          `json:"type" validate:"required,oneof=SAVING CURRENT FIXED_TERM"`
	LimitMovements        int             `json:"limit_movements" validate:"gte=0"`
	MaxTransactions       int             `json:"max_transactions" validate:"gte=1"`
	CommissionPercentage  decimal.Decimal `json:"commission_percentage"`
	ExpirationDay         int             `json:"expiration_day" validate:"gte=0"`
	MaintenanceCost       decimal.Decimal `json:"maintenance_cost"`
	MinimumDailyAverage   decimal.Decimal `json:"minimum_daily_average"`
	AccountHolders        []string        `json:"account_holders"`
	AuthorizedSignatories []string        `json:"authorized_signatories"`
}
