package domain

import "github.com/shopspring/decimal"

// Product is the capability shared by every credit-bearing or deposit
// product: exposing the balance currently available to the client.
// It replaces per-type branching wherever a caller only needs the balance.
type Product interface {
	ProductID() string
	OwnerID() string
	CurrentBalance() decimal.Decimal
}
