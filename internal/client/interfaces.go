package client

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"
)

// ConsumptionService exposes the remote store of credit-card consumptions.
type ConsumptionService interface {
	// FindUnbilled retrieves the consumptions of a card not yet rolled into a statement
	FindUnbilled(ctx context.Context, creditCardID string) ([]*domain.Consumption, error)

	// SaveAll persists the given consumptions and returns the stored versions
	SaveAll(ctx context.Context, consumptions []*domain.Consumption) ([]*domain.Consumption, error)
}

// PaymentService exposes the remote store of product payments.
type PaymentService interface {
	// FindAllByProduct retrieves a product's payments sorted by payment date
	FindAllByProduct(ctx context.Context, productID string) ([]*domain.Payment, error)
}
