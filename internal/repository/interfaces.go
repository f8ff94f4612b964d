package repository

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// GetByID retrieves a client by id
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// GetAllByIDs retrieves the clients whose ids appear in the list
	GetAllByIDs(ctx context.Context, ids []string) ([]*domain.Client, error)
}

// BankAccountRepository defines the interface for bank account data operations
type BankAccountRepository interface {
	// Create creates a new bank account
	Create(ctx context.Context, account *domain.BankAccount) error

	// GetByID retrieves a bank account by id
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)

	// GetAllByClient retrieves all bank accounts owned by a client
	GetAllByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error)
}

// CreditCardRepository defines the interface for credit card data operations
type CreditCardRepository interface {
	// Create creates a new credit card
	Create(ctx context.Context, card *domain.CreditCard) error

	// GetByID retrieves a credit card by id
	GetByID(ctx context.Context, id string) (*domain.CreditCard, error)

	// GetAll retrieves every credit card (billing fan-out)
	GetAll(ctx context.Context) ([]*domain.CreditCard, error)

	// GetAllByClient retrieves all credit cards owned by a client
	GetAllByClient(ctx context.Context, clientID string) ([]*domain.CreditCard, error)

	// CountByClient counts the credit cards owned by a client
	CountByClient(ctx context.Context, clientID string) (int, error)

	// UpdateBilling persists billing mutations (debt, balance, due date,
	// statement markers) guarded by the card's version
	UpdateBilling(ctx context.Context, card *domain.CreditCard) error

	// ApplyStatement persists the card billing update and the statement
	// record as one transaction, guarded by the card's version
	ApplyStatement(ctx context.Context, card *domain.CreditCard, statement *domain.BillingStatement) error

	// GetStatement retrieves the statement for a card and period, if any
	GetStatement(ctx context.Context, cardID string, month, year int) (*domain.BillingStatement, error)
}

// CreditRepository defines the interface for installment credit data operations
type CreditRepository interface {
	// Create creates a new credit
	Create(ctx context.Context, credit *domain.Credit) error

	// GetByID retrieves a credit by id
	GetByID(ctx context.Context, id string) (*domain.Credit, error)

	// GetAllByClient retrieves all credits owned by a client
	GetAllByClient(ctx context.Context, clientID string) ([]*domain.Credit, error)

	// CountByClient counts the credits owned by a client
	CountByClient(ctx context.Context, clientID string) (int, error)

	// Delete removes a credit
	Delete(ctx context.Context, id string) error
}
