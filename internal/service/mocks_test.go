package service

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetAllByIDs(ctx context.Context, ids []string) ([]*domain.Client, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BankAccount), args.Error(1)
}

type MockCreditCardRepository struct {
	mock.Mock
}

func (m *MockCreditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCreditCardRepository) GetByID(ctx context.Context, id string) (*domain.CreditCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) GetAll(ctx context.Context) ([]*domain.CreditCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.CreditCard, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditCardRepository) UpdateBilling(ctx context.Context, card *domain.CreditCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCreditCardRepository) ApplyStatement(ctx context.Context, card *domain.CreditCard, statement *domain.BillingStatement) error {
	args := m.Called(ctx, card, statement)
	return args.Error(0)
}

func (m *MockCreditCardRepository) GetStatement(ctx context.Context, cardID string, month, year int) (*domain.BillingStatement, error) {
	args := m.Called(ctx, cardID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingStatement), args.Error(1)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) GetByID(ctx context.Context, id string) (*domain.Credit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.Credit, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConsumptionService struct {
	mock.Mock
}

func (m *MockConsumptionService) FindUnbilled(ctx context.Context, creditCardID string) ([]*domain.Consumption, error) {
	args := m.Called(ctx, creditCardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Consumption), args.Error(1)
}

func (m *MockConsumptionService) SaveAll(ctx context.Context, consumptions []*domain.Consumption) ([]*domain.Consumption, error) {
	args := m.Called(ctx, consumptions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Consumption), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) FindAllByProduct(ctx context.Context, productID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}
