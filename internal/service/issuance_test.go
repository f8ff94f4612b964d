package service

import (
	"context"
	"testing"

	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/pkg/clock"
	customError "github.com/appbank/credit-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type issuanceMocks struct {
	clientRepo      *MockClientRepository
	bankAccountRepo *MockBankAccountRepository
	cardRepo        *MockCreditCardRepository
	creditRepo      *MockCreditRepository
	paymentClient   *MockPaymentService
}

func newIssuanceService(m *issuanceMocks) *IssuanceService {
	clk := clock.Fixed(testToday)
	eligibility := NewEligibilityService(m.cardRepo, m.creditRepo, m.paymentClient, clk)
	return NewIssuanceService(m.clientRepo, m.bankAccountRepo, m.cardRepo, m.creditRepo, eligibility, clk)
}

// expectNoOverdueDebt stubs the eligibility fetches to report a clean client.
func (m *issuanceMocks) expectNoOverdueDebt(clientID string) {
	m.cardRepo.On("GetAllByClient", mock.Anything, clientID).Return([]*domain.CreditCard{}, nil)
	m.creditRepo.On("GetAllByClient", mock.Anything, clientID).Return([]*domain.Credit{}, nil)
}

func TestCreateBankAccount(t *testing.T) {
	tests := []struct {
		name        string
		client      *domain.Client
		request     *domain.CreateBankAccountRequest
		setupMocks  func(*issuanceMocks)
		expectedErr error
	}{
		{
			name:   "Success - personal client first saving account",
			client: &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypePersonal},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT1", Type: domain.AccountTypeSaving, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT1")
				m.bankAccountRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
					Return([]*domain.BankAccount{}, nil)
				m.bankAccountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.BankAccount) bool {
					return a.ClientID == "CLIENT1" && a.Type == domain.AccountTypeSaving
				})).Return(nil)
			},
		},
		{
			name:   "Failure - personal client second saving account",
			client: &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypePersonal},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT1", Type: domain.AccountTypeSaving, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT1")
				m.bankAccountRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
					Return([]*domain.BankAccount{{ID: "ACC1", Type: domain.AccountTypeSaving}}, nil)
			},
			expectedErr: customError.ErrLimitAccountsExceeded,
		},
		{
			name:   "Failure - VIP client saving account without credit card",
			client: &domain.Client{ID: "CLIENT2", FullName: "Ana Ruiz", Type: domain.ClientTypePersonalVIP},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT2", Type: domain.AccountTypeSaving, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT2")
				m.cardRepo.On("CountByClient", mock.Anything, "CLIENT2").Return(0, nil)
			},
			expectedErr: customError.ErrIneligibleClient,
		},
		{
			name:   "Success - VIP client saving account with credit card",
			client: &domain.Client{ID: "CLIENT2", FullName: "Ana Ruiz", Type: domain.ClientTypePersonalVIP},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT2", Type: domain.AccountTypeSaving, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT2")
				m.cardRepo.On("CountByClient", mock.Anything, "CLIENT2").Return(1, nil)
				m.bankAccountRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "Failure - business client saving account",
			client: &domain.Client{ID: "CLIENT3", BusinessName: "Acme SA", Type: domain.ClientTypeBusiness},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT3", Type: domain.AccountTypeSaving, MaxTransactions: 10,
				AccountHolders: []string{"CLIENT1"},
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT3")
			},
			expectedErr: customError.ErrIneligibleClient,
		},
		{
			name:   "Failure - business client without holders",
			client: &domain.Client{ID: "CLIENT3", BusinessName: "Acme SA", Type: domain.ClientTypeBusiness},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT3", Type: domain.AccountTypeCurrent, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT3")
			},
			expectedErr: customError.ErrIneligibleClient,
		},
		{
			name:   "Failure - holder id does not resolve",
			client: &domain.Client{ID: "CLIENT3", BusinessName: "Acme SA", Type: domain.ClientTypeBusiness},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT3", Type: domain.AccountTypeCurrent, MaxTransactions: 10,
				AccountHolders:        []string{"CLIENT1", "GHOST"},
				AuthorizedSignatories: []string{"CLIENT1"},
			},
			setupMocks: func(m *issuanceMocks) {
				m.expectNoOverdueDebt("CLIENT3")
				m.clientRepo.On("GetAllByIDs", mock.Anything, []string{"CLIENT1", "GHOST"}).
					Return([]*domain.Client{{ID: "CLIENT1"}}, nil)
			},
			expectedErr: customError.ErrClientNotFound,
		},
		{
			name:   "Failure - client with overdue debt is rejected before the matrix",
			client: &domain.Client{ID: "CLIENT4", FullName: "Luis Soto", Type: domain.ClientTypePersonal},
			request: &domain.CreateBankAccountRequest{
				ClientID: "CLIENT4", Type: domain.AccountTypeSaving, MaxTransactions: 10,
			},
			setupMocks: func(m *issuanceMocks) {
				pastDue := testToday.AddDate(0, 0, -10)
				m.cardRepo.On("GetAllByClient", mock.Anything, "CLIENT4").
					Return([]*domain.CreditCard{{ID: "CARD1", DueDate: &pastDue, TotalDebt: decimal.NewFromInt(50)}}, nil)
				m.creditRepo.On("GetAllByClient", mock.Anything, "CLIENT4").
					Return([]*domain.Credit{}, nil)
			},
			expectedErr: customError.ErrIneligibleClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &issuanceMocks{
				clientRepo:      &MockClientRepository{},
				bankAccountRepo: &MockBankAccountRepository{},
				cardRepo:        &MockCreditCardRepository{},
				creditRepo:      &MockCreditRepository{},
				paymentClient:   &MockPaymentService{},
			}
			m.clientRepo.On("GetByID", mock.Anything, tt.client.ID).Return(tt.client, nil)
			tt.setupMocks(m)

			svc := newIssuanceService(m)

			account, err := svc.CreateBankAccount(context.Background(), tt.request)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, account)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, account)
			assert.NotEmpty(t, account.ID)
			m.bankAccountRepo.AssertExpectations(t)
		})
	}
}

func TestCreateCreditCard(t *testing.T) {
	client := &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypePersonal}

	tests := []struct {
		name        string
		billingDay  int
		expectedErr error
		dueDay      int
	}{
		{name: "Billing day 20 maps to due day 5", billingDay: 20, dueDay: 5},
		{name: "Billing day 13 maps to due day 28", billingDay: 13, dueDay: 28},
		{name: "Invalid billing day rejected", billingDay: 15, expectedErr: customError.ErrInvalidProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &issuanceMocks{
				clientRepo:      &MockClientRepository{},
				bankAccountRepo: &MockBankAccountRepository{},
				cardRepo:        &MockCreditCardRepository{},
				creditRepo:      &MockCreditRepository{},
				paymentClient:   &MockPaymentService{},
			}
			m.clientRepo.On("GetByID", mock.Anything, "CLIENT1").Return(client, nil)
			m.expectNoOverdueDebt("CLIENT1")
			m.cardRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

			svc := newIssuanceService(m)

			card, err := svc.CreateCreditCard(context.Background(), &domain.CreateCreditCardRequest{
				ClientID:    "CLIENT1",
				LimitCredit: decimal.NewFromInt(5000),
				BillingDay:  tt.billingDay,
			})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, card)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.dueDay, card.DueDay)
			assert.Nil(t, card.DueDate)
			assert.True(t, card.AvailableBalance.Equal(decimal.NewFromInt(5000)))
		})
	}
}

func TestCreateCredit(t *testing.T) {
	validRequest := func() *domain.CreateCreditRequest {
		return &domain.CreateCreditRequest{
			ClientID:         "CLIENT1",
			TotalAmount:      decimal.NewFromInt(500),
			InterestRate:     decimal.NewFromFloat(0.15),
			DisbursementDate: testToday.AddDate(0, 0, 5),
			FirstDatePay:     testToday.AddDate(0, 1, 0),
			TotalMonths:      12,
		}
	}

	t.Run("Success - monthly fee computed at creation", func(t *testing.T) {
		m := &issuanceMocks{
			clientRepo:      &MockClientRepository{},
			bankAccountRepo: &MockBankAccountRepository{},
			cardRepo:        &MockCreditCardRepository{},
			creditRepo:      &MockCreditRepository{},
			paymentClient:   &MockPaymentService{},
		}
		client := &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypePersonal}
		m.clientRepo.On("GetByID", mock.Anything, "CLIENT1").Return(client, nil)
		m.expectNoOverdueDebt("CLIENT1")
		m.creditRepo.On("CountByClient", mock.Anything, "CLIENT1").Return(0, nil)
		m.creditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newIssuanceService(m)

		credit, err := svc.CreateCredit(context.Background(), validRequest())

		assert.NoError(t, err)
		assert.True(t, credit.MonthlyFee.Equal(decimal.NewFromFloat(45.13)),
			"expected 45.13, got %s", credit.MonthlyFee)
		assert.True(t, credit.PendingBalance.Equal(credit.TotalAmount))
	})

	t.Run("Failure - personal client already has a credit", func(t *testing.T) {
		m := &issuanceMocks{
			clientRepo:      &MockClientRepository{},
			bankAccountRepo: &MockBankAccountRepository{},
			cardRepo:        &MockCreditCardRepository{},
			creditRepo:      &MockCreditRepository{},
			paymentClient:   &MockPaymentService{},
		}
		client := &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypePersonal}
		m.clientRepo.On("GetByID", mock.Anything, "CLIENT1").Return(client, nil)
		m.expectNoOverdueDebt("CLIENT1")
		m.creditRepo.On("CountByClient", mock.Anything, "CLIENT1").Return(1, nil)

		svc := newIssuanceService(m)

		credit, err := svc.CreateCredit(context.Background(), validRequest())

		assert.ErrorIs(t, err, customError.ErrLimitAccountsExceeded)
		assert.Nil(t, credit)
	})

	t.Run("Failure - disbursement date not in the future", func(t *testing.T) {
		m := &issuanceMocks{
			clientRepo:      &MockClientRepository{},
			bankAccountRepo: &MockBankAccountRepository{},
			cardRepo:        &MockCreditCardRepository{},
			creditRepo:      &MockCreditRepository{},
			paymentClient:   &MockPaymentService{},
		}
		client := &domain.Client{ID: "CLIENT1", FullName: "Maria Perez", Type: domain.ClientTypeBusiness}
		m.clientRepo.On("GetByID", mock.Anything, "CLIENT1").Return(client, nil)
		m.expectNoOverdueDebt("CLIENT1")

		svc := newIssuanceService(m)

		request := validRequest()
		request.DisbursementDate = testToday

		credit, err := svc.CreateCredit(context.Background(), request)

		assert.ErrorIs(t, err, customError.ErrInvalidProduct)
		assert.Nil(t, credit)
	})
}

func TestDeleteCredit(t *testing.T) {
	t.Run("Failure - pending balance", func(t *testing.T) {
		m := &issuanceMocks{
			clientRepo:      &MockClientRepository{},
			bankAccountRepo: &MockBankAccountRepository{},
			cardRepo:        &MockCreditCardRepository{},
			creditRepo:      &MockCreditRepository{},
			paymentClient:   &MockPaymentService{},
		}
		m.creditRepo.On("GetByID", mock.Anything, "CREDIT1").
			Return(&domain.Credit{ID: "CREDIT1", PendingBalance: decimal.NewFromInt(100)}, nil)

		svc := newIssuanceService(m)

		err := svc.DeleteCredit(context.Background(), "CREDIT1")

		assert.ErrorIs(t, err, customError.ErrInvalidProduct)
	})

	t.Run("Success - settled credit", func(t *testing.T) {
		m := &issuanceMocks{
			clientRepo:      &MockClientRepository{},
			bankAccountRepo: &MockBankAccountRepository{},
			cardRepo:        &MockCreditCardRepository{},
			creditRepo:      &MockCreditRepository{},
			paymentClient:   &MockPaymentService{},
		}
		m.creditRepo.On("GetByID", mock.Anything, "CREDIT1").
			Return(&domain.Credit{ID: "CREDIT1", PendingBalance: decimal.Zero}, nil)
		m.creditRepo.On("Delete", mock.Anything, "CREDIT1").Return(nil)

		svc := newIssuanceService(m)

		err := svc.DeleteCredit(context.Background(), "CREDIT1")

		assert.NoError(t, err)
		m.creditRepo.AssertExpectations(t)
	})
}
