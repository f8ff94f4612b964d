package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/pkg/clock"
	customError "github.com/appbank/credit-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testToday = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func newEligibilityService(cardRepo *MockCreditCardRepository, creditRepo *MockCreditRepository, paymentClient *MockPaymentService) *EligibilityService {
	return NewEligibilityService(cardRepo, creditRepo, paymentClient, clock.Fixed(testToday))
}

func TestHasOverdueDebt_CreditCards(t *testing.T) {
	pastDue := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	futureDue := time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		card     *domain.CreditCard
		expected bool
	}{
		{
			name: "Overdue - past due date with debt",
			card: &domain.CreditCard{
				ID:        "CARD1",
				DueDate:   &pastDue,
				TotalDebt: decimal.NewFromInt(300),
			},
			expected: true,
		},
		{
			name: "Not overdue - past due date without debt",
			card: &domain.CreditCard{
				ID:        "CARD2",
				DueDate:   &pastDue,
				TotalDebt: decimal.Zero,
			},
			expected: false,
		},
		{
			name: "Not overdue - due date in the future",
			card: &domain.CreditCard{
				ID:        "CARD3",
				DueDate:   &futureDue,
				TotalDebt: decimal.NewFromInt(300),
			},
			expected: false,
		},
		{
			name: "Not overdue - no statement generated yet",
			card: &domain.CreditCard{
				ID:        "CARD4",
				TotalDebt: decimal.NewFromInt(300),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cardRepo := &MockCreditCardRepository{}
			creditRepo := &MockCreditRepository{}
			paymentClient := &MockPaymentService{}

			cardRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
				Return([]*domain.CreditCard{tt.card}, nil)
			creditRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
				Return([]*domain.Credit{}, nil)

			svc := newEligibilityService(cardRepo, creditRepo, paymentClient)

			overdue, err := svc.HasOverdueDebt(context.Background(), "CLIENT1")

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, overdue)
		})
	}
}

func TestHasOverdueDebt_Credits(t *testing.T) {
	// Anniversary day 10: June's expected due date is 2024-06-10, before testToday.
	firstDatePay := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		payments []*domain.Payment
		expected bool
	}{
		{
			name:     "Overdue - no payment for the current period",
			payments: []*domain.Payment{},
			expected: true,
		},
		{
			name: "Not overdue - payment recorded for the current period",
			payments: []*domain.Payment{
				{ProductID: "CREDIT1", MonthCorresponding: 6, YearCorresponding: 2024},
			},
			expected: false,
		},
		{
			name: "Overdue - only payments for earlier periods",
			payments: []*domain.Payment{
				{ProductID: "CREDIT1", MonthCorresponding: 5, YearCorresponding: 2024},
				{ProductID: "CREDIT1", MonthCorresponding: 6, YearCorresponding: 2023},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cardRepo := &MockCreditCardRepository{}
			creditRepo := &MockCreditRepository{}
			paymentClient := &MockPaymentService{}

			credit := &domain.Credit{
				ID:           "CREDIT1",
				ClientID:     "CLIENT1",
				FirstDatePay: firstDatePay,
			}

			cardRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
				Return([]*domain.CreditCard{}, nil)
			creditRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
				Return([]*domain.Credit{credit}, nil)
			paymentClient.On("FindAllByProduct", mock.Anything, "CREDIT1").
				Return(tt.payments, nil)

			svc := newEligibilityService(cardRepo, creditRepo, paymentClient)

			overdue, err := svc.HasOverdueDebt(context.Background(), "CLIENT1")

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, overdue)
		})
	}
}

func TestHasOverdueDebt_ObligationNotStarted(t *testing.T) {
	cardRepo := &MockCreditCardRepository{}
	creditRepo := &MockCreditRepository{}
	paymentClient := &MockPaymentService{}

	// First payment date still ahead of today: never overdue.
	credit := &domain.Credit{
		ID:           "CREDIT1",
		ClientID:     "CLIENT1",
		FirstDatePay: time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
	}

	cardRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return([]*domain.CreditCard{}, nil)
	creditRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return([]*domain.Credit{credit}, nil)
	paymentClient.On("FindAllByProduct", mock.Anything, "CREDIT1").
		Return([]*domain.Payment{}, nil)

	svc := newEligibilityService(cardRepo, creditRepo, paymentClient)

	overdue, err := svc.HasOverdueDebt(context.Background(), "CLIENT1")

	assert.NoError(t, err)
	assert.False(t, overdue)
}

func TestHasOverdueDebt_FailOpenOnFetchErrors(t *testing.T) {
	cardRepo := &MockCreditCardRepository{}
	creditRepo := &MockCreditRepository{}
	paymentClient := &MockPaymentService{}

	cardRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return(nil, errors.New("connection refused"))
	creditRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return(nil, errors.New("connection refused"))

	svc := newEligibilityService(cardRepo, creditRepo, paymentClient)

	overdue, err := svc.HasOverdueDebt(context.Background(), "CLIENT1")

	assert.NoError(t, err)
	assert.False(t, overdue)
}

func TestEvaluate_ReturnsIneligibleClient(t *testing.T) {
	cardRepo := &MockCreditCardRepository{}
	creditRepo := &MockCreditRepository{}
	paymentClient := &MockPaymentService{}

	pastDue := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	card := &domain.CreditCard{
		ID:        "CARD1",
		DueDate:   &pastDue,
		TotalDebt: decimal.NewFromInt(100),
	}

	cardRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return([]*domain.CreditCard{card}, nil)
	creditRepo.On("GetAllByClient", mock.Anything, "CLIENT1").
		Return([]*domain.Credit{}, nil)

	svc := newEligibilityService(cardRepo, creditRepo, paymentClient)

	err := svc.Evaluate(context.Background(), "CLIENT1")

	assert.ErrorIs(t, err, customError.ErrIneligibleClient)
}
