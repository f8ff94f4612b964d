package service

import (
	"context"
	"log"

	"github.com/appbank/credit-engine/internal/client"
	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/internal/repository"
	"github.com/appbank/credit-engine/pkg/clock"
	customError "github.com/appbank/credit-engine/pkg/errors"
	"github.com/appbank/credit-engine/pkg/utils"
)

// EligibilityService decides whether a client currently carries overdue debt.
// Every issuance path runs through it before touching its own rules.
//
// Product fetches fail open: a client whose lookups error out is treated as
// having no products, so brand-new clients with empty collections never get
// blocked by the eligibility check itself.
type EligibilityService struct {
	creditCardRepo repository.CreditCardRepository
	creditRepo     repository.CreditRepository
	paymentClient  client.PaymentService
	clock          clock.Clock
}

func NewEligibilityService(
	creditCardRepo repository.CreditCardRepository,
	creditRepo repository.CreditRepository,
	paymentClient client.PaymentService,
	clk clock.Clock,
) *EligibilityService {
	return &EligibilityService{
		creditCardRepo: creditCardRepo,
		creditRepo:     creditRepo,
		paymentClient:  paymentClient,
		clock:          clk,
	}
}

// Evaluate returns an INELIGIBLE_CLIENT error when the client has overdue
// debt on any credit card or installment credit.
func (s *EligibilityService) Evaluate(ctx context.Context, clientID string) error {
	overdue, err := s.HasOverdueDebt(ctx, clientID)
	if err != nil {
		return err
	}
	if overdue {
		return customError.WrapOverdueDebt(clientID)
	}
	return nil
}

// HasOverdueDebt reports whether any of the client's credit products is
// past due without a qualifying payment.
func (s *EligibilityService) HasOverdueDebt(ctx context.Context, clientID string) (bool, error) {
	cards, err := s.creditCardRepo.GetAllByClient(ctx, clientID)
	if err != nil {
		log.Printf("eligibility: credit card lookup failed for client %s, assuming none: %v", clientID, err)
		cards = nil
	}

	credits, err := s.creditRepo.GetAllByClient(ctx, clientID)
	if err != nil {
		log.Printf("eligibility: credit lookup failed for client %s, assuming none: %v", clientID, err)
		credits = nil
	}

	today := s.clock.Now()

	for _, card := range cards {
		if card.IsOverdue(today) {
			return true, nil
		}
	}

	for _, credit := range credits {
		if s.isOverdueCredit(ctx, credit) {
			return true, nil
		}
	}

	return false, nil
}

// isOverdueCredit checks whether a credit misses a payment for the current
// period and is past the expected due date projected from its anniversary day.
func (s *EligibilityService) isOverdueCredit(ctx context.Context, credit *domain.Credit) bool {
	today := s.clock.Now()
	month := int(today.Month())
	year := today.Year()

	payments, err := s.paymentClient.FindAllByProduct(ctx, credit.ID)
	if err != nil {
		// Fail open, same as the product fetches: an unreachable payment
		// service must not block issuance.
		log.Printf("eligibility: payment lookup failed for credit %s, skipping: %v", credit.ID, err)
		return false
	}
	credit.Payments = payments

	if credit.HasPaymentForPeriod(month, year) {
		return false
	}

	dueDate := utils.ExpectedDueDate(credit.FirstDatePay, today)
	return today.After(dueDate)
}
