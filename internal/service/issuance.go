package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/internal/repository"
	"github.com/appbank/credit-engine/pkg/clock"
	customError "github.com/appbank/credit-engine/pkg/errors"
	"github.com/appbank/credit-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// IssuanceService gates the creation of bank accounts, credit cards and
// installment credits. The overdue-debt pre-check runs before any per-type
// rule and short-circuits the rest.
type IssuanceService struct {
	clientRepo      repository.ClientRepository
	bankAccountRepo repository.BankAccountRepository
	creditCardRepo  repository.CreditCardRepository
	creditRepo      repository.CreditRepository
	eligibility     *EligibilityService
	clock           clock.Clock
}

func NewIssuanceService(
	clientRepo repository.ClientRepository,
	bankAccountRepo repository.BankAccountRepository,
	creditCardRepo repository.CreditCardRepository,
	creditRepo repository.CreditRepository,
	eligibility *EligibilityService,
	clk clock.Clock,
) *IssuanceService {
	return &IssuanceService{
		clientRepo:      clientRepo,
		bankAccountRepo: bankAccountRepo,
		creditCardRepo:  creditCardRepo,
		creditRepo:      creditRepo,
		eligibility:     eligibility,
		clock:           clk,
	}
}

// CreateBankAccount authorizes and creates a bank account following the
// client/account decision matrix.
func (s *IssuanceService) CreateBankAccount(ctx context.Context, request *domain.CreateBankAccountRequest) (*domain.BankAccount, error) {
	client, err := s.findClient(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	if err = s.eligibility.Evaluate(ctx, client.ID); err != nil {
		return nil, err
	}

	if err = s.validateAccountMatrix(ctx, client, request); err != nil {
		return nil, err
	}

	if err = s.validateAccountLimit(ctx, client, request.Type); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &domain.BankAccount{
		ID:                    uuid.NewString(),
		ClientID:              client.ID,
		Balance:               request.Balance,
		Type:                  request.Type,
		LimitMovements:        request.LimitMovements,
		MaxTransactions:       request.MaxTransactions,
		CommissionPercentage:  request.CommissionPercentage,
		ExpirationDay:         request.ExpirationDay,
		MaintenanceCost:       request.MaintenanceCost,
		MinimumDailyAverage:   request.MinimumDailyAverage,
		AccountHolders:        pq.StringArray(request.AccountHolders),
		AuthorizedSignatories: pq.StringArray(request.AuthorizedSignatories),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err = s.bankAccountRepo.Create(ctx, account); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Printf("Bank account %s created for client %s", account.ID, client.ID)
	return account, nil
}

// validateAccountMatrix applies the per-type issuance rules, most specific
// rule first.
func (s *IssuanceService) validateAccountMatrix(ctx context.Context, client *domain.Client, request *domain.CreateBankAccountRequest) error {
	vipSaving := client.Type == domain.ClientTypePersonalVIP && request.Type == domain.AccountTypeSaving
	pymeCurrent := client.Type == domain.ClientTypeBusinessPyme && request.Type == domain.AccountTypeCurrent
	if vipSaving || pymeCurrent {
		if err := s.requireCreditCard(ctx, client); err != nil {
			return err
		}
	}

	if client.Type == domain.ClientTypeBusiness {
		if request.Type != domain.AccountTypeCurrent {
			return customError.WrapIneligibleClient(fmt.Sprintf(
				"The client %s of type %s only can have current accounts", client.BusinessName, client.Type))
		}
		if len(request.AccountHolders) == 0 {
			return customError.WrapIneligibleClient(fmt.Sprintf(
				"The client %s of type %s must have at least a holder", client.BusinessName, client.Type))
		}
	}

	if len(request.AccountHolders) > 0 || len(request.AuthorizedSignatories) > 0 {
		return s.validateHoldersAndSignatories(ctx, request)
	}

	return nil
}

// requireCreditCard enforces the VIP-saving / PYME-current precondition of
// holding at least one credit card.
func (s *IssuanceService) requireCreditCard(ctx context.Context, client *domain.Client) error {
	count, err := s.creditCardRepo.CountByClient(ctx, client.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if count == 0 {
		return customError.WrapIneligibleClient(fmt.Sprintf(
			"The client %s of type %s must have at least one credit card", client.FullName, client.Type))
	}
	return nil
}

// validateHoldersAndSignatories resolves every listed id to an existing client.
func (s *IssuanceService) validateHoldersAndSignatories(ctx context.Context, request *domain.CreateBankAccountRequest) error {
	seen := make(map[string]bool)
	var uniqueIDs []string
	for _, id := range append(append([]string{}, request.AccountHolders...), request.AuthorizedSignatories...) {
		if !seen[id] {
			seen[id] = true
			uniqueIDs = append(uniqueIDs, id)
		}
	}

	clients, err := s.clientRepo.GetAllByIDs(ctx, uniqueIDs)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	found := make(map[string]bool, len(clients))
	for _, c := range clients {
		found[c.ID] = true
	}

	var missing []string
	for _, id := range uniqueIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return customError.WrapClientsNotFound(missing)
	}

	return nil
}

// validateAccountLimit rejects a second SAVING or CURRENT account for plain
// personal clients. The storage layer's uniqueness constraint backstops the
// read-then-insert race between concurrent requests for the same client.
func (s *IssuanceService) validateAccountLimit(ctx context.Context, client *domain.Client, accountType string) error {
	if !client.IsPersonal() {
		return nil
	}
	if accountType != domain.AccountTypeSaving && accountType != domain.AccountTypeCurrent {
		return nil
	}

	accounts, err := s.bankAccountRepo.GetAllByClient(ctx, client.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, account := range accounts {
		if account.Type == accountType {
			return customError.WrapLimitAccounts(fmt.Sprintf(
				"The client %s of type %s has reached the limit number of allowed accounts",
				client.FullName, client.Type))
		}
	}

	return nil
}

// CreateCreditCard authorizes and creates a credit card. Only the
// overdue-debt pre-check applies; the due day is derived from the billing day.
func (s *IssuanceService) CreateCreditCard(ctx context.Context, request *domain.CreateCreditCardRequest) (*domain.CreditCard, error) {
	client, err := s.findClient(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	if err = s.eligibility.Evaluate(ctx, client.ID); err != nil {
		return nil, err
	}

	dueDay, err := utils.DueDayForBillingDay(request.BillingDay)
	if err != nil {
		return nil, err
	}

	if request.LimitCredit.IsNegative() {
		return nil, customError.WrapInvalidProduct("The credit limit must not be negative")
	}

	now := s.clock.Now()
	card := &domain.CreditCard{
		ID:               uuid.NewString(),
		ClientID:         client.ID,
		LimitCredit:      request.LimitCredit,
		AvailableBalance: request.LimitCredit,
		BillingDay:       request.BillingDay,
		DueDay:           dueDay,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err = s.creditCardRepo.Create(ctx, card); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Printf("Credit card %s created for client %s", card.ID, client.ID)
	return card, nil
}

// CreateCredit authorizes and creates an installment credit, computing the
// monthly fee once at origination.
func (s *IssuanceService) CreateCredit(ctx context.Context, request *domain.CreateCreditRequest) (*domain.Credit, error) {
	client, err := s.findClient(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	if err = s.eligibility.Evaluate(ctx, client.ID); err != nil {
		return nil, err
	}

	if client.IsPersonal() {
		count, countErr := s.creditRepo.CountByClient(ctx, client.ID)
		if countErr != nil {
			return nil, customError.WrapDatabaseError(countErr)
		}
		if count > 0 {
			return nil, customError.WrapLimitAccounts(fmt.Sprintf(
				"The client %s of type %s already has a credit", client.FullName, client.Type))
		}
	}

	if err = s.validateCreditDates(request); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	credit := &domain.Credit{
		ID:               uuid.NewString(),
		ClientID:         client.ID,
		TotalAmount:      request.TotalAmount,
		PendingBalance:   request.TotalAmount,
		InterestRate:     request.InterestRate,
		DisbursementDate: request.DisbursementDate,
		FirstDatePay:     request.FirstDatePay,
		TotalMonths:      request.TotalMonths,
		MonthlyFee:       utils.MonthlyFee(request.TotalAmount, request.InterestRate, request.TotalMonths),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err = s.creditRepo.Create(ctx, credit); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Printf("Credit %s created for client %s, monthly fee %s", credit.ID, client.ID, credit.MonthlyFee)
	return credit, nil
}

func (s *IssuanceService) validateCreditDates(request *domain.CreateCreditRequest) error {
	today := dateOnly(s.clock.Now())

	if request.TotalMonths <= 0 {
		return customError.WrapInvalidProduct("The total months must be greater than zero")
	}
	if !request.TotalAmount.IsPositive() {
		return customError.WrapInvalidProduct("The total amount must be greater than zero")
	}
	if request.InterestRate.IsNegative() {
		return customError.WrapInvalidProduct("The interest rate must not be negative")
	}
	if !dateOnly(request.DisbursementDate).After(today) {
		return customError.WrapInvalidProduct("The disbursement date must be greater than the current date")
	}
	if !dateOnly(request.FirstDatePay).After(today) {
		return customError.WrapInvalidProduct("The first payment date must be greater than the current date")
	}
	return nil
}

// DeleteCredit removes a credit, refusing while a balance is pending.
func (s *IssuanceService) DeleteCredit(ctx context.Context, creditID string) error {
	credit, err := s.creditRepo.GetByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapResourceNotFound("credit", creditID)
		}
		return customError.WrapDatabaseError(err)
	}

	if credit.PendingBalance.IsPositive() {
		return customError.WrapInvalidProduct("The credit can not be deleted while it has a pending balance")
	}

	if err = s.creditRepo.Delete(ctx, creditID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *IssuanceService) findClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClientNotFound(clientID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return client, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
