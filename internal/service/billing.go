package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/appbank/credit-engine/internal/client"
	"github.com/appbank/credit-engine/internal/config"
	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/internal/repository"
	"github.com/appbank/credit-engine/pkg/clock"
	customError "github.com/appbank/credit-engine/pkg/errors"
	"github.com/appbank/credit-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// BillingService runs the daily billing cycle over all credit cards.
//
// Per card and per tick exactly one of three things happens: a billing
// statement (today is the card's billing day), an overdue penalty (debt past
// the due date), or nothing. A failure on one card never stops the others.
type BillingService struct {
	creditCardRepo    repository.CreditCardRepository
	consumptionClient client.ConsumptionService
	redis             *redis.Client
	clock             clock.Clock
	config            *config.Config
}

func NewBillingService(
	creditCardRepo repository.CreditCardRepository,
	consumptionClient client.ConsumptionService,
	redisClient *redis.Client,
	clk clock.Clock,
	cfg *config.Config,
) *BillingService {
	return &BillingService{
		creditCardRepo:    creditCardRepo,
		consumptionClient: consumptionClient,
		redis:             redisClient,
		clock:             clk,
		config:            cfg,
	}
}

// Run executes the daily tick at the injected clock's current date.
func (s *BillingService) Run(ctx context.Context) error {
	return s.RunDailyTick(ctx, s.clock.Now())
}

// RunDailyTick fans the billing cycle out across all credit cards with
// bounded parallelism. Cards are independent; per-card errors are logged and
// counted, never propagated mid-batch.
func (s *BillingService) RunDailyTick(ctx context.Context, today time.Time) error {
	log.Printf("Starting billing cycle for %s", today.Format("2006-01-02"))

	cards, err := s.creditCardRepo.GetAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.config.Billing.WorkerCount)

	var mu sync.Mutex
	failed := 0

	for _, card := range cards {
		wg.Add(1)
		sem <- struct{}{}
		go func(card *domain.CreditCard) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.processCard(ctx, card, today); err != nil {
				log.Printf("billing: card %s failed: %v", card.ID, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Printf("Processed card %s", card.ID)
		}(card)
	}

	wg.Wait()

	log.Printf("Billing cycle finished: %d cards, %d failed", len(cards), failed)
	return nil
}

// processCard evaluates one card's state for the tick, serialized against
// concurrent billing of the same card by a short redis lock.
func (s *BillingService) processCard(ctx context.Context, card *domain.CreditCard, today time.Time) error {
	unlock, acquired := s.lockCard(ctx, card.ID)
	if !acquired {
		return nil
	}
	defer unlock()

	switch {
	case today.Day() == card.BillingDay:
		return s.generateStatement(ctx, card, today)
	case card.IsOverdue(today):
		return s.applyOverduePenalty(ctx, card)
	default:
		return nil
	}
}

// generateStatement rolls the card's unbilled consumption into its debt and
// advances the due date to next month's due day.
//
// Idempotence: the period markers on the card and the unique statement row
// both guard against billing the same (month, year) twice, e.g. when a tick
// is re-run after a restart.
func (s *BillingService) generateStatement(ctx context.Context, card *domain.CreditCard, today time.Time) error {
	billingMonth := int(today.Month())
	billingYear := today.Year()

	if card.StatementRecorded(billingMonth, billingYear) {
		log.Printf("billing: statement for card %s already generated for %d-%02d, skipping",
			card.ID, billingYear, billingMonth)
		return nil
	}

	existing, err := s.creditCardRepo.GetStatement(ctx, card.ID, billingMonth, billingYear)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if existing != nil {
		log.Printf("billing: statement for card %s already recorded for %d-%02d, skipping",
			card.ID, billingYear, billingMonth)
		return nil
	}

	consumptions, err := s.consumptionClient.FindUnbilled(ctx, card.ID)
	if err != nil {
		return err
	}

	newDebt := decimalSum(consumptions)
	for _, consumption := range consumptions {
		consumption.MarkBilled(billingMonth, billingYear)
	}

	dueDate := utils.NextStatementDueDate(today, card.DueDay)

	card.TotalDebt = card.TotalDebt.Add(newDebt)
	card.AvailableBalance = card.LimitCredit.Sub(card.TotalDebt)
	card.DueDate = &dueDate
	card.LastStatementMonth = billingMonth
	card.LastStatementYear = billingYear

	statement := &domain.BillingStatement{
		ID:           uuid.NewString(),
		CreditCardID: card.ID,
		BillingMonth: billingMonth,
		BillingYear:  billingYear,
		NewDebt:      newDebt,
		DueDate:      dueDate,
		CreatedAt:    s.clock.Now(),
	}

	// The consumption store is remote, so the two writes cannot share a
	// transaction. Consumptions are saved billed first; if the card update
	// fails they are compensated back to unbilled.
	if len(consumptions) > 0 {
		if _, err = s.consumptionClient.SaveAll(ctx, consumptions); err != nil {
			return err
		}
	}

	if err = s.creditCardRepo.ApplyStatement(ctx, card, statement); err != nil {
		s.compensateConsumptions(ctx, card.ID, consumptions)
		return customError.WrapDatabaseError(err)
	}

	log.Printf("Billing statement generated for card %s: new debt %s, due %s",
		card.ID, newDebt, dueDate.Format("2006-01-02"))
	return nil
}

func (s *BillingService) compensateConsumptions(ctx context.Context, cardID string, consumptions []*domain.Consumption) {
	if len(consumptions) == 0 {
		return
	}
	for _, consumption := range consumptions {
		consumption.MarkUnbilled()
	}
	if _, err := s.consumptionClient.SaveAll(ctx, consumptions); err != nil {
		log.Printf("billing: compensation failed for card %s, %d consumptions remain billed without a statement: %v",
			cardID, len(consumptions), err)
	}
}

// applyOverduePenalty accrues one day of penalty interest on the overdue debt.
func (s *BillingService) applyOverduePenalty(ctx context.Context, card *domain.CreditCard) error {
	penalty := utils.DailyPenalty(card.TotalDebt, s.config.GetPenaltyMonthlyRate())

	card.TotalDebt = card.TotalDebt.Add(penalty)
	card.AvailableBalance = card.LimitCredit.Sub(card.TotalDebt)

	if err := s.creditCardRepo.UpdateBilling(ctx, card); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Printf("Applied penalty of %s to card %s", penalty, card.ID)
	return nil
}

// lockCard takes a best-effort per-card redis lock so a concurrent scheduler
// replica or manual tick does not bill the same card at the same time.
// Redis being down degrades to no lock; the version check and the statement
// uniqueness constraint remain the hard guards.
func (s *BillingService) lockCard(ctx context.Context, cardID string) (func(), bool) {
	if s.redis == nil {
		return func() {}, true
	}

	key := fmt.Sprintf("billing:lock:%s", cardID)
	ok, err := s.redis.SetNX(ctx, key, 1, s.config.GetBillingLockTTL()).Result()
	if err != nil {
		log.Printf("billing: lock acquire failed for card %s, continuing unlocked: %v", cardID, err)
		return func() {}, true
	}
	if !ok {
		log.Printf("billing: card %s is locked by another worker, skipping", cardID)
		return func() {}, false
	}

	return func() {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			log.Printf("billing: lock release failed for card %s: %v", cardID, err)
		}
	}, true
}

func decimalSum(consumptions []*domain.Consumption) decimal.Decimal {
	total := decimal.Zero
	for _, consumption := range consumptions {
		total = total.Add(consumption.Amount)
	}
	return total
}
