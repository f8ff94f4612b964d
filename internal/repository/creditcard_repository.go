package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/appbank/credit-engine/internal/domain"
	customError "github.com/appbank/credit-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const creditCardColumns = `id, client_id, limit_credit, available_balance, total_debt,
	billing_day, due_day, due_date, last_statement_month, last_statement_year,
	version, created_at, updated_at`

type creditCardRepository struct {
	db *sqlx.DB
}

func NewCreditCardRepository(db *sqlx.DB) CreditCardRepository {
	return &creditCardRepository{db: db}
}

func (r *creditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	query := `
		INSERT INTO credit_cards (id, client_id, limit_credit, available_balance, total_debt,
			billing_day, due_day, due_date, last_statement_month, last_statement_year,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.ClientID,
		card.LimitCredit,
		card.AvailableBalance,
		card.TotalDebt,
		card.BillingDay,
		card.DueDay,
		card.DueDate,
		card.LastStatementMonth,
		card.LastStatementYear,
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)

	return err
}

func (r *creditCardRepository) GetByID(ctx context.Context, id string) (*domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = $1`

	var card domain.CreditCard
	err := r.db.GetContext(ctx, &card, query, id)
	if err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *creditCardRepository) GetAll(ctx context.Context) ([]*domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards ORDER BY created_at`

	var cards []*domain.CreditCard
	err := r.db.SelectContext(ctx, &cards, query)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *creditCardRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE client_id = $1 ORDER BY created_at`

	var cards []*domain.CreditCard
	err := r.db.SelectContext(ctx, &cards, query, clientID)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *creditCardRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	query := `SELECT COUNT(*) FROM credit_cards WHERE client_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, clientID)
	return count, err
}

const updateBillingQuery = `
	UPDATE credit_cards
	SET available_balance = $2, total_debt = $3, due_date = $4,
		last_statement_month = $5, last_statement_year = $6,
		version = version + 1, updated_at = $7
	WHERE id = $1 AND version = $8
`

// UpdateBilling bumps the card version; a concurrent writer invalidates the
// read version and the update reports a conflict instead of clobbering it.
func (r *creditCardRepository) UpdateBilling(ctx context.Context, card *domain.CreditCard) error {
	result, err := r.db.ExecContext(ctx, updateBillingQuery,
		card.ID,
		card.AvailableBalance,
		card.TotalDebt,
		card.DueDate,
		card.LastStatementMonth,
		card.LastStatementYear,
		time.Now(),
		card.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.WrapVersionConflict("credit card", card.ID)
	}

	card.Version++
	return nil
}

func (r *creditCardRepository) ApplyStatement(ctx context.Context, card *domain.CreditCard, statement *domain.BillingStatement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, updateBillingQuery,
		card.ID,
		card.AvailableBalance,
		card.TotalDebt,
		card.DueDate,
		card.LastStatementMonth,
		card.LastStatementYear,
		time.Now(),
		card.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.WrapVersionConflict("credit card", card.ID)
	}

	// Unique (credit_card_id, billing_month, billing_year) backs this insert:
	// a duplicate statement aborts the whole transaction.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO billing_statements (id, credit_card_id, billing_month, billing_year, new_debt, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		statement.ID,
		statement.CreditCardID,
		statement.BillingMonth,
		statement.BillingYear,
		statement.NewDebt,
		statement.DueDate,
		statement.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	card.Version++
	return nil
}

func (r *creditCardRepository) GetStatement(ctx context.Context, cardID string, month, year int) (*domain.BillingStatement, error) {
	query := `
		SELECT id, credit_card_id, billing_month, billing_year, new_debt, due_date, created_at
		FROM billing_statements
		WHERE credit_card_id = $1 AND billing_month = $2 AND billing_year = $3
	`

	var statement domain.BillingStatement
	err := r.db.GetContext(ctx, &statement, query, cardID, month, year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &statement, nil
}
