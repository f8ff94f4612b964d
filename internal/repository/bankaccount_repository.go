package repository

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type bankAccountRepository struct {
	db *sqlx.DB
}

func NewBankAccountRepository(db *sqlx.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, client_id, balance, type, limit_movements, max_transactions,
			commission_percentage, expiration_day, maintenance_cost, minimum_daily_average,
			account_holders, authorized_signatories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.ClientID,
		account.Balance,
		account.Type,
		account.LimitMovements,
		account.MaxTransactions,
		account.CommissionPercentage,
		account.ExpirationDay,
		account.MaintenanceCost,
		account.MinimumDailyAverage,
		account.AccountHolders,
		account.AuthorizedSignatories,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

func (r *bankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	query := `
		SELECT id, client_id, balance, type, limit_movements, max_transactions,
			commission_percentage, expiration_day, maintenance_cost, minimum_daily_average,
			account_holders, authorized_signatories, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1
	`

	var account domain.BankAccount
	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *bankAccountRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error) {
	query := `
		SELECT id, client_id, balance, type, limit_movements, max_transactions,
			commission_percentage, expiration_day, maintenance_cost, minimum_daily_average,
			account_holders, authorized_signatories, created_at, updated_at
		FROM bank_accounts
		WHERE client_id = $1
		ORDER BY created_at
	`

	var accounts []*domain.BankAccount
	err := r.db.SelectContext(ctx, &accounts, query, clientID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
