package repository

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const creditColumns = `id, client_id, total_amount, pending_balance, interest_rate,
	disbursement_date, first_date_pay, total_months, monthly_fee, created_at, updated_at`

type creditRepository struct {
	db *sqlx.DB
}

func NewCreditRepository(db *sqlx.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	query := `
		INSERT INTO credits (id, client_id, total_amount, pending_balance, interest_rate,
			disbursement_date, first_date_pay, total_months, monthly_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		credit.ID,
		credit.ClientID,
		credit.TotalAmount,
		credit.PendingBalance,
		credit.InterestRate,
		credit.DisbursementDate,
		credit.FirstDatePay,
		credit.TotalMonths,
		credit.MonthlyFee,
		credit.CreatedAt,
		credit.UpdatedAt,
	)

	return err
}

func (r *creditRepository) GetByID(ctx context.Context, id string) (*domain.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE id = $1`

	var credit domain.Credit
	err := r.db.GetContext(ctx, &credit, query, id)
	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *creditRepository) GetAllByClient(ctx context.Context, clientID string) ([]*domain.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE client_id = $1 ORDER BY created_at`

	var credits []*domain.Credit
	err := r.db.SelectContext(ctx, &credits, query, clientID)
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *creditRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	query := `SELECT COUNT(*) FROM credits WHERE client_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, clientID)
	return count, err
}

func (r *creditRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM credits WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
