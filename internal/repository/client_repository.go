package repository

import (
	"context"

	"github.com/appbank/credit-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `
		SELECT id, identity, full_name, tax_id, business_name, address, phone, email, type, created_at
		FROM clients
		WHERE id = $1
	`

	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) GetAllByIDs(ctx context.Context, ids []string) ([]*domain.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, identity, full_name, tax_id, business_name, address, phone, email, type, created_at
		FROM clients
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, err
	}

	var clients []*domain.Client
	err = r.db.SelectContext(ctx, &clients, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return clients, nil
}
