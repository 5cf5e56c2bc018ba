package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"

	"github.com/google/uuid"
)

// ContactRepository resolves booking attendees. Leads and customers are owned
// by the CRM side of the system; this repo only reads them and advances a
// lead's status after a successful booking.
type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(database *sql.DB) *ContactRepository {
	return &ContactRepository{DB: database}
}

func (r *ContactRepository) GetLead(ctx context.Context, id uuid.UUID) (*db.Lead, error) {
	var l db.Lead
	query := `SELECT id, name, email, phone, status FROM leads WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Status)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("lead %s", id))
		}
		return nil, fmt.Errorf("query lead: %w", err)
	}
	return &l, nil
}

func (r *ContactRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*db.Customer, error) {
	var c db.Customer
	query := `SELECT id, name, email, phone FROM customers WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("customer %s", id))
		}
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &c, nil
}

func (r *ContactRepository) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE leads SET status = $2 WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return nil
}
