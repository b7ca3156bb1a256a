package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// PaymentRepository handles gateway payment records. Rows are never
// deleted; failed and orphaned payments stay behind for reconciliation.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, payment_id, status, amount, email, contact,
			user_id, bus_id, seat_numbers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRow(query,
		payment.OrderID, payment.PaymentID, payment.Status, payment.Amount,
		payment.Email, payment.Contact, payment.UserID, payment.BusID, payment.SeatNumbers,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment record by primary key
func (r *PaymentRepository) FindByID(id int64) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, order_id, payment_id, status, amount, email, contact,
			user_id, bus_id, seat_numbers, created_at
		FROM payments WHERE id = $1`

	err := r.db.Get(&payment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by id: %w", err)
	}

	return &payment, nil
}

// FindByOrderID retrieves a payment record by gateway order id
func (r *PaymentRepository) FindByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, order_id, payment_id, status, amount, email, contact,
			user_id, bus_id, seat_numbers, created_at
		FROM payments WHERE order_id = $1`

	err := r.db.Get(&payment, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by order id: %w", err)
	}

	return &payment, nil
}

// MarkVerified records the gateway verification outcome on the order's row
func (r *PaymentRepository) MarkVerified(orderID, paymentID, status string) error {
	query := `UPDATE payments SET payment_id = $1, status = $2 WHERE order_id = $3`

	result, err := r.db.Exec(query, paymentID, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark payment verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrPaymentNotFound
	}

	return nil
}

// Upsert inserts a payment keyed by gateway payment id inside the
// caller's transaction. Replays update the status in place and return
// the existing row's id, so retried requests never duplicate records.
func (r *PaymentRepository) Upsert(tx *sqlx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, payment_id, status, amount, email, contact,
			user_id, bus_id, seat_numbers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (payment_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at`

	err := tx.QueryRow(query,
		payment.OrderID, payment.PaymentID, payment.Status, payment.Amount,
		payment.Email, payment.Contact, payment.UserID, payment.BusID, payment.SeatNumbers,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}

	return nil
}

// AttachBookingContext back-fills a payment row with the journey it paid
// for, inside the caller's transaction. Bus id and seat numbers are only
// written when empty; status always moves to SUCCESS.
func (r *PaymentRepository) AttachBookingContext(tx *sqlx.Tx, paymentID int64, busID int64, seatNumbers string) error {
	query := `UPDATE payments SET bus_id = COALESCE(bus_id, $1), seat_numbers = COALESCE(seat_numbers, $2), status = $3 WHERE id = $4`

	result, err := tx.Exec(query, busID, seatNumbers, models.PaymentStatusSuccess, paymentID)
	if err != nil {
		return fmt.Errorf("failed to attach booking context to payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrPaymentNotFound
	}

	return nil
}

// List retrieves all payment records, newest first
func (r *PaymentRepository) List() ([]models.Payment, error) {
	var payments []models.Payment
	query := `
		SELECT id, order_id, payment_id, status, amount, email, contact,
			user_id, bus_id, seat_numbers, created_at
		FROM payments ORDER BY created_at DESC`

	if err := r.db.Select(&payments, query); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}
