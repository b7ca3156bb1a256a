package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// BookingRepository handles booking persistence
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking and its seat links inside the caller's
// transaction. The seat_order column preserves the order seats were
// submitted in, so reads reproduce it.
func (r *BookingRepository) Create(tx *sqlx.Tx, booking *models.Booking, seatIDs []int64) error {
	query := `
		INSERT INTO bookings (user_id, bus_id, total_fare, status, payment_record_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, booking_time`

	err := tx.QueryRow(query,
		booking.UserID, booking.BusID, booking.TotalFare, booking.Status, booking.PaymentRecordID,
	).Scan(&booking.ID, &booking.BookingTime)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	seatQuery := `INSERT INTO booking_seats (booking_id, seat_id, seat_order) VALUES ($1, $2, $3)`
	for i, seatID := range seatIDs {
		if _, err := tx.Exec(seatQuery, booking.ID, seatID, i); err != nil {
			return fmt.Errorf("failed to link seat %d to booking: %w", seatID, err)
		}
	}

	return nil
}

// FindByID retrieves a booking with its user, bus, seats and payment
func (r *BookingRepository) FindByID(id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, user_id, bus_id, total_fare, booking_time, status, payment_record_id
		FROM bookings WHERE id = $1`

	err := r.db.Get(&booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by id: %w", err)
	}

	if err := r.loadAssociations(&booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// FindByPaymentRecordID retrieves the booking linked to a payment record.
// A unique index on bookings.payment_record_id guarantees at most one row.
func (r *BookingRepository) FindByPaymentRecordID(paymentRecordID int64) (*models.Booking, error) {
	var id int64
	query := `SELECT id FROM bookings WHERE payment_record_id = $1`

	err := r.db.Get(&id, query, paymentRecordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by payment record id: %w", err)
	}

	return r.FindByID(id)
}

// FindByUser retrieves a user's bookings, newest first, with seats loaded
func (r *BookingRepository) FindByUser(userID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, user_id, bus_id, total_fare, booking_time, status, payment_record_id
		FROM bookings WHERE user_id = $1 ORDER BY booking_time DESC`

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get bookings for user %d: %w", userID, err)
	}

	for i := range bookings {
		seats, err := r.loadSeats(bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Seats = seats
	}

	return bookings, nil
}

// UpdateStatus changes a booking's status inside the caller's transaction
func (r *BookingRepository) UpdateStatus(tx *sqlx.Tx, id int64, status string) error {
	result, err := tx.Exec(`UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrBookingNotFound
	}

	return nil
}

// Recent retrieves the latest bookings with seats loaded
func (r *BookingRepository) Recent(limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, user_id, bus_id, total_fare, booking_time, status, payment_record_id
		FROM bookings ORDER BY booking_time DESC LIMIT $1`

	if err := r.db.Select(&bookings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	for i := range bookings {
		seats, err := r.loadSeats(bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Seats = seats
	}

	return bookings, nil
}

// Count returns the number of bookings created in the given window
func (r *BookingRepository) Count(from, to time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM bookings WHERE booking_time >= $1 AND booking_time < $2`

	if err := r.db.Get(&count, query, from, to); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// SumTotalFare returns confirmed revenue for the given window
func (r *BookingRepository) SumTotalFare(from, to time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(total_fare), 0) FROM bookings
		WHERE booking_time >= $1 AND booking_time < $2 AND status = $3`

	if err := r.db.Get(&total, query, from, to, models.BookingStatusConfirmed); err != nil {
		return 0, fmt.Errorf("failed to sum booking fares: %w", err)
	}

	return total, nil
}

func (r *BookingRepository) loadAssociations(booking *models.Booking) error {
	var user models.User
	userQuery := `
		SELECT id, name, email, password, phone_number, gender, city, state, role, created_at
		FROM users WHERE id = $1`
	if err := r.db.Get(&user, userQuery, booking.UserID); err != nil {
		return fmt.Errorf("failed to load booking user: %w", err)
	}
	booking.User = &user

	var bus models.Bus
	busQuery := `
		SELECT id, bus_name, bus_type, source, destination, departure_time,
			arrival_time, price, total_seats, departure_date, status, created_at
		FROM buses WHERE id = $1`
	if err := r.db.Get(&bus, busQuery, booking.BusID); err != nil {
		return fmt.Errorf("failed to load booking bus: %w", err)
	}
	booking.Bus = &bus

	seats, err := r.loadSeats(booking.ID)
	if err != nil {
		return err
	}
	booking.Seats = seats

	if booking.PaymentRecordID.Valid {
		var payment models.Payment
		paymentQuery := `
			SELECT id, order_id, payment_id, status, amount, email, contact,
				user_id, bus_id, seat_numbers, created_at
			FROM payments WHERE id = $1`
		if err := r.db.Get(&payment, paymentQuery, booking.PaymentRecordID.Int64); err != nil {
			return fmt.Errorf("failed to load booking payment: %w", err)
		}
		booking.Payment = &payment
	}

	return nil
}

func (r *BookingRepository) loadSeats(bookingID int64) ([]models.Seat, error) {
	var seats []models.Seat
	query := `
		SELECT s.id, s.bus_id, s.seat_number, s.price, s.booked
		FROM seats s
		JOIN booking_seats bs ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY bs.seat_order`

	if err := r.db.Select(&seats, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to load booking seats: %w", err)
	}

	return seats, nil
}
