package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// SeatRepository handles seat persistence and row-level locking
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new seat repository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// CreateForBus provisions total sequentially labelled seats (S1..Sn) for a
// bus inside the caller's transaction
func (r *SeatRepository) CreateForBus(tx *sqlx.Tx, busID int64, total int, price float64) error {
	query := `INSERT INTO seats (bus_id, seat_number, price, booked) VALUES ($1, $2, $3, false)`

	for i := 1; i <= total; i++ {
		if _, err := tx.Exec(query, busID, fmt.Sprintf("S%d", i), price); err != nil {
			return fmt.Errorf("failed to create seat S%d for bus %d: %w", i, busID, err)
		}
	}

	return nil
}

// FindByBus retrieves all seats of a bus ordered by id
func (r *SeatRepository) FindByBus(busID int64) ([]models.Seat, error) {
	var seats []models.Seat
	query := `SELECT id, bus_id, seat_number, price, booked FROM seats WHERE bus_id = $1 ORDER BY id`

	if err := r.db.Select(&seats, query, busID); err != nil {
		return nil, fmt.Errorf("failed to get seats for bus %d: %w", busID, err)
	}

	return seats, nil
}

// LockForUpdate acquires row locks on the given seats inside the caller's
// transaction. The single statement makes Postgres take all locks as one
// atomic wait, so callers do not need to sort ids to avoid deadlocks.
// Returned seats follow the order of seatIDs. A shortfall in the result
// set means unknown ids and yields SeatsNotFoundError.
func (r *SeatRepository) LockForUpdate(tx *sqlx.Tx, seatIDs []int64) ([]models.Seat, error) {
	query, args, err := sqlx.In(`SELECT id, bus_id, seat_number, price, booked FROM seats WHERE id IN (?) FOR UPDATE`, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat lock query: %w", err)
	}
	query = tx.Rebind(query)

	var locked []models.Seat
	if err := tx.Select(&locked, query, args...); err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}

	byID := make(map[int64]models.Seat, len(locked))
	for _, s := range locked {
		byID[s.ID] = s
	}

	seats := make([]models.Seat, 0, len(seatIDs))
	var missing []int64
	for _, id := range seatIDs {
		seat, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		seats = append(seats, seat)
	}
	if len(missing) > 0 {
		return nil, &models.SeatsNotFoundError{Missing: missing}
	}

	return seats, nil
}

// MarkBooked flips the booked flag on for the given seats inside the
// caller's transaction
func (r *SeatRepository) MarkBooked(tx *sqlx.Tx, seatIDs []int64) error {
	return r.setBooked(tx, seatIDs, true)
}

// Release flips the booked flag off for the given seats inside the
// caller's transaction
func (r *SeatRepository) Release(tx *sqlx.Tx, seatIDs []int64) error {
	return r.setBooked(tx, seatIDs, false)
}

func (r *SeatRepository) setBooked(tx *sqlx.Tx, seatIDs []int64, booked bool) error {
	if len(seatIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE seats SET booked = ? WHERE id IN (?)`, booked, seatIDs)
	if err != nil {
		return fmt.Errorf("failed to build seat update query: %w", err)
	}
	query = tx.Rebind(query)

	result, err := tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update seats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if int(rowsAffected) != len(seatIDs) {
		return fmt.Errorf("seat update touched %d rows, expected %d", rowsAffected, len(seatIDs))
	}

	return nil
}
