package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// BusRepository handles bus persistence
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new bus repository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// CreateWithSeats inserts a bus and provisions its seats in one transaction
func (r *BusRepository) CreateWithSeats(bus *models.Bus, seatRepo *SeatRepository) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO buses (bus_name, bus_type, source, destination, departure_time,
			arrival_time, price, total_seats, departure_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err = tx.QueryRow(query,
		bus.BusName, bus.BusType, bus.Source, bus.Destination, bus.DepartureTime,
		bus.ArrivalTime, bus.Price, bus.TotalSeats, bus.DepartureDate, bus.Status,
	).Scan(&bus.ID, &bus.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	if err := seatRepo.CreateForBus(tx, bus.ID, bus.TotalSeats, bus.Price); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bus creation: %w", err)
	}

	return nil
}

// FindByID retrieves a bus by id
func (r *BusRepository) FindByID(id int64) (*models.Bus, error) {
	var bus models.Bus
	query := `
		SELECT id, bus_name, bus_type, source, destination, departure_time,
			arrival_time, price, total_seats, departure_date, status, created_at
		FROM buses WHERE id = $1`

	err := r.db.Get(&bus, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBusNotFound
		}
		return nil, fmt.Errorf("failed to get bus by id: %w", err)
	}

	return &bus, nil
}

// Search finds active buses on a route, optionally filtered by departure date
func (r *BusRepository) Search(params models.BusSearchParams) ([]models.Bus, error) {
	query := `
		SELECT id, bus_name, bus_type, source, destination, departure_time,
			arrival_time, price, total_seats, departure_date, status, created_at
		FROM buses
		WHERE status = $1 AND LOWER(source) = LOWER($2) AND LOWER(destination) = LOWER($3)`
	args := []interface{}{models.BusStatusActive, params.Source, params.Destination}

	if params.Date != "" {
		query += ` AND departure_date = $4`
		args = append(args, params.Date)
	}
	query += ` ORDER BY departure_date, departure_time`

	var buses []models.Bus
	if err := r.db.Select(&buses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search buses: %w", err)
	}

	return buses, nil
}

// List retrieves all buses ordered by departure date
func (r *BusRepository) List() ([]models.Bus, error) {
	var buses []models.Bus
	query := `
		SELECT id, bus_name, bus_type, source, destination, departure_time,
			arrival_time, price, total_seats, departure_date, status, created_at
		FROM buses ORDER BY departure_date DESC, departure_time`

	if err := r.db.Select(&buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// Update applies the non-nil fields of the request to the bus
func (r *BusRepository) Update(id int64, req *models.UpdateBusRequest) (*models.Bus, error) {
	bus, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.BusName != nil {
		bus.BusName = *req.BusName
	}
	if req.BusType != nil {
		bus.BusType = *req.BusType
	}
	if req.Source != nil {
		bus.Source = *req.Source
	}
	if req.Destination != nil {
		bus.Destination = *req.Destination
	}
	if req.DepartureTime != nil {
		bus.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		bus.ArrivalTime = *req.ArrivalTime
	}
	if req.Price != nil {
		bus.Price = *req.Price
	}
	if req.Status != nil {
		bus.Status = *req.Status
	}

	query := `
		UPDATE buses
		SET bus_name = $1, bus_type = $2, source = $3, destination = $4,
			departure_time = $5, arrival_time = $6, price = $7, status = $8
		WHERE id = $9`

	result, err := r.db.Exec(query,
		bus.BusName, bus.BusType, bus.Source, bus.Destination,
		bus.DepartureTime, bus.ArrivalTime, bus.Price, bus.Status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, models.ErrBusNotFound
	}

	return bus, nil
}

// Count returns the total number of buses
func (r *BusRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM buses`); err != nil {
		return 0, fmt.Errorf("failed to count buses: %w", err)
	}
	return count, nil
}
