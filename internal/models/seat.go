package models

// Seat represents a single bookable seat on a bus
type Seat struct {
	ID         int64   `json:"id" db:"id"`
	BusID      int64   `json:"bus_id" db:"bus_id"`
	SeatNumber string  `json:"seat_number" db:"seat_number"`
	Price      float64 `json:"price" db:"price"`
	Booked     bool    `json:"booked" db:"booked"`
}
