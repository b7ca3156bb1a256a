package models

import (
	"time"
)

// Bus statuses
const (
	BusStatusActive   = "active"
	BusStatusInactive = "inactive"
)

// Bus represents a scheduled bus departure
type Bus struct {
	ID            int64     `json:"id" db:"id"`
	BusName       string    `json:"bus_name" db:"bus_name"`
	BusType       string    `json:"bus_type" db:"bus_type"`
	Source        string    `json:"source" db:"source"`
	Destination   string    `json:"destination" db:"destination"`
	DepartureTime string    `json:"departure_time" db:"departure_time"`
	ArrivalTime   string    `json:"arrival_time" db:"arrival_time"`
	Price         float64   `json:"price" db:"price"`
	TotalSeats    int       `json:"total_seats" db:"total_seats"`
	DepartureDate time.Time `json:"departure_date" db:"departure_date"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreateBusRequest is the payload for registering a bus departure.
// Seats are provisioned automatically from TotalSeats and Price.
type CreateBusRequest struct {
	BusName       string  `json:"busName" binding:"required"`
	BusType       string  `json:"busType" binding:"required"`
	Source        string  `json:"source" binding:"required"`
	Destination   string  `json:"destination" binding:"required"`
	DepartureTime string  `json:"departureTime" binding:"required"`
	ArrivalTime   string  `json:"arrivalTime" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	TotalSeats    int     `json:"totalSeats" binding:"required,gt=0"`
	DepartureDate string  `json:"departureDate" binding:"required"` // YYYY-MM-DD
}

// UpdateBusRequest is the payload for editing a bus departure
type UpdateBusRequest struct {
	BusName       *string  `json:"busName"`
	BusType       *string  `json:"busType"`
	Source        *string  `json:"source"`
	Destination   *string  `json:"destination"`
	DepartureTime *string  `json:"departureTime"`
	ArrivalTime   *string  `json:"arrivalTime"`
	Price         *float64 `json:"price"`
	Status        *string  `json:"status"`
}

// BusSearchParams holds the route search filters
type BusSearchParams struct {
	Source      string
	Destination string
	Date        string // YYYY-MM-DD, optional
}
