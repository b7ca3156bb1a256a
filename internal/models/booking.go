package models

import (
	"time"
)

// Booking statuses
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusRefunded  = "REFUNDED"
)

// Booking represents a confirmed reservation of one or more seats.
// Seats carries the booked seats in the order the client submitted them.
type Booking struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	BusID           int64     `json:"bus_id" db:"bus_id"`
	TotalFare       float64   `json:"total_fare" db:"total_fare"`
	BookingTime     time.Time `json:"booking_time" db:"booking_time"`
	Status          string    `json:"status" db:"status"`
	PaymentRecordID NullInt64 `json:"payment_record_id,omitempty" db:"payment_record_id"`

	User    *User    `json:"user,omitempty"`
	Bus     *Bus     `json:"bus,omitempty"`
	Seats   []Seat   `json:"seats,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}

// SeatNumbers returns the booked seat labels in request order
func (b *Booking) SeatNumbers() []string {
	numbers := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		numbers = append(numbers, s.SeatNumber)
	}
	return numbers
}

// BookingRequest is the payload for the booking endpoint
type BookingRequest struct {
	UserID          int64   `json:"userId"`
	BusID           int64   `json:"busId"`
	SeatIDs         []int64 `json:"seatIds"`
	TotalFare       float64 `json:"totalFare"`
	PaymentID       string  `json:"paymentId,omitempty"`
	OrderID         string  `json:"orderId,omitempty"`
	PaymentRecordID int64   `json:"paymentRecordId,omitempty"`
}

// DashboardStats aggregates booking activity for the admin dashboard
type DashboardStats struct {
	TotalUsers     int64     `json:"total_users"`
	TotalBuses     int64     `json:"total_buses"`
	TotalBookings  int64     `json:"total_bookings"`
	TodayBookings  int64     `json:"today_bookings"`
	TotalRevenue   float64   `json:"total_revenue"`
	TodayRevenue   float64   `json:"today_revenue"`
	RecentBookings []Booking `json:"recent_bookings"`
}
