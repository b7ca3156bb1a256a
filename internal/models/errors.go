package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel lookup errors mapped to 404 by handlers
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBusNotFound     = errors.New("bus not found")
	ErrPaymentNotFound = errors.New("payment record not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// Auth errors
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InvalidRequestError indicates a structurally invalid booking request
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// SeatsNotFoundError indicates requested seat ids that do not exist
type SeatsNotFoundError struct {
	Missing []int64
}

func (e *SeatsNotFoundError) Error() string {
	ids := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("seats not found: %s", strings.Join(ids, ", "))
}

// SeatAlreadyBookedError indicates a seat lost to a concurrent booking.
// SeatNumber is the human-readable label, not the numeric id.
type SeatAlreadyBookedError struct {
	SeatNumber string
}

func (e *SeatAlreadyBookedError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.SeatNumber)
}

// FareMismatchError indicates a client total that disagrees with the
// server-side sum of seat prices beyond tolerance
type FareMismatchError struct {
	Calculated float64
	Submitted  float64
}

func (e *FareMismatchError) Error() string {
	return fmt.Sprintf("fare mismatch: expected %.2f, got %.2f", e.Calculated, e.Submitted)
}

// BookingStateError indicates a cancel or refund against a booking whose
// status does not permit the transition
type BookingStateError struct {
	BookingID int64
	Status    string
	Action    string
}

func (e *BookingStateError) Error() string {
	return fmt.Sprintf("cannot %s booking %d in status %s", e.Action, e.BookingID, e.Status)
}
