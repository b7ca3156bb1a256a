package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/pkg/mailer"
	"github.com/linkedbus/bus-ticketing-backend/pkg/validator"
)

// BookingService orchestrates the seat booking transaction: lock seats,
// validate fare, link payment, persist the booking, notify the user.
type BookingService struct {
	db       *sqlx.DB
	seats    *database.SeatRepository
	bookings *database.BookingRepository
	users    *database.UserRepository
	buses    *database.BusRepository
	payments *PaymentService
	fares    *FareValidator
	mail     mailer.Sender
	logger   *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	db *sqlx.DB,
	seats *database.SeatRepository,
	bookings *database.BookingRepository,
	users *database.UserRepository,
	buses *database.BusRepository,
	payments *PaymentService,
	fares *FareValidator,
	mail mailer.Sender,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:       db,
		seats:    seats,
		bookings: bookings,
		users:    users,
		buses:    buses,
		payments: payments,
		fares:    fares,
		mail:     mail,
		logger:   logger,
	}
}

// Book reserves the requested seats atomically. Seat rows are locked
// FOR UPDATE for the duration of the transaction, so two requests racing
// for the same seat serialize and the loser sees the booked flag.
//
// A request that references an already-consumed SUCCESS payment returns
// the existing booking unchanged (idempotent replay).
func (s *BookingService) Book(req *models.BookingRequest) (*models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(req.UserID)
	if err != nil {
		return nil, err
	}

	bus, err := s.buses.FindByID(req.BusID)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.Resolve(req)
	if err != nil {
		return nil, err
	}

	if payment != nil && payment.Status == models.PaymentStatusSuccess {
		existing, err := s.bookings.FindByPaymentRecordID(payment.ID)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id": existing.ID,
				"payment_pk": payment.ID,
			}).Info("Replayed booking request, returning existing booking")
			return existing, nil
		}
		if !errors.Is(err, models.ErrBookingNotFound) {
			return nil, err
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin booking transaction: %w", err)
	}
	defer tx.Rollback()

	seats, err := s.seats.LockForUpdate(tx, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	for _, seat := range seats {
		if seat.BusID != req.BusID {
			return nil, &models.InvalidRequestError{
				Reason: fmt.Sprintf("seat %s belongs to a different bus", seat.SeatNumber),
			}
		}
		if seat.Booked {
			return nil, &models.SeatAlreadyBookedError{SeatNumber: seat.SeatNumber}
		}
	}

	totalFare, err := s.fares.Validate(seats, req.TotalFare)
	if err != nil {
		return nil, err
	}

	if err := s.seats.MarkBooked(tx, req.SeatIDs); err != nil {
		return nil, err
	}
	for i := range seats {
		seats[i].Booked = true
	}

	if payment == nil && req.PaymentID != "" {
		payment, err = s.payments.UpsertGatewayStub(tx, req, user, totalFare)
		if err != nil {
			return nil, err
		}
	}

	booking := &models.Booking{
		UserID:    req.UserID,
		BusID:     req.BusID,
		TotalFare: totalFare,
		Status:    models.BookingStatusConfirmed,
	}
	if payment != nil {
		booking.PaymentRecordID = models.NullInt64{NullInt64: sql.NullInt64{Int64: payment.ID, Valid: true}}
	}

	if err := s.bookings.Create(tx, booking, req.SeatIDs); err != nil {
		return nil, err
	}

	booking.User = user
	booking.Bus = bus
	booking.Seats = seats
	booking.Payment = payment

	if payment != nil {
		seatNumbers := strings.Join(booking.SeatNumbers(), ",")
		if err := s.payments.AttachBookingContext(tx, payment.ID, bus.ID, seatNumbers); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    req.UserID,
		"bus_id":     req.BusID,
		"seats":      booking.SeatNumbers(),
		"total_fare": totalFare,
	}).Info("Booking confirmed")

	s.notify(user.Email, "Booking Confirmed - LinkedBus", confirmationBody(booking))

	return booking, nil
}

// GetBooking retrieves a booking with its associations
func (s *BookingService) GetBooking(id int64) (*models.Booking, error) {
	return s.bookings.FindByID(id)
}

// GetUserBookings retrieves a user's bookings, newest first
func (s *BookingService) GetUserBookings(userID int64) ([]models.Booking, error) {
	if _, err := s.users.FindByID(userID); err != nil {
		return nil, err
	}
	return s.bookings.FindByUser(userID)
}

// Cancel releases a booking's seats and marks it CANCELLED. Cancelling
// an already cancelled booking is a no-op.
func (s *BookingService) Cancel(id int64) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(id)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return booking, nil
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, &models.BookingStateError{BookingID: id, Status: booking.Status, Action: "cancel"}
	}

	if err := s.releaseAndMark(booking, models.BookingStatusCancelled); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    booking.UserID,
	}).Info("Booking cancelled")

	if booking.User != nil {
		s.notify(booking.User.Email, "Booking Cancelled - LinkedBus", cancellationBody(booking))
	}

	return booking, nil
}

// Refund releases a CONFIRMED booking's seats and marks it REFUNDED.
// Refunding an already refunded booking is a no-op.
func (s *BookingService) Refund(id int64) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(id)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusRefunded {
		return booking, nil
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, &models.BookingStateError{BookingID: id, Status: booking.Status, Action: "refund"}
	}

	if err := s.releaseAndMark(booking, models.BookingStatusRefunded); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    booking.UserID,
		"total_fare": booking.TotalFare,
	}).Info("Booking refunded")

	if booking.User != nil {
		s.notify(booking.User.Email, "Refund Processed - LinkedBus", refundBody(booking))
	}

	return booking, nil
}

func (s *BookingService) releaseAndMark(booking *models.Booking, status string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seatIDs := make([]int64, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seatIDs = append(seatIDs, seat.ID)
	}

	if err := s.seats.Release(tx, seatIDs); err != nil {
		return err
	}
	if err := s.bookings.UpdateStatus(tx, booking.ID, status); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Status = status
	return nil
}

// notify sends email best-effort after commit. Delivery failure never
// affects the booking outcome.
func (s *BookingService) notify(to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.mail.Send(mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
		s.logger.WithError(err).WithField("recipient", to).Warn("Failed to send booking email")
	}
}

func validateBookingRequest(req *models.BookingRequest) error {
	if req.UserID <= 0 {
		return &models.InvalidRequestError{Reason: "userId is required"}
	}
	if req.BusID <= 0 {
		return &models.InvalidRequestError{Reason: "busId is required"}
	}
	if len(req.SeatIDs) == 0 {
		return &models.InvalidRequestError{Reason: "at least one seat is required"}
	}
	seen := make(map[int64]bool, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if id <= 0 {
			return &models.InvalidRequestError{Reason: "seat ids must be positive"}
		}
		if seen[id] {
			return &models.InvalidRequestError{Reason: fmt.Sprintf("duplicate seat id %d", id)}
		}
		seen[id] = true
	}
	if req.TotalFare < 0 {
		return &models.InvalidRequestError{Reason: "totalFare cannot be negative"}
	}
	return nil
}

func confirmationBody(b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.User.Name)
	sb.WriteString("Your booking is confirmed!\n\n")
	fmt.Fprintf(&sb, "Booking ID: %d\n", b.ID)
	fmt.Fprintf(&sb, "Bus: %s (%s)\n", b.Bus.BusName, b.Bus.BusType)
	fmt.Fprintf(&sb, "Route: %s to %s\n", b.Bus.Source, b.Bus.Destination)
	fmt.Fprintf(&sb, "Departure: %s at %s\n", b.Bus.DepartureDate.Format("02 Jan 2006"), b.Bus.DepartureTime)
	fmt.Fprintf(&sb, "Seats: %s\n", strings.Join(b.SeatNumbers(), ", "))
	fmt.Fprintf(&sb, "Total Fare: %.2f\n", b.TotalFare)
	if b.User.PhoneNumber.Valid {
		v := validator.NewPhoneValidator()
		if v.IsValid(b.User.PhoneNumber.String) {
			formatted, _ := v.Format(b.User.PhoneNumber.String)
			fmt.Fprintf(&sb, "Contact on record: %s\n", formatted)
		}
	}
	sb.WriteString("\nHappy journey!\nTeam LinkedBus")
	return sb.String()
}

func cancellationBody(b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.User.Name)
	fmt.Fprintf(&sb, "Your booking %d has been cancelled.\n\n", b.ID)
	fmt.Fprintf(&sb, "Route: %s to %s\n", b.Bus.Source, b.Bus.Destination)
	fmt.Fprintf(&sb, "Seats released: %s\n\n", strings.Join(b.SeatNumbers(), ", "))
	sb.WriteString("We hope to see you again.\nTeam LinkedBus")
	return sb.String()
}

func refundBody(b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.User.Name)
	fmt.Fprintf(&sb, "Your refund of %.2f for booking %d has been processed.\n\n", b.TotalFare, b.ID)
	fmt.Fprintf(&sb, "Route: %s to %s\n", b.Bus.Source, b.Bus.Destination)
	sb.WriteString("The amount will reflect in your account within 5-7 business days.\n\nTeam LinkedBus")
	return sb.String()
}
