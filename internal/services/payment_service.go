package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/pkg/razorpay"
)

// PaymentGateway abstracts the payment provider for order creation and
// checkout signature verification
type PaymentGateway interface {
	CreateOrder(amount float64) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// PaymentService owns the gateway payment lifecycle and resolves the
// payment reference carried by a booking request
type PaymentService struct {
	payments *database.PaymentRepository
	gateway  PaymentGateway
	logger   *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(payments *database.PaymentRepository, gateway PaymentGateway, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// CreateOrder creates a gateway order and persists a CREATED payment row
func (s *PaymentService) CreateOrder(userID int64, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	order, err := s.gateway.CreateOrder(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	payment := &models.Payment{
		OrderID: models.NullString{NullString: sql.NullString{String: order.ID, Valid: true}},
		Status:  models.PaymentStatusCreated,
		Amount:  req.Amount,
		UserID:  models.NullInt64{NullInt64: sql.NullInt64{Int64: userID, Valid: userID > 0}},
	}
	if req.Email != "" {
		payment.Email = models.NullString{NullString: sql.NullString{String: req.Email, Valid: true}}
	}
	if req.Contact != "" {
		payment.Contact = models.NullString{NullString: sql.NullString{String: req.Contact, Valid: true}}
	}
	if req.BusID > 0 {
		payment.BusID = models.NullInt64{NullInt64: sql.NullInt64{Int64: req.BusID, Valid: true}}
	}
	if req.SeatNumbers != "" {
		payment.SeatNumbers = models.NullString{NullString: sql.NullString{String: req.SeatNumbers, Valid: true}}
	}

	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_pk": payment.ID,
		"amount":     req.Amount,
		"user_id":    userID,
	}).Info("Gateway order created")

	return &models.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   req.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// Verify checks the checkout signature and records the outcome on the
// order's payment row. Returns true when the signature is authentic.
func (s *PaymentService) Verify(req *models.VerifyPaymentRequest) (bool, error) {
	verified := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature)

	status := models.PaymentStatusFailed
	if verified {
		status = models.PaymentStatusSuccess
	}

	if err := s.payments.MarkVerified(req.OrderID, req.PaymentID, status); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
		"status":     status,
	}).Info("Payment verification recorded")

	return verified, nil
}

// Resolve finds the payment record referenced by a booking request.
// Precedence: explicit record id, then gateway order id. A request
// carrying neither resolves to nil (an unpaid booking); an unknown
// record id is an error, an unknown order id is tolerated as unpaid.
func (s *PaymentService) Resolve(req *models.BookingRequest) (*models.Payment, error) {
	if req.PaymentRecordID > 0 {
		payment, err := s.payments.FindByID(req.PaymentRecordID)
		if err != nil {
			return nil, err
		}
		return payment, nil
	}

	if req.OrderID != "" {
		payment, err := s.payments.FindByOrderID(req.OrderID)
		if err != nil {
			if errors.Is(err, models.ErrPaymentNotFound) {
				s.logger.WithField("order_id", req.OrderID).Warn("Booking carried unknown order id, proceeding unpaid")
				return nil, nil
			}
			return nil, err
		}
		return payment, nil
	}

	return nil, nil
}

// UpsertGatewayStub records a SUCCESS payment for a request that carries
// a bare gateway payment id with no prior record. The upsert keyed by
// payment id keeps retries from duplicating rows.
func (s *PaymentService) UpsertGatewayStub(tx *sqlx.Tx, req *models.BookingRequest, user *models.User, amount float64) (*models.Payment, error) {
	payment := &models.Payment{
		PaymentID: models.NullString{NullString: sql.NullString{String: req.PaymentID, Valid: true}},
		Status:    models.PaymentStatusSuccess,
		Amount:    amount,
		UserID:    models.NullInt64{NullInt64: sql.NullInt64{Int64: req.UserID, Valid: true}},
		BusID:     models.NullInt64{NullInt64: sql.NullInt64{Int64: req.BusID, Valid: true}},
	}
	if req.OrderID != "" {
		payment.OrderID = models.NullString{NullString: sql.NullString{String: req.OrderID, Valid: true}}
	}
	if user != nil {
		if user.Email != "" {
			payment.Email = models.NullString{NullString: sql.NullString{String: user.Email, Valid: true}}
		}
		if user.PhoneNumber.Valid {
			payment.Contact = user.PhoneNumber
		}
	}

	if err := s.payments.Upsert(tx, payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": req.PaymentID,
		"payment_pk": payment.ID,
		"user_id":    req.UserID,
	}).Warn("Recorded unverified gateway payment id as SUCCESS stub")

	return payment, nil
}

// AttachBookingContext enriches a payment row with the booked journey
func (s *PaymentService) AttachBookingContext(tx *sqlx.Tx, paymentID int64, busID int64, seatNumbers string) error {
	return s.payments.AttachBookingContext(tx, paymentID, busID, seatNumbers)
}

// List returns all payment records, newest first
func (s *PaymentService) List() ([]models.Payment, error) {
	return s.payments.List()
}
