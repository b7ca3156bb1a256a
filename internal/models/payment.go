package models

import (
	"encoding/json"
	"time"
)

// Payment statuses
const (
	PaymentStatusCreated = "CREATED"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Payment represents a gateway payment record. Rows are append-only;
// status transitions update in place but records are never deleted.
type Payment struct {
	ID          int64      `json:"id" db:"id"`
	OrderID     NullString `json:"order_id,omitempty" db:"order_id"`
	PaymentID   NullString `json:"payment_id,omitempty" db:"payment_id"`
	Status      string     `json:"status" db:"status"`
	Amount      float64    `json:"amount" db:"amount"`
	Email       NullString `json:"email,omitempty" db:"email"`
	Contact     NullString `json:"contact,omitempty" db:"contact"`
	UserID      NullInt64  `json:"user_id,omitempty" db:"user_id"`
	BusID       NullInt64  `json:"bus_id,omitempty" db:"bus_id"`
	SeatNumbers NullString `json:"seat_numbers,omitempty" db:"seat_numbers"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Method infers how the payment was made from the recorded gateway ids
func (p *Payment) Method() string {
	if p.PaymentID.Valid && p.PaymentID.String != "" {
		return "RAZORPAY"
	}
	return "CASH"
}

// MarshalJSON includes the inferred payment method in API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		alias
		Method string `json:"method"`
	}{alias(p), p.Method()})
}

// CreateOrderRequest is the payload for creating a gateway order
type CreateOrderRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Email       string  `json:"email"`
	Contact     string  `json:"contact"`
	BusID       int64   `json:"busId"`
	SeatNumbers string  `json:"seatNumbers"`
}

// CreateOrderResponse carries the gateway order handle back to the client
type CreateOrderResponse struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
}

// VerifyPaymentRequest is the payload for gateway signature verification
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
