package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/pkg/razorpay"
)

type fixedGateway struct {
	verifies bool
}

func (g fixedGateway) CreateOrder(amount float64) (*razorpay.Order, error) {
	return &razorpay.Order{ID: "order_abc", Amount: int64(amount * 100), Currency: "INR"}, nil
}

func (g fixedGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.verifies
}

func (g fixedGateway) KeyID() string { return "rzp_test_key" }

func newPaymentService(t *testing.T, verifies bool) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPaymentService(database.NewPaymentRepository(sqlxDB), fixedGateway{verifies: verifies}, testLogger()), mock
}

func TestCreateOrder(t *testing.T) {
	svc, mock := newPaymentService(t, true)

	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs("order_abc", sqlmock.AnyArg(), models.PaymentStatusCreated, 900.0,
			"asha@example.com", "9876543210", int64(10), int64(7), "S1,S3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now()))

	resp, err := svc.CreateOrder(10, &models.CreateOrderRequest{
		Amount:      900.0,
		Email:       "asha@example.com",
		Contact:     "9876543210",
		BusID:       7,
		SeatNumbers: "S1,S3",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", resp.OrderID)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerify(t *testing.T) {
	t.Run("Valid Signature", func(t *testing.T) {
		svc, mock := newPaymentService(t, true)

		mock.ExpectExec(`UPDATE payments SET payment_id`).
			WithArgs("pay_xyz", models.PaymentStatusSuccess, "order_abc").
			WillReturnResult(sqlmock.NewResult(0, 1))

		verified, err := svc.Verify(&models.VerifyPaymentRequest{
			OrderID: "order_abc", PaymentID: "pay_xyz", Signature: "sig",
		})
		require.NoError(t, err)
		assert.True(t, verified)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Signature Marks Failed", func(t *testing.T) {
		svc, mock := newPaymentService(t, false)

		mock.ExpectExec(`UPDATE payments SET payment_id`).
			WithArgs("pay_xyz", models.PaymentStatusFailed, "order_abc").
			WillReturnResult(sqlmock.NewResult(0, 1))

		verified, err := svc.Verify(&models.VerifyPaymentRequest{
			OrderID: "order_abc", PaymentID: "pay_xyz", Signature: "bad",
		})
		require.NoError(t, err)
		assert.False(t, verified)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResolve(t *testing.T) {
	paymentCols := []string{
		"id", "order_id", "payment_id", "status", "amount", "email", "contact",
		"user_id", "bus_id", "seat_numbers", "created_at",
	}

	t.Run("Record ID Takes Precedence", func(t *testing.T) {
		svc, mock := newPaymentService(t, true)

		mock.ExpectQuery(`FROM payments WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(
				int64(9), "order_abc", "pay_xyz", models.PaymentStatusSuccess, 900.0,
				nil, nil, int64(10), int64(7), nil, time.Now(),
			))

		payment, err := svc.Resolve(&models.BookingRequest{PaymentRecordID: 9, OrderID: "other_order"})
		require.NoError(t, err)
		assert.Equal(t, int64(9), payment.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Record ID Is An Error", func(t *testing.T) {
		svc, mock := newPaymentService(t, true)

		mock.ExpectQuery(`FROM payments WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(paymentCols))

		payment, err := svc.Resolve(&models.BookingRequest{PaymentRecordID: 404})
		assert.Nil(t, payment)
		assert.ErrorIs(t, err, models.ErrPaymentNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Order ID Resolves Unpaid", func(t *testing.T) {
		svc, mock := newPaymentService(t, true)

		mock.ExpectQuery(`FROM payments WHERE order_id = \$1`).
			WithArgs("order_missing").
			WillReturnRows(sqlmock.NewRows(paymentCols))

		payment, err := svc.Resolve(&models.BookingRequest{OrderID: "order_missing"})
		require.NoError(t, err)
		assert.Nil(t, payment)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No References Resolve Unpaid", func(t *testing.T) {
		svc, mock := newPaymentService(t, true)

		payment, err := svc.Resolve(&models.BookingRequest{})
		require.NoError(t, err)
		assert.Nil(t, payment)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
