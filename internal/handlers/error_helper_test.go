package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Invalid Request", &models.InvalidRequestError{Reason: "userId is required"}, http.StatusBadRequest},
		{"Fare Mismatch", &models.FareMismatchError{Calculated: 900, Submitted: 850}, http.StatusBadRequest},
		{"Seat Already Booked", &models.SeatAlreadyBookedError{SeatNumber: "S1"}, http.StatusConflict},
		{"Booking State", &models.BookingStateError{BookingID: 1, Status: "CANCELLED", Action: "refund"}, http.StatusConflict},
		{"Seats Not Found", &models.SeatsNotFoundError{Missing: []int64{99}}, http.StatusNotFound},
		{"User Not Found", models.ErrUserNotFound, http.StatusNotFound},
		{"Bus Not Found", models.ErrBusNotFound, http.StatusNotFound},
		{"Payment Not Found", models.ErrPaymentNotFound, http.StatusNotFound},
		{"Booking Not Found", models.ErrBookingNotFound, http.StatusNotFound},
		{"Email Taken", models.ErrEmailTaken, http.StatusConflict},
		{"Invalid Credentials", models.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)

			respondError(c, logger, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)

	respondError(c, logger, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "internal server error")
}
