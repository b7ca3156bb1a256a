package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// respondError maps domain errors onto HTTP statuses. Unexpected errors
// are logged and reported as an opaque 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var invalidReq *models.InvalidRequestError
	var fareMismatch *models.FareMismatchError
	var seatBooked *models.SeatAlreadyBookedError
	var seatsMissing *models.SeatsNotFoundError
	var stateErr *models.BookingStateError

	switch {
	case errors.As(err, &invalidReq), errors.As(err, &fareMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &seatBooked), errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &seatsMissing),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrBusNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
