package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/internal/services"
)

// InvoiceHandler renders booking invoices as PDF
type InvoiceHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(bookings *services.BookingService, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{bookings: bookings, logger: logger}
}

// Download handles GET /api/v1/bookings/:id/invoice
func (h *InvoiceHandler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.bookings.GetBooking(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	pdfBytes, err := renderInvoice(booking)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("invoice-%d.pdf", booking.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func renderInvoice(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Company header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 12, "LinkedBus", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Bus Ticket Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Booking meta
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Invoice No: INV-%06d", b.ID), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", b.BookingTime.Format("02 Jan 2006 15:04")), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Status: %s", b.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Passenger box
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 244, 255)
	pdf.CellFormat(0, 8, "Passenger Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Name: %s", b.User.Name), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Email: %s", b.User.Email), "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Journey box
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Journey Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Bus: %s (%s)", b.Bus.BusName, b.Bus.BusType), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Route: %s to %s", b.Bus.Source, b.Bus.Destination), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Departure: %s at %s", b.Bus.DepartureDate.Format("02 Jan 2006"), b.Bus.DepartureTime), "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Seats table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 64, 175)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(95, 8, "Seat", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 8, "Price", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, seat := range b.Seats {
		pdf.CellFormat(95, 8, seat.SeatNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(95, 8, fmt.Sprintf("%.2f", seat.Price), "1", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 9, "Total Fare", "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 9, fmt.Sprintf("%.2f", b.TotalFare), "1", 1, "C", false, 0, "")
	pdf.Ln(8)

	if b.Payment != nil && b.Payment.PaymentID.Valid {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, fmt.Sprintf("Payment Reference: %s", b.Payment.PaymentID.String), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Seats: %s", strings.Join(b.SeatNumbers(), ", ")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Thank you for travelling with LinkedBus.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	return buf.Bytes(), nil
}
