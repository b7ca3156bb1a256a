package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// BusHandler handles bus search, seat maps and admin bus management
type BusHandler struct {
	buses  *database.BusRepository
	seats  *database.SeatRepository
	logger *logrus.Logger
}

// NewBusHandler creates a new bus handler
func NewBusHandler(buses *database.BusRepository, seats *database.SeatRepository, logger *logrus.Logger) *BusHandler {
	return &BusHandler{buses: buses, seats: seats, logger: logger}
}

// Search handles GET /api/v1/buses/search?source=&destination=&date=
func (h *BusHandler) Search(c *gin.Context) {
	params := models.BusSearchParams{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
	}

	if params.Source == "" || params.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and destination are required"})
		return
	}
	if params.Date != "" {
		if _, err := time.Parse("2006-01-02", params.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
			return
		}
	}

	buses, err := h.buses.Search(params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}

// Get handles GET /api/v1/buses/:id
func (h *BusHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bus id"})
		return
	}

	bus, err := h.buses.FindByID(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// Seats handles GET /api/v1/buses/:id/seats
func (h *BusHandler) Seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bus id"})
		return
	}

	if _, err := h.buses.FindByID(id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	seats, err := h.seats.FindByBus(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"seats": seats, "count": len(seats)})
}

// Create handles POST /api/v1/admin/buses
func (h *BusHandler) Create(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departureDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departureDate must be in YYYY-MM-DD format"})
		return
	}

	bus := &models.Bus{
		BusName:       req.BusName,
		BusType:       req.BusType,
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		TotalSeats:    req.TotalSeats,
		DepartureDate: departureDate,
		Status:        models.BusStatusActive,
	}

	if err := h.buses.CreateWithSeats(bus, h.seats); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"bus_id":      bus.ID,
		"route":       bus.Source + " - " + bus.Destination,
		"total_seats": bus.TotalSeats,
	}).Info("Bus created")

	c.JSON(http.StatusCreated, bus)
}

// Update handles PUT /api/v1/admin/buses/:id
func (h *BusHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bus id"})
		return
	}

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != nil && *req.Status != models.BusStatusActive && *req.Status != models.BusStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
		return
	}

	bus, err := h.buses.Update(id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// List handles GET /api/v1/admin/buses
func (h *BusHandler) List(c *gin.Context) {
	buses, err := h.buses.List()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}
