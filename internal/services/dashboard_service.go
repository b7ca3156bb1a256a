package services

import (
	"time"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

// recentBookingsLimit caps the dashboard's recent activity list
const recentBookingsLimit = 10

// DashboardService aggregates booking activity for the admin dashboard
type DashboardService struct {
	users    *database.UserRepository
	buses    *database.BusRepository
	bookings *database.BookingRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(users *database.UserRepository, buses *database.BusRepository, bookings *database.BookingRepository) *DashboardService {
	return &DashboardService{
		users:    users,
		buses:    buses,
		bookings: bookings,
	}
}

// Stats computes dashboard totals. "Today" windows use the server's
// local midnight.
func (s *DashboardService) Stats() (*models.DashboardStats, error) {
	totalUsers, err := s.users.Count()
	if err != nil {
		return nil, err
	}

	totalBuses, err := s.buses.Count()
	if err != nil {
		return nil, err
	}

	epoch := time.Unix(0, 0)
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	totalBookings, err := s.bookings.Count(epoch, endOfDay)
	if err != nil {
		return nil, err
	}

	todayBookings, err := s.bookings.Count(startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}

	totalRevenue, err := s.bookings.SumTotalFare(epoch, endOfDay)
	if err != nil {
		return nil, err
	}

	todayRevenue, err := s.bookings.SumTotalFare(startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}

	recent, err := s.bookings.Recent(recentBookingsLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalUsers:     totalUsers,
		TotalBuses:     totalBuses,
		TotalBookings:  totalBookings,
		TodayBookings:  todayBookings,
		TotalRevenue:   totalRevenue,
		TodayRevenue:   todayRevenue,
		RecentBookings: recent,
	}, nil
}
