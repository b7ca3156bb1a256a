package services

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/pkg/jwt"
	"github.com/linkedbus/bus-ticketing-backend/pkg/validator"
)

// AuthService handles registration and login
type AuthService struct {
	users      *database.UserRepository
	jwtService *jwt.Service
	phones     *validator.PhoneValidator
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		phones:     validator.NewPhoneValidator(),
		logger:     logger,
	}
}

// Register creates a new user with a bcrypt-hashed password
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrEmailTaken
	}

	phone := req.PhoneNumber
	if phone != "" {
		sanitized, err := s.phones.Validate(phone)
		if err != nil {
			return nil, &models.InvalidRequestError{Reason: err.Error()}
		}
		phone = sanitized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if phone != "" {
		user.PhoneNumber = models.NullString{NullString: sql.NullString{String: phone, Valid: true}}
	}
	if req.Gender != "" {
		user.Gender = models.NullString{NullString: sql.NullString{String: req.Gender, Valid: true}}
	}
	if req.City != "" {
		user.City = models.NullString{NullString: sql.NullString{String: req.City, Valid: true}}
	}
	if req.State != "" {
		user.State = models.NullString{NullString: sql.NullString{String: req.State, Valid: true}}
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return user, nil
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if err == models.ErrUserNotFound {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return &models.LoginResponse{Token: token, User: user}, nil
}

// GetProfile retrieves a user by id
func (s *AuthService) GetProfile(userID int64) (*models.User, error) {
	return s.users.FindByID(userID)
}
