package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/pkg/jwt"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	jwtService := jwt.NewService("test-secret", time.Hour)
	return NewAuthService(database.NewUserRepository(sqlxDB), jwtService, testLogger()), mock
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), time.Now()))

		user, err := svc.Register(&models.RegisterRequest{
			Name:        "Asha",
			Email:       "asha@example.com",
			Password:    "secret123",
			PhoneNumber: "+91 98765 43210",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), user.ID)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, "9876543210", user.PhoneNumber.String)
		assert.NotEqual(t, "secret123", user.Password, "password must be hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Email Taken", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		user, err := svc.Register(&models.RegisterRequest{
			Name: "Asha", Email: "asha@example.com", Password: "secret123",
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrEmailTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Phone", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		user, err := svc.Register(&models.RegisterRequest{
			Name: "Asha", Email: "asha@example.com", Password: "secret123", PhoneNumber: "12345",
		})
		assert.Nil(t, user)

		var invalid *models.InvalidRequestError
		assert.ErrorAs(t, err, &invalid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogin(t *testing.T) {
	userColumns := []string{
		"id", "name", "email", "password", "phone_number", "gender", "city", "state", "role", "created_at",
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				int64(10), "Asha", "asha@example.com", string(hash),
				nil, nil, nil, nil, models.RoleUser, time.Now(),
			))

		resp, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, int64(10), resp.User.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				int64(10), "Asha", "asha@example.com", string(hash),
				nil, nil, nil, nil, models.RoleUser, time.Now(),
			))

		resp, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "wrong"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Email", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))

		resp, err := svc.Login(&models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
