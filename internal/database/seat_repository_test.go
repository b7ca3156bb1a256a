package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkedbus/bus-ticketing-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestLockForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	seatColumns := []string{"id", "bus_id", "seat_number", "price", "booked"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		// Rows come back in table order; the result must follow request order
		mock.ExpectQuery(`SELECT id, bus_id, seat_number, price, booked FROM seats WHERE id IN \(\$1, \$2\) FOR UPDATE`).
			WithArgs(int64(3), int64(1)).
			WillReturnRows(sqlmock.NewRows(seatColumns).
				AddRow(int64(1), int64(7), "S1", 450.0, false).
				AddRow(int64(3), int64(7), "S3", 450.0, false))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seats, err := repo.LockForUpdate(tx, []int64{3, 1})
		require.NoError(t, err)
		require.Len(t, seats, 2)
		assert.Equal(t, int64(3), seats[0].ID)
		assert.Equal(t, int64(1), seats[1].ID)
		assert.Equal(t, "S3", seats[0].SeatNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Seats", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs(int64(1), int64(99)).
			WillReturnRows(sqlmock.NewRows(seatColumns).
				AddRow(int64(1), int64(7), "S1", 450.0, false))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seats, err := repo.LockForUpdate(tx, []int64{1, 99})
		assert.Nil(t, seats)

		var notFound *models.SeatsNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []int64{99}, notFound.Missing)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnError(fmt.Errorf("database error"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seats, err := repo.LockForUpdate(tx, []int64{1})
		assert.Nil(t, seats)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to lock seats")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkBookedAndRelease(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Mark Booked Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE seats SET booked = \$1 WHERE id IN \(\$2, \$3\)`).
			WithArgs(true, int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		tx, err := db.Beginx()
		require.NoError(t, err)

		require.NoError(t, repo.MarkBooked(tx, []int64{1, 2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Row Count Mismatch", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE seats SET booked`).
			WithArgs(true, int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.MarkBooked(tx, []int64{1, 2})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Release Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE seats SET booked`).
			WithArgs(false, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Beginx()
		require.NoError(t, err)

		require.NoError(t, repo.Release(tx, []int64{5}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Set Is Noop", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := db.Beginx()
		require.NoError(t, err)

		require.NoError(t, repo.Release(tx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateForBus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		for i := 1; i <= 3; i++ {
			mock.ExpectExec(`INSERT INTO seats`).
				WithArgs(int64(4), fmt.Sprintf("S%d", i), 500.0).
				WillReturnResult(sqlmock.NewResult(int64(i), 1))
		}

		tx, err := db.Beginx()
		require.NoError(t, err)

		require.NoError(t, repo.CreateForBus(tx, 4, 3, 500.0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
