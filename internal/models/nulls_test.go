package models

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullStringJSON(t *testing.T) {
	t.Run("Valid Value Round Trip", func(t *testing.T) {
		ns := NullString{NullString: sql.NullString{String: "9876543210", Valid: true}}

		data, err := json.Marshal(ns)
		require.NoError(t, err)
		assert.Equal(t, `"9876543210"`, string(data))

		var decoded NullString
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Valid)
		assert.Equal(t, "9876543210", decoded.String)
	})

	t.Run("Null Value", func(t *testing.T) {
		data, err := json.Marshal(NullString{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var decoded NullString
		require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
		assert.False(t, decoded.Valid)
	})
}

func TestNullInt64JSON(t *testing.T) {
	t.Run("Valid Value Round Trip", func(t *testing.T) {
		ni := NullInt64{NullInt64: sql.NullInt64{Int64: 31, Valid: true}}

		data, err := json.Marshal(ni)
		require.NoError(t, err)
		assert.Equal(t, "31", string(data))

		var decoded NullInt64
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Valid)
		assert.Equal(t, int64(31), decoded.Int64)
	})

	t.Run("Null Value", func(t *testing.T) {
		data, err := json.Marshal(NullInt64{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var decoded NullInt64
		require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
		assert.False(t, decoded.Valid)
	})
}

func TestNullFieldsInStructJSON(t *testing.T) {
	user := User{ID: 10, Name: "Asha", Email: "asha@example.com", Role: RoleUser}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"phone_number":null`)
	assert.NotContains(t, string(data), "password")

	user.PhoneNumber = NullString{NullString: sql.NullString{String: "9876543210", Valid: true}}
	data, err = json.Marshal(user)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phone_number":"9876543210"`)
}
