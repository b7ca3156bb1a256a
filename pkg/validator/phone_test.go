package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	v := NewPhoneValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Plain Ten Digits", "9876543210", "9876543210", nil},
		{"With Country Code", "+919876543210", "9876543210", nil},
		{"With Trunk Zero", "09876543210", "9876543210", nil},
		{"With Separators", "98765 43210", "9876543210", nil},
		{"Empty", "", "", ErrEmptyPhone},
		{"Too Short", "98765", "", ErrInvalidLength},
		{"Letters", "98765abcde", "", ErrInvalidFormat},
		{"Bad Prefix", "1234567890", "", ErrInvalidPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	v := NewPhoneValidator()

	formatted, err := v.Format("+919876543210")
	assert.NoError(t, err)
	assert.Equal(t, "98765 43210", formatted)

	_, err = v.Format("123")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	v := NewPhoneValidator()

	assert.True(t, v.IsValid("9876543210"))
	assert.False(t, v.IsValid("5876543210"))
}
