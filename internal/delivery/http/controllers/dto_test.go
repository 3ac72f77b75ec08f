package controllers

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", ""},
		{"50.00", ""},
		{"0.01", ""},
		{"99999999.99", ""},
		{"0.001", "Ensure that there are no more than 2 decimal places."},
		{"12345678901", "Ensure that there are no more than 10 digits in total."},
		{"123456789.5", "Ensure that there are no more than 8 digits before the decimal point."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, checkDigits(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestNullableString(t *testing.T) {
	var req EventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"location":null,"image":"  "}`), &req))
	assert.True(t, req.Location.Set)
	assert.Nil(t, req.Location.Value)
	assert.Nil(t, req.Location.ptr())
	assert.True(t, req.Image.Set)
	assert.Nil(t, req.Image.ptr())

	var empty EventRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.False(t, empty.Location.Set)
	assert.Equal(t, "", empty.Location.ValidationValue())
}
