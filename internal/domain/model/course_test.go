package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourse_CurrencyOrDefault(t *testing.T) {
	currency := func(s string) *string { return &s }

	tests := []struct {
		name     string
		currency *string
		want     string
	}{
		{"unset", nil, "INR"},
		{"empty", currency(""), "INR"},
		{"upper case", currency("USD"), "USD"},
		{"lower case", currency("inr"), "INR"},
		{"padded", currency(" eur "), "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := &Course{Currency: tt.currency}
			assert.Equal(t, tt.want, course.CurrencyOrDefault())
		})
	}
}
