package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsYearMonth(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "2024-05", want: true},
		{in: "1999-12", want: true},
		{in: "2024-01", want: true},
		{in: "2024-00"},
		{in: "2024-13"},
		{in: "2024-5"},
		{in: "24-05"},
		{in: "abcd-05"},
		{in: "2024/05"},
		{in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsYearMonth(tt.in))
		})
	}
}

func TestNewValidator(t *testing.T) {
	validate, translator := NewValidator()

	type sample struct {
		Name  string `json:"name" validate:"notblank"`
		Month string `json:"month" validate:"yearmonth"`
	}

	assert.NoError(t, validate.Struct(sample{Name: "x", Month: "2024-02"}))

	err := validate.Struct(sample{Name: "   ", Month: "2024-13"})
	if assert.Error(t, err) {
		fldErrs := TranslateValidationErrors(err, translator)
		assert.Equal(t, map[string]string{
			"name":  notBlankText,
			"month": yearMonthText,
		}, fldErrs)
	}
}
