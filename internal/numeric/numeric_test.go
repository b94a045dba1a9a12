package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		ok    bool
	}{
		{"plain", "123", 123, true},
		{"thousands separators", "1,234,567", 1234567, true},
		{"negative", "-2,500", -2500, true},
		{"surrounded by text", "買進 4,200 張", 4200, true},
		{"leading sign with text", "淨額 -300", -300, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"no digits", "查無資料", 0, false},
		{"dash placeholder", "-", 0, false},
		{"zero is a value", "0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain", "605.00", 605.00, true},
		{"explicit plus", "+20.00", 20.00, true},
		{"explicit minus", "-5.50", -5.50, true},
		{"thousands separators", "1,180.00", 1180.00, true},
		{"embedded in text", "收盤 1,005.5 元", 1005.5, true},
		{"integer token", "42", 42.0, true},
		{"empty", "", 0, false},
		{"no digits", "N/A", 0, false},
		{"zero change", "0.00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFallbackHelpers(t *testing.T) {
	assert.Equal(t, int64(7), IntOr("7", -1))
	assert.Equal(t, int64(-1), IntOr("none", -1))
	assert.InDelta(t, 3.5, FloatOr("3.5", 0), 1e-9)
	assert.InDelta(t, 9.9, FloatOr("", 9.9), 1e-9)
}
