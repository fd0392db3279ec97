package conv

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{4.5, 4.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(7), 7, true},
		{json.Number("3.75"), 3.75, true},
		{json.Number("x"), 0, false},
		{"4.0", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestToString(t *testing.T) {
	s, ok := ToString("Fresh and clean")
	assert.True(t, ok)
	assert.Equal(t, "Fresh and clean", s)

	s, ok = ToString(3.5)
	assert.True(t, ok)
	assert.Equal(t, "3.5", s)

	_, ok = ToString([]string{"a"})
	assert.False(t, ok)
	_, ok = ToString(nil)
	assert.False(t, ok)
}
