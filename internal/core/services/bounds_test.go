package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, 25},
		{"negative uses default", -5, 25},
		{"in range passes", 100, 100},
		{"minimum", 1, 1},
		{"ceiling", 500, 500},
		{"over ceiling clamps", 10000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampSize(tt.in))
		})
	}
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0, ClampOffset(0))
	assert.Equal(t, 0, ClampOffset(-5))
	assert.Equal(t, 250, ClampOffset(250))
}
