package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "clinic_a", expected: []string{"clinic_a"}},
		{name: "spaces and blanks", input: " clinic_a, ,clinic-b ,", expected: []string{"clinic_a", "clinic-b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitAndTrim(tt.input, ","))
		})
	}
}

func TestMidnightIn(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	// 02:30 UTC on Jan 3 is still Jan 2 in Santiago (UTC-3 in summer)
	instant := time.Date(2024, 1, 3, 2, 30, 0, 0, time.UTC)

	got := MidnightIn(instant, santiago)
	assert.Equal(t, 2, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, santiago, got.Location())

	assert.Equal(t, 3, MidnightIn(instant, nil).Day())
}
