package colormix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Mix(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []Weighted
		expected string
	}{
		{
			name:     "no inputs",
			inputs:   nil,
			expected: FallbackColor,
		},
		{
			name: "all weights zero",
			inputs: []Weighted{
				{Color: "#ff0000", Weight: 0},
				{Color: "#0000ff", Weight: 0},
			},
			expected: FallbackColor,
		},
		{
			name:     "single color unchanged",
			inputs:   []Weighted{{Color: "#336699", Weight: 2.5}},
			expected: "#336699",
		},
		{
			name: "equal weights blend to midpoint",
			inputs: []Weighted{
				{Color: "#ff0000", Weight: 1},
				{Color: "#0000ff", Weight: 1},
			},
			expected: "#800080",
		},
		{
			name: "heavier weight dominates",
			inputs: []Weighted{
				{Color: "#ff0000", Weight: 3},
				{Color: "#0000ff", Weight: 1},
			},
			expected: "#bf0040",
		},
		{
			name: "unparsable color ignored",
			inputs: []Weighted{
				{Color: "not-a-color", Weight: 5},
				{Color: "#00ff00", Weight: 1},
			},
			expected: "#00ff00",
		},
		{
			name:     "short form expands",
			inputs:   []Weighted{{Color: "#abc", Weight: 1}},
			expected: "#aabbcc",
		},
		{
			name:     "uppercase normalized",
			inputs:   []Weighted{{Color: "#AABBCC", Weight: 1}},
			expected: "#aabbcc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Mix(tt.inputs))
		})
	}
}
