package copparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "post modification inspection",
			header:   "POST MODIFICATION INSPECTION CLOSE OUT PACKAGE",
			expected: "PMI",
		},
		{
			name:     "pmi beats review wording",
			header:   "POST MODIFICATION INSPECTION CLOSE OUT PACKAGE REVIEW",
			expected: "PMI",
		},
		{
			name:     "landlord package",
			header:   "LANDLORD CLOSE OUT PACKAGE COMPLETE",
			expected: "LL COP",
		},
		{
			name:     "48 hour review",
			header:   "48HR CLOSE OUT PACKAGE REVIEW",
			expected: "48HR REVIEW",
		},
		{
			name:     "48 hour spaced",
			header:   "48 HOUR CLOSE OUT PACKAGE REVIEW",
			expected: "48HR REVIEW",
		},
		{
			name:     "plain review",
			header:   "CLOSE OUT PACKAGE REVIEW",
			expected: "REVIEW",
		},
		{
			name:     "revision",
			header:   "CLOSE OUT PACKAGE REVISION",
			expected: "REVISION",
		},
		{
			name:     "mixed case input",
			header:   "Close Out Package Revision",
			expected: "REVISION",
		},
		{
			name:     "fallback word after base phrase",
			header:   "CLOSE OUT PACKAGE COMPLETE",
			expected: "COMPLETE",
		},
		{
			name:     "base phrase only",
			header:   "CLOSE OUT PACKAGE",
			expected: "UNKNOWN",
		},
		{
			name:     "no base phrase",
			header:   "SOMETHING ELSE ENTIRELY",
			expected: "UNKNOWN",
		},
	}

	p := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.classify(tt.header))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	p := NewDefault()
	for _, header := range []string{"", "   ", ":::", "close out package   "} {
		assert.NotEmpty(t, p.classify(header))
	}
}
