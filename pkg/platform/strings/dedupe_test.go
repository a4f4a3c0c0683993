package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims and drops blanks", input: []string{"  a ", "", "  "}, expected: []string{"a"}},
		{name: "keeps first occurrence", input: []string{"b", "a", " b"}, expected: []string{"b", "a"}},
		{name: "case sensitive", input: []string{"A", "a"}, expected: []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, SplitList("http://a.test, http://b.test ,http://a.test"))
}
