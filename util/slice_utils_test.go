package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopRemovesLastElement(t *testing.T) {
	s := []int{1, 2, 3}
	Pop(&s)
	assert.Equal(t, []int{1, 2}, s)
}

func TestLastReturnsPointerToFinalElement(t *testing.T) {
	s := []string{"a", "b", "c"}
	last := Last(s)
	assert.Equal(t, "c", *last)

	*last = "z"
	assert.Equal(t, "z", s[2])
}
