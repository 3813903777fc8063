package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFromText(t *testing.T) {
	lines := LinesFromText("Merchant   Application\n\n  Owner:  Jane \x00Smith  \n")

	assert.Equal(t, []string{"Merchant Application", "Owner: Jane Smith"}, lines)
}

func TestLinesFromTextEmpty(t *testing.T) {
	assert.Empty(t, LinesFromText("\n  \n\t\n"))
}

func TestWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, "a | b | c | d | e", Window(lines, 2, 2))
	assert.Equal(t, "a | b | c", Window(lines, 0, 2))
	assert.Equal(t, "c | d | e", Window(lines, 4, 2))
}

func TestLowerAll(t *testing.T) {
	assert.Equal(t, []string{"fico score"}, LowerAll([]string{"FICO Score"}))
}
