package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFICO(t *testing.T) {
	assert.Equal(t, "701", ExtractFICO("FICO Score: 701"))
	assert.Equal(t, "688", ExtractFICO("owner credit 688 as of 01/2024"))
}

func TestExtractFICOOutOfRange(t *testing.T) {
	// 3-digit tokens outside [300,850] are not scores.
	assert.Empty(t, ExtractFICO("suite 900 floor 299"))
	assert.Equal(t, "845", ExtractFICO("ref 851 score 845"))
}

func TestExtractFICONoToken(t *testing.T) {
	assert.Empty(t, ExtractFICO("no score mentioned"))
}
