package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

func TestNameScore(t *testing.T) {
	assert.Greater(t, NameScore("Acme Widgets LLC"), 0)
	assert.Greater(t, NameScore("Smith & Sons Plumbing Inc."), 0)
	assert.Less(t, NameScore("123 Main Street"), 0)
	assert.Less(t, NameScore("call (555) 123-4567"), 0)
	assert.Equal(t, -999, NameScore("x"))
}

func TestHasCorpSuffix(t *testing.T) {
	assert.True(t, HasCorpSuffix("Acme Widgets LLC"))
	assert.True(t, HasCorpSuffix("Acme Widgets, Inc."))
	assert.True(t, HasCorpSuffix("Acme Widgets Corp"))
	assert.False(t, HasCorpSuffix("Acme Widgets"))
}

func TestExtractBusinessNameWindowLabelled(t *testing.T) {
	v := ExtractBusinessNameWindow("Legal Business Name: Acme Widgets LLC | Address: 1 Main St")

	assert.Equal(t, "Acme Widgets LLC", v)
}

func TestExtractBusinessNameWindowBestSegment(t *testing.T) {
	v := ExtractBusinessNameWindow("Page 1 of 4 | Riverside Catering Co | 01/02/2024")

	assert.Equal(t, "Riverside Catering Co", v)
}

func TestExtractNameStrongerNextLine(t *testing.T) {
	lines := []string{
		"Merchant Funding Request",
		"Legal Business Name:",
		"Acme Widgets LLC",
		"Industry: Retail",
	}

	v, ev, boost, ok := ExtractNameStronger(lines)

	assert.True(t, ok)
	assert.Equal(t, "Acme Widgets LLC", v)
	assert.Contains(t, ev, "Legal Business Name:")
	assert.Equal(t, 0.10, boost)
}

func TestExtractNameStrongerAboveStreetLine(t *testing.T) {
	lines := []string{
		"invoice",
		"Bluebird Logistics LLC",
		"4821 Harbor Blvd",
	}

	v, _, boost, ok := ExtractNameStronger(lines)

	assert.True(t, ok)
	assert.Equal(t, "Bluebird Logistics LLC", v)
	assert.Equal(t, 0.08, boost)
}

func TestExtractNameLayoutRow(t *testing.T) {
	words := []dto.Word{
		{Text: "Business", X: 10, Y: 700, Size: 10},
		{Text: "Name:", X: 60, Y: 700, Size: 10},
		{Text: "Acme", X: 150, Y: 700, Size: 10},
		{Text: "Widgets", X: 200, Y: 700, Size: 10},
		{Text: "LLC", X: 260, Y: 700, Size: 10},
	}

	v, ev, boost, ok := ExtractNameLayout(words)

	assert.True(t, ok)
	assert.Equal(t, "Acme Widgets LLC", v)
	assert.Contains(t, ev, "[layout-row]")
	assert.Equal(t, 0.18, boost)
}

func TestExtractNameLayoutEmpty(t *testing.T) {
	_, _, _, ok := ExtractNameLayout(nil)

	assert.False(t, ok)
}
