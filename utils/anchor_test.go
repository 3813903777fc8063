package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var threeDigitRe = regexp.MustCompile(`\b[3-8]\d{2}\b`)

func extractThreeDigit(window string) string {
	return threeDigitRe.FindString(window)
}

func TestFindAnchorsRanking(t *testing.T) {
	lines := []string{
		"merchant funding application",
		"fico score: 701",
		"owner fico 688",
	}

	hits := FindAnchors(lines, []string{"fico"}, DefaultScoreFloor)

	assert.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Line)
	assert.Equal(t, 2, hits[1].Line)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestResolveAnchoredField(t *testing.T) {
	lines := []string{
		"Merchant Funding Application",
		"Owner: Jane Smith",
		"FICO Score: 701",
		"Requested Amount: $50,000",
	}
	r := Resolver{}

	res := r.Resolve(lines, LowerAll(lines), []string{"fico", "credit score"}, extractThreeDigit, 0.60)

	assert.Equal(t, "701", res.Value)
	assert.Equal(t, "fico", res.Evidence.Anchor)
	assert.InDelta(t, 0.95, res.Confidence, 0.001)
}

func TestResolveHeadTailFallback(t *testing.T) {
	lines := []string{"balance summary", "score 720"}
	r := Resolver{}

	res := r.Resolve(lines, LowerAll(lines), []string{"nothing matches this"}, extractThreeDigit, 0.60)

	assert.Equal(t, "720", res.Value)
	assert.Equal(t, 0.45, res.Confidence)
	assert.Equal(t, "global-fallback", res.Evidence.Anchor)
}

func TestResolveNothingFound(t *testing.T) {
	lines := []string{"no digits anywhere"}
	r := Resolver{}

	res := r.Resolve(lines, LowerAll(lines), []string{"fico"}, extractThreeDigit, 0.60)

	assert.Empty(t, res.Value)
	assert.Zero(t, res.Confidence)
}

func TestResolveConfidenceCapped(t *testing.T) {
	lines := []string{"fico score: 750"}
	r := Resolver{}

	res := r.Resolve(lines, LowerAll(lines), []string{"fico"}, extractThreeDigit, 0.90)

	assert.Equal(t, "750", res.Value)
	assert.Equal(t, 0.98, res.Confidence)
}
