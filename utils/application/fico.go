package application

import (
	"regexp"
	"strconv"
)

var ficoTokenRe = regexp.MustCompile(`\b[3-8]\d{2}\b`)

// ExtractFICO returns the first 3-digit token in the valid score range
// [300,850]. Out-of-range tokens are skipped, not errors.
func ExtractFICO(window string) string {
	for _, tok := range ficoTokenRe.FindAllString(window, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if n >= 300 && n <= 850 {
			return tok
		}
	}
	return ""
}
