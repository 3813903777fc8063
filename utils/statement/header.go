package statement

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var knownBanks = []string{
	"JPMorgan Chase", "Chase", "Bank of America", "Wells Fargo", "Citibank",
	"Citizens Bank", "Capital One", "PNC Bank", "TD Bank", "US Bank",
	"Truist", "Regions Bank", "Fifth Third Bank", "KeyBank", "Santander",
	"M&T Bank", "Huntington", "BMO", "Navy Federal", "Bluevine", "Mercury",
	"Novo", "Relay",
}

var (
	acctLabelRe  = regexp.MustCompile(`(?i)(?:account|acct)\s*(?:number|no\.?|#)?\s*[:\-]?\s*[Xx*]*(\d{4,12})\b`)
	bareDigitsRe = regexp.MustCompile(`\b\d{4,12}\b`)

	// Context that means a digit run is NOT a deposit account number.
	acctBadContext  = []string{"routing", "aba", "phone", "fax", "zip", "invoice", "check", "confirmation", "member since"}
	acctCardContext = []string{"card", "debit card", "credit card"}
)

var genericBankRe = regexp.MustCompile(`\b([A-Z][A-Za-z&.' ]{2,40}?(?:Bank|Credit Union|Bancorp))\b`)

// ExtractBankName matches the statement header against the known-bank list,
// falling back to a generic "... Bank" pattern. Longer names are listed before
// their substrings so "JPMorgan Chase" wins over "Chase".
func ExtractBankName(lines []string) string {
	head := lines[:min(len(lines), 40)]
	for _, ln := range head {
		low := strings.ToLower(ln)
		for _, bank := range knownBanks {
			if strings.Contains(low, strings.ToLower(bank)) {
				return bank
			}
		}
	}
	for _, ln := range head {
		if m := genericBankRe.FindStringSubmatch(ln); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractAccountNumber scores digit runs in the header by label proximity and
// context, returning the best candidate masked to its last four digits.
// On a score tie the later candidate wins; statements tend to repeat the
// routing number first and the account number after.
func ExtractAccountNumber(lines []string) string {
	bestNum := ""
	bestScore := -100
	for _, ln := range lines[:min(len(lines), 60)] {
		low := strings.ToLower(ln)
		bad := false
		for _, tok := range acctBadContext {
			if strings.Contains(low, tok) {
				bad = true
				break
			}
		}
		if bad {
			continue
		}
		carded := false
		for _, tok := range acctCardContext {
			if strings.Contains(low, tok) {
				carded = true
				break
			}
		}

		labelled := acctLabelRe.FindStringSubmatch(ln)
		cands := bareDigitsRe.FindAllString(ln, -1)
		for _, c := range cands {
			score := 0
			if labelled != nil && labelled[1] == c {
				score += 3
			}
			if carded {
				score -= 3
			}
			switch {
			case len(c) == 7:
				score--
			case len(c) >= 4 && len(c) <= 6:
				score++
			}
			if score >= bestScore {
				bestScore = score
				bestNum = c
			}
		}
	}
	return maskLast4(bestNum)
}

func maskLast4(num string) string {
	if num == "" {
		return ""
	}
	if len(num) <= 4 {
		return "****" + num
	}
	return "****" + num[len(num)-4:]
}

// ExtractBusinessName picks the account holder from the header, in descending
// reliability: an explicit label, a line with a corporate suffix, the
// filename, then the first clean header line.
func ExtractBusinessName(lines []string, filename string) string {
	labelRe := regexp.MustCompile(`(?i)(?:account\s+holder|prepared\s+for|customer\s+name|business\s+name)\s*[:\-]?\s*(.+)`)
	head := lines[:min(len(lines), 30)]

	for _, ln := range head {
		if m := labelRe.FindStringSubmatch(ln); m != nil {
			if v := cleanHeaderName(m[1]); v != "" {
				return v
			}
		}
	}
	for _, ln := range head {
		if v := cleanHeaderName(ln); v != "" && corpSuffixHintRe.MatchString(v) {
			return v
		}
	}
	if v := BusinessFromFilename(filename); v != "" {
		return v
	}
	for _, ln := range head {
		if v := cleanHeaderName(ln); v != "" && !headerNoiseRe.MatchString(strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

var (
	corpSuffixHintRe = regexp.MustCompile(`(?i)\b(inc\.?|llc|l\.l\.c\.|ltd\.?|corp\.?|corporation|llp|pllc|pc|pa)\b`)
	headerNoiseRe    = regexp.MustCompile(`statement|account|balance|page|period|summary|\d{3}[-.]\d{3}[-.]\d{4}|www\.|\.com|p\.?o\.?\s*box`)
	nonNameCharsRe   = regexp.MustCompile(`^[\d\s|#*.:-]+$`)
)

func cleanHeaderName(s string) string {
	s = strings.TrimSpace(strings.Trim(s, ":-| "))
	if len(s) < 3 || len(s) > 80 {
		return ""
	}
	if nonNameCharsRe.MatchString(s) {
		return ""
	}
	return s
}

var filenameJunkRe = regexp.MustCompile(`(?i)\b(bank|statement|stmt|pdf|copy|final|scan(ned)?|\d{1,2}[-_.]\d{2,4}|20\d{2}|jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|jun(e)?|jul(y)?|aug(ust)?|sep(tember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)

// BusinessFromFilename recovers a holder name from the upload filename after
// stripping statement boilerplate and date fragments.
func BusinessFromFilename(filename string) string {
	if filename == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = filenameJunkRe.ReplaceAllString(base, " ")
	base = strings.Join(strings.Fields(base), " ")
	if len(base) < 3 {
		return ""
	}
	return titleCase(strings.ToLower(base))
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
