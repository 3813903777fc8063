package application

import (
	"math"
	"regexp"
	"strings"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

var corpSuffixRe = regexp.MustCompile(`(?i)(,?\s+(INCORPORATED|INC\.?|LLC|L\.L\.C\.|LTD\.?|CO\.?|CO|CORP\.?|CORPORATION|PLC|LLP|L\.L\.P\.|PLLC|P\.L\.L\.C\.|PC|P\.C\.|PA|P\.A\.))+$`)

var bnLabelRe = regexp.MustCompile(`(?i)(?:legal\s+business\s+name|business\s+legal\s+name|business\s+name|company\s+name|corporate\s+name|legal\s+name\s+of\s+business|name\s+of\s+business)\s*[:\-]?\s*(.+)`)

var dbaRe = regexp.MustCompile(`(?i)\b(?:dba|d/b/a|doing\s+business\s+as)\s*[:\-]?\s*(.+)`)

// Tokens that end a business-name capture when a form crams several labels
// onto one row.
var bnStopTokens = []string{
	"dba", "d/b/a", "address", "city", "state", "zip", "phone", "tel", "fax",
	"email", "ein", "tax id", "federal", "ssn", "date", "industry", "owner",
	"contact", "website", "suite", "apt",
}

var bnStopWords = []string{
	"application", "statement", "funding", "merchant", "agreement", "signature",
	"page", "date", "amount", "total", "account",
}

var addressHintWords = []string{
	"street", "st.", "ave", "avenue", "blvd", "boulevard", "road", "rd.",
	"drive", "dr.", "lane", "ln.", "suite", "ste", "apt", "floor", "fl.",
	"p.o. box", "po box",
}

var (
	phoneRe  = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-\s]?\d{4}|\b\d{3}[-.]\d{3}[-.]\d{4}\b`)
	emailRe  = regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.]+\b`)
	digitRe  = regexp.MustCompile(`\d`)
	tokenRe  = regexp.MustCompile(`\S+`)
	letterRe = regexp.MustCompile(`[A-Za-z]`)
)

// HasCorpSuffix reports whether s ends in a corporate designator (LLC, Inc,
// Corp and friends).
func HasCorpSuffix(s string) bool {
	return corpSuffixRe.MatchString(strings.TrimSpace(s))
}

func isProbablyAddress(s string) bool {
	low := strings.ToLower(s)
	for _, w := range addressHintWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	if streetRe.MatchString(s) {
		return true
	}
	if phoneRe.MatchString(s) || emailRe.MatchString(s) {
		return true
	}
	return cityStateZipRe.MatchString(s)
}

// NameScore rates how business-name-like a candidate string is. Higher is
// better; anything at or below zero is rejected by callers.
func NameScore(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 120 {
		return -999
	}
	score := 0
	low := strings.ToLower(s)

	if isProbablyAddress(s) {
		score -= 5
	}
	for _, w := range bnStopWords {
		if strings.Contains(low, w) {
			score -= 2
		}
	}
	if HasCorpSuffix(s) {
		score += 5
	}
	toks := tokenRe.FindAllString(s, -1)
	if len(toks) >= 2 && len(toks) <= 6 {
		score += 2
	}
	if capWordRatio(toks) >= 0.7 {
		score += 2
	}
	if strings.Contains(s, " & ") || strings.Contains(s, " - ") {
		score++
	}
	if len(digitRe.FindAllString(s, -1)) >= 3 {
		score -= 2
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		score--
	}
	return score
}

func capWordRatio(toks []string) float64 {
	if len(toks) == 0 {
		return 0
	}
	capped := 0
	total := 0
	for _, t := range toks {
		if !letterRe.MatchString(t) {
			continue
		}
		total++
		r := rune(t[0])
		if r >= 'A' && r <= 'Z' {
			capped++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(capped) / float64(total)
}

// cleanBusinessName strips a leading label remnant, trailing punctuation, and
// truncates at the first embedded stop token.
func cleanBusinessName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ":-| ")
	low := strings.ToLower(s)
	cut := len(s)
	for _, tok := range bnStopTokens {
		if idx := strings.Index(low, " "+tok); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	s = strings.TrimSpace(s[:cut])
	s = strings.Trim(s, ".,:-| ")
	return s
}

func cleanAndClip(s string) string {
	s = cleanBusinessName(s)
	if len(s) > 120 {
		s = strings.TrimSpace(s[:120])
	}
	return s
}

// ExtractBusinessNameWindow extracts a business name from a resolver window.
// It prefers a label-capture, then any segment with a positive name score.
func ExtractBusinessNameWindow(win string) string {
	if m := bnLabelRe.FindStringSubmatch(win); m != nil {
		if v := cleanAndClip(m[1]); v != "" && NameScore(v) > 0 {
			return v
		}
	}
	bestVal := ""
	bestScore := 0
	for _, seg := range strings.Split(win, " | ") {
		v := cleanAndClip(seg)
		if v == "" {
			continue
		}
		if sc := NameScore(v); sc > bestScore {
			bestScore = sc
			bestVal = v
		}
	}
	return bestVal
}

// ExtractNameLayout uses word positions from the native PDF text layer. It
// looks to the right of a business-name label on the same visual row, then
// falls back to the largest-font word run near the top of the page. Y grows
// upward in PDF coordinates.
func ExtractNameLayout(words []dto.Word) (val, evidence string, boost float64, ok bool) {
	if len(words) == 0 {
		return "", "", 0, false
	}

	bands := map[int][]dto.Word{}
	maxY := 0.0
	for _, w := range words {
		band := int(math.Round(w.Y / 3))
		bands[band] = append(bands[band], w)
		if w.Y > maxY {
			maxY = w.Y
		}
	}

	labelPhrases := []string{"business name", "legal business name", "company name", "business legal name"}
	for _, row := range bands {
		rowText := strings.ToLower(joinWords(row))
		for _, lp := range labelPhrases {
			idx := strings.Index(rowText, lp)
			if idx < 0 {
				continue
			}
			labelEndX := labelEndXFor(row, lp)
			var right []string
			for _, w := range row {
				if w.X > labelEndX {
					right = append(right, w.Text)
				}
			}
			cand := cleanAndClip(strings.Join(right, " "))
			if cand != "" && NameScore(cand) > 0 {
				return cand, "[layout-row] " + joinWords(row), 0.18, true
			}
		}
	}

	// Largest-font run in the top quarter of the page; letterheads usually
	// carry the legal name.
	topCut := 0.75 * maxY
	bestSize := 0.0
	var bestRow []dto.Word
	for _, row := range bands {
		if len(row) == 0 || row[0].Y < topCut {
			continue
		}
		sz := 0.0
		for _, w := range row {
			if w.Size > sz {
				sz = w.Size
			}
		}
		if sz > bestSize {
			bestSize = sz
			bestRow = row
		}
	}
	if len(bestRow) > 0 {
		cand := cleanAndClip(joinWords(bestRow))
		if cand != "" && NameScore(cand) > 0 {
			return cand, "[layout-topfont] " + joinWords(bestRow), 0.10, true
		}
	}
	return "", "", 0, false
}

func joinWords(row []dto.Word) string {
	parts := make([]string, 0, len(row))
	for _, w := range row {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

func labelEndXFor(row []dto.Word, label string) float64 {
	toks := strings.Fields(label)
	last := toks[len(toks)-1]
	endX := 0.0
	for _, w := range row {
		if strings.EqualFold(strings.Trim(w.Text, ":.-"), last) && w.X > endX {
			endX = w.X
		}
	}
	return endX
}

// ExtractNameStronger scans the whole line list with a cascade of weaker
// signals, returning the candidate plus a confidence boost sized to how
// reliable the signal is.
func ExtractNameStronger(lines []string) (val, evidence string, boost float64, ok bool) {
	for i, ln := range lines {
		if m := bnLabelRe.FindStringSubmatch(ln); m != nil {
			if v := cleanAndClip(m[1]); v != "" && NameScore(v) > 0 {
				return v, ln, 0.10, true
			}
			// Value often sits on the following line on scanned forms.
			if i+1 < len(lines) {
				if v := cleanAndClip(lines[i+1]); v != "" && NameScore(v) > 0 {
					return v, ln + " | " + lines[i+1], 0.10, true
				}
			}
		}
	}

	for _, ln := range lines {
		if m := dbaRe.FindStringSubmatch(ln); m != nil {
			if v := cleanAndClip(m[1]); v != "" && NameScore(v) > 0 {
				return v, ln, 0.10, true
			}
		}
	}

	// The line directly above a street address is usually the addressee.
	for i := 1; i < len(lines); i++ {
		if streetRe.MatchString(lines[i]) {
			v := cleanAndClip(lines[i-1])
			if v != "" && NameScore(v) >= 2 {
				return v, lines[i-1] + " | " + lines[i], 0.08, true
			}
		}
	}

	bestVal, bestEv := "", ""
	bestScore := 1
	for _, ln := range lines[:min(len(lines), 20)] {
		v := cleanAndClip(ln)
		if v == "" {
			continue
		}
		if sc := NameScore(v); sc > bestScore {
			bestScore = sc
			bestVal, bestEv = v, ln
		}
	}
	if bestVal != "" && bestScore >= 2 {
		return bestVal, bestEv, 0.06, true
	}

	for _, ln := range lines[:min(len(lines), 40)] {
		v := cleanAndClip(ln)
		if v != "" && HasCorpSuffix(v) && NameScore(v) > 0 {
			return v, ln, 0.05, true
		}
	}

	return "", "", 0, false
}
