// Package statement parses bank statement text into a transaction ledger and
// derives the balance and cash-flow metrics underwriting runs on.
package statement

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

const (
	moneyTokPat = `\(?-?\$?\d{1,3}(?:,\d{3})*\.\d{2}\)?-?`
	dateTokPat  = `\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?`

	openingScanLines = 120
	closingScanLines = 200
)

var (
	// Plain grammar: DATE DESCRIPTION AMOUNT [RUNNING-BALANCE]
	txnLineRe = regexp.MustCompile(`^(` + dateTokPat + `)\s+(.+?)\s+(` + moneyTokPat + `)(?:\s+(` + moneyTokPat + `))?$`)
	// CR/DR grammar: DATE DESCRIPTION AMOUNT CR|DR [RUNNING-BALANCE]
	txnCRDRRe = regexp.MustCompile(`(?i)^(` + dateTokPat + `)\s+(.+?)\s+(` + moneyTokPat + `)\s*(CR|DR)(?:\s+(` + moneyTokPat + `))?$`)

	openingRe = regexp.MustCompile(`(?i)(?:beginning|opening)\s+(?:ledger\s+)?balance[^\d($-]*(` + moneyTokPat + `)`)
	closingRe = regexp.MustCompile(`(?i)(?:ending|closing)\s+(?:ledger\s+)?balance[^\d($-]*(` + moneyTokPat + `)`)

	mdyRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?$`)
)

// ParseMoney converts a statement money token to a float. Parentheses and a
// leading or trailing minus both mean negative.
func ParseMoney(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		neg = true
		tok = tok[1 : len(tok)-1]
	}
	if strings.HasSuffix(tok, "-") {
		neg = true
		tok = tok[:len(tok)-1]
	}
	tok = strings.TrimPrefix(tok, "-")
	if !neg && strings.HasPrefix(strings.TrimPrefix(tok, "$"), "-") {
		neg = true
	}
	tok = strings.ReplaceAll(tok, "$", "")
	tok = strings.ReplaceAll(tok, ",", "")
	tok = strings.TrimPrefix(tok, "-")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// OpeningBalance scans the top of the statement for a labelled beginning
// balance. Nil when absent.
func OpeningBalance(lines []string) *float64 {
	for _, ln := range lines[:min(len(lines), openingScanLines)] {
		if m := openingRe.FindStringSubmatch(ln); m != nil {
			if v, ok := ParseMoney(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

// ClosingBalance scans the bottom of the statement for a labelled ending
// balance. Nil when absent.
func ClosingBalance(lines []string) *float64 {
	start := max(0, len(lines)-closingScanLines)
	for i := len(lines) - 1; i >= start; i-- {
		if m := closingRe.FindStringSubmatch(lines[i]); m != nil {
			if v, ok := ParseMoney(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

// parseTxnDate resolves a transaction date token. Tokens without a year
// inherit the statement's closing year; 2-digit years are read as 2000+YY.
func parseTxnDate(tok string, closingYear int) (time.Time, bool) {
	m := mdyRe.FindStringSubmatch(tok)
	if m == nil {
		return time.Time{}, false
	}
	mo, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := closingYear
	if m[3] != "" {
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		year = y
	}
	if year == 0 {
		year = time.Now().Year()
	}
	t := time.Date(year, time.Month(mo), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(mo) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseTransactions reads every line matching either transaction grammar and
// returns the ledger sorted by date, then description, so downstream metrics
// are deterministic. closingYear anchors yearless dates; pass 0 to fall back
// to the current year.
func ParseTransactions(lines []string, closingYear int) []dto.Txn {
	var txns []dto.Txn
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if m := txnCRDRRe.FindStringSubmatch(ln); m != nil {
			t, ok := parseTxnDate(m[1], closingYear)
			if !ok {
				continue
			}
			amt, ok := ParseMoney(m[3])
			if !ok {
				continue
			}
			if strings.EqualFold(m[4], "DR") && amt > 0 {
				amt = -amt
			}
			txn := dto.Txn{Date: t, Description: strings.TrimSpace(m[2]), Amount: amt}
			if m[5] != "" {
				if bal, ok := ParseMoney(m[5]); ok {
					txn.Balance = &bal
				}
			}
			txns = append(txns, txn)
			continue
		}
		if m := txnLineRe.FindStringSubmatch(ln); m != nil {
			t, ok := parseTxnDate(m[1], closingYear)
			if !ok {
				continue
			}
			amt, ok := ParseMoney(m[3])
			if !ok {
				continue
			}
			txn := dto.Txn{Date: t, Description: strings.TrimSpace(m[2]), Amount: amt}
			if m[4] != "" {
				if bal, ok := ParseMoney(m[4]); ok {
					txn.Balance = &bal
				}
			}
			txns = append(txns, txn)
		}
	}
	sort.SliceStable(txns, func(a, b int) bool {
		if !txns[a].Date.Equal(txns[b].Date) {
			return txns[a].Date.Before(txns[b].Date)
		}
		return txns[a].Description < txns[b].Description
	})
	return txns
}
