package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	avgDaysPerMonth = 30.4375
	avgDaysPerYear  = 365.25
)

var tibGateTokens = []string{
	"time in business", "years in business", "length of ownership",
	"owner since", "in business", "established", "business start",
	"date business started", "ownership",
}

var (
	yearsMonthsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:years?|yrs?)\s*(?:and\s*)?(\d{1,2})\s*(?:months?|mos?)\b`)
	monthsOnlyRe  = regexp.MustCompile(`(?i)\b(\d{1,3}(?:\.\d+)?)\s*(?:months?|mos?)\b`)
	yearsOnlyRe   = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*(?:years?|yrs?)\b`)
	foundedYearRe = regexp.MustCompile(`(?i)\b(estab\w*|since|started)\s*(?:in\s*)?(\d{4})\b`)

	dateTokenRe = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})\b`)

	parenYearsRe = regexp.MustCompile(`\((\d+(?:\.\d+)?)\s*years?\)`)
)

// DurationParser turns time-in-business phrasing into a normalized
// "months (years)" value. Now is injectable so date-anchored durations are
// testable.
type DurationParser struct {
	Now func() time.Time
}

func (p DurationParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Extract parses a window into "M.M months (Y.YY years)". The window must
// mention a time-in-business phrase at all; bare numbers elsewhere in a form
// are too ambiguous to trust.
func (p DurationParser) Extract(window string) string {
	low := strings.ToLower(window)
	gated := false
	for _, tok := range tibGateTokens {
		if strings.Contains(low, tok) {
			gated = true
			break
		}
	}
	if !gated {
		return ""
	}

	if m := yearsMonthsRe.FindStringSubmatch(window); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		months := float64(y)*12 + float64(mo)
		return formatDuration(months)
	}
	if m := monthsOnlyRe.FindStringSubmatch(window); m != nil {
		months, err := strconv.ParseFloat(m[1], 64)
		if err == nil && months > 0 {
			return formatDuration(months)
		}
	}
	if m := yearsOnlyRe.FindStringSubmatch(window); m != nil {
		years, err := strconv.ParseFloat(m[1], 64)
		if err == nil && years > 0 {
			return formatDuration(years * 12)
		}
	}
	if v := p.fromEarliestDate(window); v != "" {
		return v
	}
	if m := foundedYearRe.FindStringSubmatch(window); m != nil {
		if y, err := strconv.Atoi(m[2]); err == nil {
			now := p.now()
			if y > 1900 && y <= now.Year() {
				start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
				days := now.Sub(start).Hours() / 24
				if days > 0 {
					return formatDuration(days / avgDaysPerMonth)
				}
			}
		}
	}
	return ""
}

// fromEarliestDate treats the earliest plausible dated token in the window as
// the business start date.
func (p DurationParser) fromEarliestDate(window string) string {
	now := p.now()
	var earliest time.Time
	for _, tok := range dateTokenRe.FindAllString(window, -1) {
		t, err := dateparse.ParseAny(tok)
		if err != nil {
			continue
		}
		if t.Year() <= 1900 || t.After(now) {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	if earliest.IsZero() {
		return ""
	}
	days := now.Sub(earliest).Hours() / 24
	if days <= 0 {
		return ""
	}
	return formatDuration(days / avgDaysPerMonth)
}

func formatDuration(months float64) string {
	return fmt.Sprintf("%.1f months (%.2f years)", months, months*avgDaysPerMonth/avgDaysPerYear)
}

// LengthMonths recovers the numeric month count from a formatted duration
// value, for the machine-readable field alongside the display string.
func LengthMonths(value string) *float64 {
	if m := monthsOnlyRe.FindStringSubmatch(value); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	if m := parenYearsRe.FindStringSubmatch(value); m != nil {
		if y, err := strconv.ParseFloat(m[1], 64); err == nil {
			v := y * 12
			return &v
		}
	}
	if m := yearsOnlyRe.FindStringSubmatch(value); m != nil {
		if y, err := strconv.ParseFloat(m[1], 64); err == nil {
			v := y * 12
			return &v
		}
	}
	return nil
}
