package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

var (
	monthNamePat = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

	periodLabelRe = regexp.MustCompile(`(?i)(?:statement\s+period|statement\s+cycle|billing\s+period|for\s+the\s+period)\s*[:\-]?\s*(.+)`)
	wordedRangeRe = regexp.MustCompile(`(?i)(` + monthNamePat + `\.?\s+\d{1,2},?\s+\d{4})\s*(?:through|thru|to|[-–])\s*(` + monthNamePat + `\.?\s+\d{1,2},?\s+\d{4})`)
	numRangeRe    = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})\s*(?:through|thru|to|[-–])\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
	monthYearRe   = regexp.MustCompile(`(?i)(?:for|ending|statement\s+for)?\s*\b(` + monthNamePat + `)\.?,?\s+(\d{4})`)

	fileYMRe     = regexp.MustCompile(`(20\d{2})[-_.]?(0[1-9]|1[0-2])\b`)
	fileMonthRe  = regexp.MustCompile(`(?i)(` + monthNamePat + `)[a-z]*[-_. ]+(20\d{2})`)
	anyDateTokRe = regexp.MustCompile(`(?i)\b(?:\d{1,2}/\d{1,2}/\d{4}|` + monthNamePat + `\.?\s+\d{1,2},?\s+\d{4})\b`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func parseLoose(tok string) (time.Time, bool) {
	t, err := dateparse.ParseAny(strings.TrimSpace(tok))
	if err != nil || t.Year() < 1990 || t.Year() > 2100 {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func monthBounds(y int, m time.Month) (time.Time, time.Time) {
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// ExtractPeriod resolves the statement period, trying a labelled period line,
// then worded and numeric date ranges anywhere in the document, then a bare
// "Month YYYY" mention, then the latest dated token, and finally the upload
// filename. Month is the closing date's YYYY-MM; "unknown" when nothing
// resolves.
func ExtractPeriod(lines []string, filename string) dto.Period {
	for _, ln := range lines[:min(len(lines), 60)] {
		if m := periodLabelRe.FindStringSubmatch(ln); m != nil {
			if p, ok := rangeFrom(m[1]); ok {
				return p
			}
		}
	}

	joined := strings.Join(lines[:min(len(lines), 120)], " | ")
	if p, ok := rangeFrom(joined); ok {
		return p
	}

	if m := monthYearRe.FindStringSubmatch(joined); m != nil {
		if mo, ok := monthAbbrev[strings.ToLower(m[1])[:3]]; ok {
			if y, err := strconv.Atoi(m[2]); err == nil {
				start, end := monthBounds(y, mo)
				return dto.Period{Month: end.Format("2006-01"), Start: start, End: end}
			}
		}
	}

	var latest time.Time
	for _, tok := range anyDateTokRe.FindAllString(joined, -1) {
		if t, ok := parseLoose(tok); ok && t.After(latest) {
			latest = t
		}
	}
	if !latest.IsZero() {
		start, end := monthBounds(latest.Year(), latest.Month())
		return dto.Period{Month: end.Format("2006-01"), Start: start, End: end}
	}

	if p, ok := periodFromFilename(filename); ok {
		return p
	}
	return dto.Period{Month: dto.UnknownMonth}
}

func rangeFrom(s string) (dto.Period, bool) {
	var startTok, endTok string
	if m := wordedRangeRe.FindStringSubmatch(s); m != nil {
		startTok, endTok = m[1], m[2]
	} else if m := numRangeRe.FindStringSubmatch(s); m != nil {
		startTok, endTok = m[1], m[2]
	} else {
		return dto.Period{}, false
	}
	start, ok1 := parseLoose(startTok)
	end, ok2 := parseLoose(endTok)
	if !ok1 || !ok2 || end.Before(start) {
		return dto.Period{}, false
	}
	return dto.Period{Month: end.Format("2006-01"), Start: start, End: end}, true
}

func periodFromFilename(filename string) (dto.Period, bool) {
	if m := fileYMRe.FindStringSubmatch(filename); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		start, end := monthBounds(y, time.Month(mo))
		return dto.Period{Month: end.Format("2006-01"), Start: start, End: end}, true
	}
	if m := fileMonthRe.FindStringSubmatch(filename); m != nil {
		if mo, ok := monthAbbrev[strings.ToLower(m[1])[:3]]; ok {
			y, _ := strconv.Atoi(m[2])
			start, end := monthBounds(y, mo)
			return dto.Period{Month: end.Format("2006-01"), Start: start, End: end}, true
		}
	}
	return dto.Period{}, false
}
