package statement

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// DayKey formats a date as a daily-balance map key.
func DayKey(t time.Time) string { return t.Format(dayKeyLayout) }

// MonthKey formats a date as a monthly-aggregate map key.
func MonthKey(t time.Time) string { return t.Format(monthKeyLayout) }

// RebuildDailyBalances carries the balance forward across every calendar day
// of the period, including days with no activity. With no explicit period the
// span of the ledger itself is used; with neither, the map is empty. A nil
// opening balance starts at zero.
func RebuildDailyBalances(txns []dto.Txn, opening *float64, period dto.Period) map[string]float64 {
	start, end := period.Start, period.End
	if start.IsZero() || end.IsZero() {
		if len(txns) == 0 {
			return map[string]float64{}
		}
		start, end = txns[0].Date, txns[0].Date
		for _, t := range txns {
			if t.Date.Before(start) {
				start = t.Date
			}
			if t.Date.After(end) {
				end = t.Date
			}
		}
	}

	perDay := map[string]float64{}
	for _, t := range txns {
		perDay[DayKey(t.Date)] += t.Amount
	}

	bal := 0.0
	if opening != nil {
		bal = *opening
	}
	out := map[string]float64{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		bal += perDay[key]
		out[key] = math.Round(bal*100) / 100
	}
	return out
}

// CountNegativeDays counts days the reconstructed ending balance is below
// zero.
func CountNegativeDays(daily map[string]float64) int {
	n := 0
	for _, v := range daily {
		if v < 0 {
			n++
		}
	}
	return n
}

// AverageDailyBalance is the mean of the reconstructed daily balances, nil
// when the map is empty.
func AverageDailyBalance(daily map[string]float64) *float64 {
	if len(daily) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range daily {
		sum += v
	}
	avg := math.Round(sum/float64(len(daily))*100) / 100
	return &avg
}

var (
	longDigitsRe = regexp.MustCompile(`\b\d{4,}\b`)
	descSepRe    = regexp.MustCompile(`[-/#*]+`)
)

// Descriptions too generic to identify a counterparty.
var genericDescs = map[string]bool{
	"deposit": true, "pos": true, "ach": true, "online transfer": true,
}

// normalizeDesc collapses a transaction description to a counterparty key:
// lowercase, long digit runs (reference numbers) removed, separators spaced.
func normalizeDesc(desc string) string {
	low := strings.ToLower(desc)
	low = longDigitsRe.ReplaceAllString(low, "")
	low = descSepRe.ReplaceAllString(low, " ")
	return strings.Join(strings.Fields(low), " ")
}

// DetectPositions classifies recurring counterparties by the median gap in
// days between their occurrences: daily when the median falls in [0.8,1.3],
// weekly in [5.5,8.5]. A counterparty needs at least three distinct dates to
// count. Each list is the top five names, sorted.
func DetectPositions(txns []dto.Txn) (daily, weekly []string) {
	byDesc := map[string]map[string]time.Time{}
	for _, t := range txns {
		key := normalizeDesc(t.Description)
		if len(key) < 4 || genericDescs[key] {
			continue
		}
		if byDesc[key] == nil {
			byDesc[key] = map[string]time.Time{}
		}
		byDesc[key][DayKey(t.Date)] = t.Date
	}

	for key, dates := range byDesc {
		if len(dates) < 3 {
			continue
		}
		sorted := make([]time.Time, 0, len(dates))
		for _, d := range dates {
			sorted = append(sorted, d)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

		gaps := make([]float64, 0, len(sorted)-1)
		for i := 1; i < len(sorted); i++ {
			gaps = append(gaps, sorted[i].Sub(sorted[i-1]).Hours()/24)
		}
		med := median(gaps)
		switch {
		case med >= 0.8 && med <= 1.3:
			daily = append(daily, key)
		case med >= 5.5 && med <= 8.5:
			weekly = append(weekly, key)
		}
	}

	sort.Strings(daily)
	sort.Strings(weekly)
	if len(daily) > 5 {
		daily = daily[:5]
	}
	if len(weekly) > 5 {
		weekly = weekly[:5]
	}
	return daily, weekly
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// ComputeMonthlyCountsAndDeposits buckets the ledger by (year, month):
// per-month debit and credit transaction counts, and per-month sums of credit
// amounts skipping credits whose description contains an excluded keyword
// (peer-to-peer transfers are not revenue). A statement whose ledger spills
// into adjacent months keeps each month's activity separate.
func ComputeMonthlyCountsAndDeposits(txns []dto.Txn, exclude []string) (debits, credits map[string]int, monthly map[string]float64) {
	debits = map[string]int{}
	credits = map[string]int{}
	monthly = map[string]float64{}
	for _, t := range txns {
		key := MonthKey(t.Date)
		if t.Amount < 0 {
			debits[key]++
			continue
		}
		if t.Amount == 0 {
			continue
		}
		credits[key]++
		low := strings.ToLower(t.Description)
		skip := false
		for _, kw := range exclude {
			if kw != "" && strings.Contains(low, strings.ToLower(kw)) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		monthly[key] = math.Round((monthly[key]+t.Amount)*100) / 100
	}
	return debits, credits, monthly
}

// LatestTxnMonth is the month key of the most recent transaction, empty for
// an empty ledger. Used when the labelled statement month has no activity
// bucket.
func LatestTxnMonth(txns []dto.Txn) string {
	var latest time.Time
	for _, t := range txns {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	if latest.IsZero() {
		return ""
	}
	return MonthKey(latest)
}
