package statement

import (
	"math"
	"sort"
	"strings"
)

// PickAvgRevenue selects the average monthly revenue from monthly deposit
// totals. For businesses in a best-3 state the average of the three highest
// months is used; everywhere else, the average of all months. Nil when there
// are no months at all.
func PickAvgRevenue(monthly map[string]float64, state string, best3States []string) *float64 {
	if len(monthly) == 0 {
		return nil
	}
	vals := make([]float64, 0, len(monthly))
	for _, v := range monthly {
		vals = append(vals, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))

	if isBest3State(state, best3States) && len(vals) > 3 {
		vals = vals[:3]
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	avg := math.Round(sum/float64(len(vals))*100) / 100
	return &avg
}

func isBest3State(state string, best3States []string) bool {
	for _, s := range best3States {
		if strings.EqualFold(s, state) {
			return true
		}
	}
	return false
}

// RevenueRule describes which selection rule applies, for the aggregate
// response.
func RevenueRule(state string, best3States []string) string {
	if isBest3State(state, best3States) {
		return "average of best 3 months (" + state + ")"
	}
	if state == "" {
		return "average of all months (state unknown)"
	}
	return "average of all months (" + state + ")"
}
