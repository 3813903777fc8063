package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRebuildDailyBalancesCoversQuietDays(t *testing.T) {
	opening := 100.0
	period := dto.Period{Month: "2024-03", Start: day(2024, 3, 1), End: day(2024, 3, 5)}
	txns := []dto.Txn{{Date: day(2024, 3, 2), Description: "RENT", Amount: -150}}

	daily := RebuildDailyBalances(txns, &opening, period)

	assert.Len(t, daily, 5)
	assert.Equal(t, 100.0, daily["2024-03-01"])
	assert.Equal(t, -50.0, daily["2024-03-02"])
	// Carried forward through days with no activity.
	assert.Equal(t, -50.0, daily["2024-03-05"])
	assert.Equal(t, 4, CountNegativeDays(daily))
}

func TestRebuildDailyBalancesNoTransactions(t *testing.T) {
	// A negative opening balance with no activity is negative every day of
	// the period.
	opening := -50.0
	period := dto.Period{Month: "2024-03", Start: day(2024, 3, 1), End: day(2024, 3, 5)}

	daily := RebuildDailyBalances(nil, &opening, period)

	assert.Len(t, daily, 5)
	assert.Equal(t, 5, CountNegativeDays(daily))
}

func TestRebuildDailyBalancesNoPeriodNoTxns(t *testing.T) {
	assert.Empty(t, RebuildDailyBalances(nil, nil, dto.Period{}))
}

func TestAverageDailyBalance(t *testing.T) {
	daily := map[string]float64{
		"2024-03-01": 100, "2024-03-02": -50, "2024-03-03": -50,
		"2024-03-04": -50, "2024-03-05": -50,
	}

	avg := AverageDailyBalance(daily)
	if assert.NotNil(t, avg) {
		assert.Equal(t, -20.0, *avg)
	}

	assert.Nil(t, AverageDailyBalance(map[string]float64{}))
}

func TestDetectPositionsWeekly(t *testing.T) {
	var txns []dto.Txn
	for _, d := range []int{1, 8, 15, 22} {
		txns = append(txns, dto.Txn{Date: day(2024, 1, d), Description: "DAILYPAY FUNDING 9912", Amount: -120})
	}

	daily, weekly := DetectPositions(txns)

	assert.Empty(t, daily)
	assert.Equal(t, []string{"dailypay funding"}, weekly)
}

func TestDetectPositionsDaily(t *testing.T) {
	var txns []dto.Txn
	for d := 4; d <= 8; d++ {
		txns = append(txns, dto.Txn{Date: day(2024, 1, d), Description: "BRIGIT MEMBERSHIP", Amount: -9.99})
	}

	daily, weekly := DetectPositions(txns)

	assert.Equal(t, []string{"brigit membership"}, daily)
	assert.Empty(t, weekly)
}

func TestDetectPositionsRejectsIrregularGaps(t *testing.T) {
	var txns []dto.Txn
	for _, d := range []int{1, 21, 41, 61} {
		txns = append(txns, dto.Txn{Date: day(2024, 1, 1).AddDate(0, 0, d), Description: "ONDECK CAPITAL", Amount: -300})
	}

	daily, weekly := DetectPositions(txns)

	assert.Empty(t, daily)
	assert.Empty(t, weekly)
}

func TestDetectPositionsSkipsGenericDescriptions(t *testing.T) {
	var txns []dto.Txn
	for _, d := range []int{1, 8, 15} {
		txns = append(txns, dto.Txn{Date: day(2024, 1, d), Description: "DEPOSIT", Amount: 500})
	}

	daily, weekly := DetectPositions(txns)

	assert.Empty(t, daily)
	assert.Empty(t, weekly)
}

func TestComputeMonthlyCountsAndDeposits(t *testing.T) {
	txns := []dto.Txn{
		{Date: day(2024, 1, 5), Description: "ACME PAYMENT", Amount: 1000},
		{Date: day(2024, 1, 6), Description: "Zelle payment from John", Amount: 500},
		{Date: day(2024, 1, 7), Description: "RENT", Amount: -200},
		{Date: day(2024, 2, 2), Description: "ACME PAYMENT", Amount: 750},
	}

	debits, credits, monthly := ComputeMonthlyCountsAndDeposits(txns, []string{"zelle"})

	assert.Equal(t, map[string]int{"2024-01": 1}, debits)
	// Excluded credits still count as credits; exclusion only affects the
	// deposit sums.
	assert.Equal(t, map[string]int{"2024-01": 2, "2024-02": 1}, credits)
	assert.Equal(t, map[string]float64{"2024-01": 1000, "2024-02": 750}, monthly)
}

func TestMonthlyCountsBucketedByMonth(t *testing.T) {
	// A ledger spilling across months must not inflate any single month's
	// counts.
	txns := []dto.Txn{
		{Date: day(2024, 1, 30), Description: "RENT", Amount: -200},
		{Date: day(2024, 1, 31), Description: "ACME PAYMENT", Amount: 300},
		{Date: day(2024, 2, 10), Description: "UTILITIES", Amount: -80},
		{Date: day(2024, 2, 11), Description: "ACME PAYMENT", Amount: 400},
	}

	debits, credits, _ := ComputeMonthlyCountsAndDeposits(txns, nil)

	assert.Equal(t, 1, debits["2024-02"])
	assert.Equal(t, 1, credits["2024-02"])
	assert.Equal(t, 1, debits["2024-01"])
	assert.Equal(t, 1, credits["2024-01"])
}

func TestLatestTxnMonth(t *testing.T) {
	txns := []dto.Txn{
		{Date: day(2024, 2, 11), Description: "ACME PAYMENT", Amount: 400},
		{Date: day(2024, 1, 30), Description: "RENT", Amount: -200},
	}

	assert.Equal(t, "2024-02", LatestTxnMonth(txns))
	assert.Empty(t, LatestTxnMonth(nil))
}
