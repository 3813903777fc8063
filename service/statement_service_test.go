package service

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fundingdesk/ocr-underwriting/config"
	"github.com/fundingdesk/ocr-underwriting/dto"
)

func testExtractionConfig() config.ExtractionConfig {
	return config.ExtractionConfig{
		NativeMinCharsStatement:  1,
		DepositExclusionKeywords: []string{"zelle"},
		RevenueBest3States:       []string{"NY", "CA"},
	}
}

func adb(v float64) *float64 { return &v }

// stubPDF feeds canned native text through the acquirer.
type stubPDF struct{ text string }

func (s stubPDF) ExtractText([]byte) ([]string, error)              { return []string{s.text}, nil }
func (s stubPDF) ExtractWords([]byte) ([]dto.Word, error)           { return nil, nil }
func (s stubPDF) ExtractImages([]byte) ([]image.Image, error)       { return nil, nil }
func (s stubPDF) RasterizePages([]byte, int) ([]image.Image, error) { return nil, nil }

func TestSummarizeReportsStatementMonthBucketOnly(t *testing.T) {
	text := "First National Bank\n" +
		"Statement Period: 02/01/2024 - 02/29/2024\n" +
		"01/30/2024 ROLLOVER PAYMENT 300.00\n" +
		"01/31/2024 RENT -200.00\n" +
		"02/10/2024 ACME PAYMENT 400.00\n" +
		"02/12/2024 UTILITIES -80.00\n"
	acq := NewAcquirer(stubPDF{text: text}, nil, nil, config.OCRConfig{}, testExtractionConfig())
	svc := NewStatementService(acq, testExtractionConfig())

	res, err := svc.Summarize(context.Background(), []byte("pdf"), "feb.pdf", AcquireOptions{})

	assert.NoError(t, err)
	assert.Equal(t, "2024-02", res.Summary.StatementMonth)
	// Trailing prior-month lines must not inflate the statement month.
	assert.Equal(t, 1, res.Summary.DebitCount)
	assert.Equal(t, 1, res.Summary.CreditCount)
	assert.Equal(t, 400.0, res.Summary.MonthlyDeposits)
	assert.Len(t, res.Transactions, 4)
}

func TestSummarizeFallsBackToLatestTxnMonth(t *testing.T) {
	// Mislabelled header: the period says March but every transaction is in
	// February, so the counts come from the latest transaction's month.
	text := "Statement Period: 03/01/2024 - 03/31/2024\n" +
		"02/10/2024 ACME PAYMENT 400.00\n" +
		"02/12/2024 UTILITIES -80.00\n"
	acq := NewAcquirer(stubPDF{text: text}, nil, nil, config.OCRConfig{}, testExtractionConfig())
	svc := NewStatementService(acq, testExtractionConfig())

	res, err := svc.Summarize(context.Background(), []byte("pdf"), "mar.pdf", AcquireOptions{})

	assert.NoError(t, err)
	assert.Equal(t, "2024-03", res.Summary.StatementMonth)
	assert.Equal(t, 1, res.Summary.DebitCount)
	assert.Equal(t, 1, res.Summary.CreditCount)
	assert.Equal(t, 400.0, res.Summary.MonthlyDeposits)
}

func TestAggregateRevenueRuleByState(t *testing.T) {
	svc := NewStatementService(nil, testExtractionConfig())

	results := []StatementResult{
		{
			Summary: dto.StatementSummary{
				NegativeEndingDays: 2, DebitCount: 10, CreditCount: 5,
				AverageDailyBalance: adb(200),
			},
			MonthlyDeposits: map[string]float64{"2024-01": 250, "2024-02": 200},
		},
		{
			Summary: dto.StatementSummary{
				NegativeEndingDays: 3, DebitCount: 8, CreditCount: 4,
				AverageDailyBalance: adb(200),
			},
			MonthlyDeposits: map[string]float64{"2024-03": 150, "2024-04": 50},
		},
	}

	agg := svc.Aggregate(results, "NY")

	assert.Equal(t, 5, agg.NegativeDays)
	assert.Equal(t, 18, agg.DebitCount)
	assert.Equal(t, 9, agg.CreditCount)
	assert.Len(t, agg.MonthlyDeposits, 4)
	if assert.NotNil(t, agg.AverageRevenue) {
		assert.Equal(t, 200.0, *agg.AverageRevenue)
	}
	assert.Equal(t, "average of best 3 months (NY)", agg.AvgRevenueRule)
	if assert.NotNil(t, agg.AverageDailyBalance) {
		assert.Equal(t, 200.0, *agg.AverageDailyBalance)
	}

	agg = svc.Aggregate(results, "NJ")
	if assert.NotNil(t, agg.AverageRevenue) {
		assert.Equal(t, 162.5, *agg.AverageRevenue)
	}
	assert.Equal(t, "average of all months (NJ)", agg.AvgRevenueRule)
}

func TestAggregateAveragesPerStatementBalances(t *testing.T) {
	svc := NewStatementService(nil, testExtractionConfig())

	// Unequal statement lengths: the mean of per-statement averages, not a
	// day-weighted pool over all balances.
	results := []StatementResult{
		{
			Summary:       dto.StatementSummary{AverageDailyBalance: adb(100)},
			DailyBalances: map[string]float64{"2024-01-01": 100, "2024-01-02": 100},
		},
		{
			Summary:       dto.StatementSummary{AverageDailyBalance: adb(400)},
			DailyBalances: map[string]float64{"2024-02-01": 400},
		},
	}

	agg := svc.Aggregate(results, "")

	if assert.NotNil(t, agg.AverageDailyBalance) {
		assert.Equal(t, 250.0, *agg.AverageDailyBalance)
	}
}

func TestAggregateMergesSameMonthAcrossStatements(t *testing.T) {
	svc := NewStatementService(nil, testExtractionConfig())

	results := []StatementResult{
		{MonthlyDeposits: map[string]float64{"2024-01": 100}},
		{MonthlyDeposits: map[string]float64{"2024-01": 50.25}},
	}

	agg := svc.Aggregate(results, "")

	assert.Equal(t, map[string]float64{"2024-01": 150.25}, agg.MonthlyDeposits)
}

func TestAggregateEmpty(t *testing.T) {
	svc := NewStatementService(nil, testExtractionConfig())

	agg := svc.Aggregate(nil, "NY")

	assert.Nil(t, agg.AverageRevenue)
	assert.Nil(t, agg.AverageDailyBalance)
	assert.Empty(t, agg.MonthlyDeposits)
}
