package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/config"
	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/utils/statement"
)

// StatementResult is one summarized statement plus the intermediate artifacts
// the aggregate endpoint needs.
type StatementResult struct {
	Summary         dto.StatementSummary
	DailyBalances   map[string]float64
	Transactions    []dto.Txn
	MonthlyDeposits map[string]float64
}

// StatementService reconstructs a transaction ledger from a bank statement
// and derives the underwriting metrics.
type StatementService struct {
	acquirer *Acquirer
	extCfg   config.ExtractionConfig
}

func NewStatementService(acquirer *Acquirer, extCfg config.ExtractionConfig) *StatementService {
	return &StatementService{acquirer: acquirer, extCfg: extCfg}
}

// Summarize parses one statement end to end: header identity, period,
// ledger, reconstructed daily balances, recurring positions, and monthly
// deposit totals.
func (s *StatementService) Summarize(ctx context.Context, data []byte, filename string, opts AcquireOptions) (StatementResult, error) {
	acq, err := s.acquirer.Acquire(ctx, data, DocStatement, opts)
	if err != nil {
		return StatementResult{}, err
	}
	lines := acq.Lines

	period := statement.ExtractPeriod(lines, filename)
	closingYear := 0
	if !period.End.IsZero() {
		closingYear = period.End.Year()
	}

	txns := statement.ParseTransactions(lines, closingYear)
	opening := statement.OpeningBalance(lines)
	daily := statement.RebuildDailyBalances(txns, opening, period)
	posDaily, posWeekly := statement.DetectPositions(txns)
	debitsByMonth, creditsByMonth, monthly := statement.ComputeMonthlyCountsAndDeposits(txns, s.extCfg.DepositExclusionKeywords)

	// The summary reports the statement month's bucket only; when the
	// labelled month has no activity at all (mislabelled header, yearless
	// dates) the latest transaction's month stands in.
	monthKey := period.Month
	if debitsByMonth[monthKey] == 0 && creditsByMonth[monthKey] == 0 {
		if mk := statement.LatestTxnMonth(txns); mk != "" {
			monthKey = mk
		}
	}

	summary := dto.StatementSummary{
		BusinessName:        statement.ExtractBusinessName(lines, filename),
		AccountNumber:       statement.ExtractAccountNumber(lines),
		BankName:            statement.ExtractBankName(lines),
		StatementMonth:      period.Month,
		DebitCount:          debitsByMonth[monthKey],
		CreditCount:         creditsByMonth[monthKey],
		NegativeEndingDays:  statement.CountNegativeDays(daily),
		AverageDailyBalance: statement.AverageDailyBalance(daily),
		MonthlyDeposits:     monthly[monthKey],
		PositionsDaily:      posDaily,
		PositionsWeekly:     posWeekly,
		SourceFile:          filename,
	}

	zap.L().Info("statement summarized",
		zap.String("file", filename),
		zap.String("month", period.Month),
		zap.String("source", acq.Source),
		zap.Int("transactions", len(txns)),
		zap.Int("negative_days", summary.NegativeEndingDays))

	return StatementResult{
		Summary:         summary,
		DailyBalances:   daily,
		Transactions:    txns,
		MonthlyDeposits: monthly,
	}, nil
}

// Aggregate merges several summarized statements for one applicant and
// applies the jurisdiction-conditional revenue selection rule.
func (s *StatementService) Aggregate(results []StatementResult, state string) dto.StatementAggregate {
	agg := dto.StatementAggregate{MonthlyDeposits: map[string]float64{}}

	// The aggregate balance is the mean of per-statement averages, not a
	// day-weighted pool, so a short statement counts as much as a long one.
	var adbSum float64
	var adbN int
	for _, r := range results {
		for m, v := range r.MonthlyDeposits {
			agg.MonthlyDeposits[m] = math.Round((agg.MonthlyDeposits[m]+v)*100) / 100
		}
		agg.NegativeDays += r.Summary.NegativeEndingDays
		agg.DebitCount += r.Summary.DebitCount
		agg.CreditCount += r.Summary.CreditCount
		if r.Summary.AverageDailyBalance != nil {
			adbSum += *r.Summary.AverageDailyBalance
			adbN++
		}
	}
	if adbN > 0 {
		avg := math.Round(adbSum/float64(adbN)*100) / 100
		agg.AverageDailyBalance = &avg
	}

	agg.AverageRevenue = statement.PickAvgRevenue(agg.MonthlyDeposits, state, s.extCfg.RevenueBest3States)
	agg.AvgRevenueRule = statement.RevenueRule(state, s.extCfg.RevenueBest3States)
	return agg
}
