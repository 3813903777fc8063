package dto

import "time"

// UnknownMonth is the sentinel used when no statement period is detectable.
const UnknownMonth = "unknown"

// Txn is one reconstructed transaction line. Immutable after construction;
// sequences are always sorted by (date, description).
type Txn struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Balance     *float64  `json:"balance,omitempty"`
}

// Period is the statement coverage window, inclusive on both ends.
// Month is the YYYY-MM label derived from the closing date.
type Period struct {
	Month string
	Start time.Time
	End   time.Time
}

// StatementSummary aggregates one statement: header identity, the statement
// month's activity counts, balance-derived metrics, and recurring positions.
type StatementSummary struct {
	BusinessName        string   `json:"business_name,omitempty"`
	AccountNumber       string   `json:"account_number,omitempty"`
	BankName            string   `json:"bank_name,omitempty"`
	StatementMonth      string   `json:"statement_month"`
	DebitCount          int      `json:"debit_count"`
	CreditCount         int      `json:"credit_count"`
	NegativeEndingDays  int      `json:"negative_ending_days"`
	AverageDailyBalance *float64 `json:"average_daily_balance,omitempty"`
	MonthlyDeposits     float64  `json:"monthly_deposits_excl_keywords"`
	PositionsDaily      []string `json:"positions_daily"`
	PositionsWeekly     []string `json:"positions_weekly"`
	SourceFile          string   `json:"source_file,omitempty"`
}

// StatementAggregate merges metrics across several statements of one applicant
// and applies the jurisdiction-conditional revenue selection rule.
type StatementAggregate struct {
	MonthlyDeposits     map[string]float64 `json:"monthly_deposits"`
	AverageRevenue      *float64           `json:"average_revenue,omitempty"`
	AvgRevenueRule      string             `json:"avg_revenue_rule,omitempty"`
	NegativeDays        int                `json:"aggregate_negative_days"`
	DebitCount          int                `json:"aggregate_debit_count"`
	CreditCount         int                `json:"aggregate_credit_count"`
	AverageDailyBalance *float64           `json:"average_daily_balance,omitempty"`
}
