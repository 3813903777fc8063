package dto

import "github.com/rotisserie/eris"

// The only failures the engine propagates to callers. Everything below the
// acquisition layer degrades to empty values instead of erroring.
var (
	// ErrEmptyDocument means the upload had no bytes at all.
	ErrEmptyDocument = eris.New("document: empty upload")
	// ErrUnreadableDocument means no engine could pull any text out of the
	// bytes. Distinct from a readable document where no fields matched.
	ErrUnreadableDocument = eris.New("document: unreadable PDF")
)

// ErrorResponse is the structured error payload for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ApplicationExtractResponse wraps an application extraction result.
type ApplicationExtractResponse struct {
	RequestID string `json:"request_id"`
	ApplicationExtraction
	ProcessedAt string `json:"processed_at"`
}

// StatementSummarizeResponse wraps a single-statement summary with the full
// reconstructed ledger.
type StatementSummarizeResponse struct {
	RequestID     string             `json:"request_id"`
	Summary       StatementSummary   `json:"summary"`
	DailyBalances map[string]float64 `json:"daily_balances"`
	Transactions  []Txn              `json:"transactions"`
	ProcessedAt   string             `json:"processed_at"`
}

// StatementAggregateResponse wraps a multi-statement batch: per-statement
// summaries plus the merged revenue block.
type StatementAggregateResponse struct {
	RequestID    string             `json:"request_id"`
	PerStatement []StatementSummary `json:"per_statement"`
	Aggregate    StatementAggregate `json:"aggregate"`
	ProcessedAt  string             `json:"processed_at"`
}
