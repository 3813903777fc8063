package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/service"
)

// StatementHandler serves the bank statement endpoints.
type StatementHandler struct {
	stmts *service.StatementService
}

func NewStatementHandler(stmts *service.StatementService) *StatementHandler {
	return &StatementHandler{stmts: stmts}
}

// Summarize handles POST /api/v1/statements/summarize: one statement PDF in,
// the summary plus the full reconstructed ledger out.
func (h *StatementHandler) Summarize(c *gin.Context) {
	requestID := uuid.New().String()
	start := time.Now()

	data, filename, ok := readUpload(c, "document")
	if !ok {
		return
	}
	hints, ok := readHints(c)
	if !ok {
		return
	}

	result, err := h.stmts.Summarize(c.Request.Context(), data, filename,
		service.AcquireOptions{DPI: hints.DPI, PageSegMode: hints.PageSegMode})
	if err != nil {
		writeError(c, requestID, err)
		return
	}

	zap.L().Info("statement summarize served",
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, dto.StatementSummarizeResponse{
		RequestID:     requestID,
		Summary:       result.Summary,
		DailyBalances: result.DailyBalances,
		Transactions:  result.Transactions,
		ProcessedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Aggregate handles POST /api/v1/statements/aggregate: several statement
// PDFs under "documents" plus an optional "state" field steering the revenue
// rule. Statements are processed in upload order; one unreadable statement
// fails the batch.
func (h *StatementHandler) Aggregate(c *gin.Context) {
	requestID := uuid.New().String()
	start := time.Now()

	form, err := c.MultipartForm()
	if err != nil || len(form.File["documents"]) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "missing_documents",
			Message: "multipart field documents requires at least one PDF",
			Code:    http.StatusBadRequest,
		})
		return
	}
	hints, ok := readHints(c)
	if !ok {
		return
	}
	state := c.PostForm("state")
	opts := service.AcquireOptions{DPI: hints.DPI, PageSegMode: hints.PageSegMode}

	var results []service.StatementResult
	var summaries []dto.StatementSummary
	for _, fh := range form.File["documents"] {
		data, err := readFileHeader(fh)
		if err != nil {
			writeError(c, requestID, err)
			return
		}
		res, err := h.stmts.Summarize(c.Request.Context(), data, fh.Filename, opts)
		if err != nil {
			writeError(c, requestID, err)
			return
		}
		results = append(results, res)
		summaries = append(summaries, res.Summary)
	}

	agg := h.stmts.Aggregate(results, state)

	zap.L().Info("statement aggregate served",
		zap.String("request_id", requestID),
		zap.Int("statements", len(results)),
		zap.String("state", state),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, dto.StatementAggregateResponse{
		RequestID:    requestID,
		PerStatement: summaries,
		Aggregate:    agg,
		ProcessedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
