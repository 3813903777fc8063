// Package handler wires the extraction services to the HTTP surface.
package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/service"
)

// ApplicationHandler serves the loan application extraction endpoint.
type ApplicationHandler struct {
	apps *service.ApplicationService
}

func NewApplicationHandler(apps *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// Extract handles POST /api/v1/applications/extract. Multipart form with a
// "document" PDF plus optional "dpi" and "psm" OCR hints.
func (h *ApplicationHandler) Extract(c *gin.Context) {
	requestID := uuid.New().String()
	start := time.Now()

	data, _, ok := readUpload(c, "document")
	if !ok {
		return
	}
	hints, ok := readHints(c)
	if !ok {
		return
	}

	result, err := h.apps.Extract(c.Request.Context(), data,
		service.AcquireOptions{DPI: hints.DPI, PageSegMode: hints.PageSegMode})
	if err != nil {
		writeError(c, requestID, err)
		return
	}

	zap.L().Info("application extracted",
		zap.String("request_id", requestID),
		zap.String("source", result.Source),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, dto.ApplicationExtractResponse{
		RequestID:             requestID,
		ApplicationExtraction: result,
		ProcessedAt:           time.Now().UTC().Format(time.RFC3339),
	})
}

// readUpload pulls one uploaded PDF out of the multipart form. A missing part
// is a 400; the error response is already written on failure.
func readUpload(c *gin.Context, field string) (data []byte, filename string, ok bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "missing_document",
			Message: "multipart field " + field + " is required",
			Code:    http.StatusBadRequest,
		})
		return nil, "", false
	}
	data, err = readFileHeader(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "unreadable_upload",
			Message: eris.ToString(err, false),
			Code:    http.StatusBadRequest,
		})
		return nil, "", false
	}
	return data, fh.Filename, true
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, eris.Wrap(err, "handler: open upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "handler: read upload")
	}
	return data, nil
}

func readHints(c *gin.Context) (dto.ExtractionHints, bool) {
	var hints dto.ExtractionHints
	if err := c.ShouldBind(&hints); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_hints",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return hints, false
	}
	if err := hints.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_hints",
			Message: eris.ToString(err, false),
			Code:    http.StatusBadRequest,
		})
		return hints, false
	}
	return hints, true
}

// writeError maps the engine's error taxonomy onto status codes.
func writeError(c *gin.Context, requestID string, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, dto.ErrEmptyDocument):
		status = http.StatusBadRequest
		code = "empty_document"
	case errors.Is(err, dto.ErrUnreadableDocument):
		status = http.StatusUnprocessableEntity
		code = "unreadable_document"
	}

	zap.L().Error("request failed",
		zap.String("request_id", requestID),
		zap.String("code", code),
		zap.Error(err))

	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: eris.ToString(err, false),
		Code:    status,
	})
}
