package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fundingdesk/ocr-underwriting/config"
	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/service"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	acquirer := service.NewAcquirer(nil, nil, nil, config.OCRConfig{}, config.ExtractionConfig{})
	apps := service.NewApplicationService(acquirer, 0, 0)
	stmts := service.NewStatementService(acquirer, config.ExtractionConfig{})

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/applications/extract", NewApplicationHandler(apps).Extract)
	v1.POST("/statements/summarize", NewStatementHandler(stmts).Summarize)
	v1.POST("/statements/aggregate", NewStatementHandler(stmts).Aggregate)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		assert.NoError(t, err)
		_, err = fw.Write(content)
		assert.NoError(t, err)
	}
	for k, v := range extra {
		assert.NoError(t, w.WriteField(k, v))
	}
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestExtractMissingDocument(t *testing.T) {
	r := testRouter()
	body, contentType := multipartBody(t, "", "", nil, map[string]string{"note": "no file"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_document", resp.Error)
}

func TestExtractEmptyDocument(t *testing.T) {
	r := testRouter()
	body, contentType := multipartBody(t, "document", "empty.pdf", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_document", resp.Error)
}

func TestExtractRejectsBadHints(t *testing.T) {
	r := testRouter()
	body, contentType := multipartBody(t, "document", "doc.pdf", []byte("%PDF-"), map[string]string{"dpi": "10000"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_hints", resp.Error)
}

func TestAggregateRequiresDocuments(t *testing.T) {
	r := testRouter()
	body, contentType := multipartBody(t, "", "", nil, map[string]string{"state": "NY"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/aggregate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_documents", resp.Error)
}

func TestSummarizeEmptyDocument(t *testing.T) {
	r := testRouter()
	body, contentType := multipartBody(t, "document", "empty.pdf", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/summarize", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_document", resp.Error)
}
