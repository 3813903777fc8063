package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

const paddleMinLineConfidence = 0.5

// PaddleClient is the secondary OCR engine, reached over the PaddleOCR REST
// API. It is only consulted when the primary engine yields too little text
// for a page, so the HTTP client behind it is constructed lazily exactly once
// and is safe to read concurrently afterwards.
type PaddleClient struct {
	apiURL string

	once sync.Once
	http *http.Client
}

func NewPaddleClient(apiURL string) *PaddleClient {
	return &PaddleClient{apiURL: apiURL}
}

func (p *PaddleClient) client() *http.Client {
	p.once.Do(func() {
		p.http = &http.Client{Timeout: 60 * time.Second}
	})
	return p.http
}

// RecognizeImage sends one page image to the PaddleOCR service and returns
// the recognized lines. Low-confidence lines are dropped.
func (p *PaddleClient) RecognizeImage(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", eris.Wrap(err, "paddle: encode page image")
	}

	payload, err := json.Marshal(map[string]any{
		"images": []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
	})
	if err != nil {
		return "", eris.Wrap(err, "paddle: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "paddle: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client().Do(req)
	if err != nil {
		return "", eris.Wrap(err, "paddle: API call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", eris.Errorf("paddle: API returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", eris.Wrap(err, "paddle: decode response")
	}

	var b strings.Builder
	for _, page := range result.Results {
		for _, line := range page {
			if line.Confidence < paddleMinLineConfidence {
				continue
			}
			b.WriteString(line.Text)
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", eris.New("paddle: no text recognized")
	}
	return text, nil
}
