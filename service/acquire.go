package service

import (
	"context"
	"image"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/client"
	"github.com/fundingdesk/ocr-underwriting/config"
	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/utils"
)

// DocKind selects the native-text sufficiency threshold. Applications are
// dense forms and need more embedded text before the text layer is trusted;
// statements are mostly tabular and need less.
type DocKind int

const (
	DocApplication DocKind = iota
	DocStatement
)

// AcquireOptions carries per-request OCR hints. Zero values mean "use
// configured defaults".
type AcquireOptions struct {
	DPI         int
	PageSegMode int
}

// AcquireResult is the normalized text of one document plus how it was
// obtained. Words is populated only on the native path, where the PDF text
// layer carries positions.
type AcquireResult struct {
	Lines  []string
	Source string // "native" or "ocr"
	Words  []dto.Word
}

// Acquirer turns uploaded PDF bytes into clean text lines, preferring the
// embedded text layer and falling back to the two-engine OCR path.
type Acquirer struct {
	pdf       PDFProcessor
	tesseract *client.TesseractClient
	paddle    *client.PaddleClient
	ocrCfg    config.OCRConfig
	extCfg    config.ExtractionConfig
}

func NewAcquirer(pdf PDFProcessor, tess *client.TesseractClient, paddle *client.PaddleClient, ocrCfg config.OCRConfig, extCfg config.ExtractionConfig) *Acquirer {
	return &Acquirer{pdf: pdf, tesseract: tess, paddle: paddle, ocrCfg: ocrCfg, extCfg: extCfg}
}

var ocrCharFixer = strings.NewReplacer("—", "-", "–", "-", "•", "-")

// Acquire extracts document text. Empty uploads and PDFs from which neither
// the text layer nor OCR recovers anything are the only hard failures;
// everything else degrades.
func (a *Acquirer) Acquire(ctx context.Context, data []byte, kind DocKind, opts AcquireOptions) (AcquireResult, error) {
	if len(data) == 0 {
		return AcquireResult{}, dto.ErrEmptyDocument
	}

	nativeLines, words := a.nativeText(data)
	threshold := a.extCfg.NativeMinCharsApplication
	if kind == DocStatement {
		threshold = a.extCfg.NativeMinCharsStatement
	}
	nativeChars := totalChars(nativeLines)
	if nativeChars >= threshold {
		return AcquireResult{Lines: nativeLines, Source: "native", Words: words}, nil
	}

	ocrLines, err := a.ocrText(ctx, data, opts)
	if err != nil {
		if len(nativeLines) > 0 {
			zap.L().Warn("ocr failed, degrading to thin native text",
				zap.Int("native_chars", nativeChars), zap.Error(err))
			return AcquireResult{Lines: nativeLines, Source: "native", Words: words}, nil
		}
		return AcquireResult{}, err
	}
	if len(ocrLines) == 0 {
		if len(nativeLines) > 0 {
			return AcquireResult{Lines: nativeLines, Source: "native", Words: words}, nil
		}
		return AcquireResult{}, dto.ErrUnreadableDocument
	}
	return AcquireResult{Lines: ocrLines, Source: "ocr"}, nil
}

func (a *Acquirer) nativeText(data []byte) ([]string, []dto.Word) {
	pages, err := a.pdf.ExtractText(data)
	if err != nil {
		zap.L().Debug("native text extraction failed", zap.Error(err))
		return nil, nil
	}
	var lines []string
	for _, pg := range pages {
		lines = append(lines, utils.LinesFromText(pg)...)
	}
	words, err := a.pdf.ExtractWords(data)
	if err != nil {
		words = nil
	}
	return lines, words
}

func (a *Acquirer) ocrText(ctx context.Context, data []byte, opts AcquireOptions) ([]string, error) {
	images, err := a.pdf.ExtractImages(data)
	if err != nil || len(images) == 0 {
		dpi := opts.DPI
		if dpi == 0 {
			dpi = a.ocrCfg.DPI
		}
		images, err = a.pdf.RasterizePages(data, dpi)
		if err != nil {
			return nil, eris.Wrap(err, "acquire: no page images")
		}
	}

	var lines []string
	for i, img := range images {
		text := a.recognizePage(ctx, img, i, opts.PageSegMode)
		lines = append(lines, utils.LinesFromText(ocrCharFixer.Replace(text))...)
	}
	return lines, nil
}

// recognizePage runs the primary engine and retries with the secondary when
// the page comes back nearly blank, keeping whichever read is longer.
func (a *Acquirer) recognizePage(ctx context.Context, img image.Image, page, psm int) string {
	prepped := preprocessForOCR(img)

	text, quality, err := a.tesseract.RecognizeImageWithQuality(prepped, psm)
	if err != nil {
		zap.L().Warn("tesseract failed on page", zap.Int("page", page), zap.Error(err))
		text = ""
	} else {
		zap.L().Debug("tesseract page read",
			zap.Int("page", page),
			zap.Int("chars", len(text)),
			zap.Float64("mean_word_confidence", quality))
	}

	if len(strings.TrimSpace(text)) >= a.ocrCfg.RetryUnderChars || a.paddle == nil {
		return text
	}

	alt, err := a.paddle.RecognizeImage(ctx, prepped)
	if err != nil {
		zap.L().Debug("paddle retry failed", zap.Int("page", page), zap.Error(err))
		return text
	}
	if len(strings.TrimSpace(alt)) > len(strings.TrimSpace(text)) {
		zap.L().Info("paddle retry improved page read",
			zap.Int("page", page),
			zap.Int("tesseract_chars", len(text)),
			zap.Int("paddle_chars", len(alt)))
		return alt
	}
	return text
}

func totalChars(lines []string) int {
	n := 0
	for _, ln := range lines {
		n += len(ln)
	}
	return n
}
