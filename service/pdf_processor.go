package service

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

// PDFProcessor reads PDF bytes three ways: native text per page, positioned
// words for the layout-aware pass, and page images for the OCR fallback.
type PDFProcessor interface {
	ExtractText(pdfData []byte) ([]string, error)
	ExtractWords(pdfData []byte) ([]dto.Word, error)
	ExtractImages(pdfData []byte) ([]image.Image, error)
	RasterizePages(pdfData []byte, dpi int) ([]image.Image, error)
}

type pdfProcessor struct {
	pdftoppmPath string
}

func NewPDFProcessor(pdftoppmPath string) PDFProcessor {
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}
	return &pdfProcessor{pdftoppmPath: pdftoppmPath}
}

// ExtractText returns the embedded text of each page, one string per page.
// Pages without a text layer come back empty.
func (p *pdfProcessor) ExtractText(pdfData []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, eris.Wrap(err, "pdf: open reader")
	}

	var pages []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			pages = append(pages, "")
			continue
		}

		var b strings.Builder
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					b.WriteString(" ")
				}
				b.WriteString(word.S)
			}
			b.WriteString("\n")
		}
		pages = append(pages, b.String())
	}
	return pages, nil
}

// ExtractWords returns first-page tokens with coordinates. Y grows upward in
// PDF space; callers wanting "top of page" look for the largest Y values.
func (p *pdfProcessor) ExtractWords(pdfData []byte) ([]dto.Word, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, eris.Wrap(err, "pdf: open reader")
	}
	if r.NumPage() == 0 {
		return nil, nil
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, eris.Wrap(err, "pdf: text rows")
	}

	var words []dto.Word
	for _, row := range rows {
		for _, t := range row.Content {
			s := strings.TrimSpace(t.S)
			if s == "" {
				continue
			}
			words = append(words, dto.Word{
				Text: s,
				X:    t.X,
				Y:    float64(row.Position),
				Size: t.FontSize,
			})
		}
	}
	return words, nil
}

// ExtractImages pulls embedded page scans out of the PDF. For scanned
// documents each page is typically one full-page image.
func (p *pdfProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf-images-*")
	if err != nil {
		return nil, eris.Wrap(err, "pdf: create temp dir")
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return nil, eris.Wrap(err, "pdf: create temp file")
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, eris.Wrap(err, "pdf: write temp file")
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, eris.Wrap(err, "pdf: extract images")
	}

	return decodeImagesInDir(tempDir)
}

// RasterizePages renders every page to an image at the given DPI using
// pdftoppm. Used when a PDF has neither a text layer nor embedded scans.
func (p *pdfProcessor) RasterizePages(pdfData []byte, dpi int) ([]image.Image, error) {
	if _, err := exec.LookPath(p.pdftoppmPath); err != nil {
		return nil, eris.Wrapf(err, "pdf: %s not available (install poppler-utils)", p.pdftoppmPath)
	}

	tempDir, err := os.MkdirTemp("", "pdf-raster-*")
	if err != nil {
		return nil, eris.Wrap(err, "pdf: create temp dir")
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "doc.pdf")
	if err := os.WriteFile(tempFile, pdfData, 0o600); err != nil {
		return nil, eris.Wrap(err, "pdf: write temp file")
	}

	prefix := filepath.Join(tempDir, "page")
	cmd := exec.Command(p.pdftoppmPath, "-r", strconv.Itoa(dpi), "-png", tempFile, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, eris.Wrapf(err, "pdf: pdftoppm failed: %s", string(out))
	}

	return decodeImagesInDir(tempDir)
}

func decodeImagesInDir(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "pdf: read temp dir")
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && !strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var images []image.Image
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}
