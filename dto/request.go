package dto

import "github.com/rotisserie/eris"

// ExtractionHints are optional caller-supplied OCR overrides. Zero values mean
// "use the configured default".
type ExtractionHints struct {
	DPI         int `form:"dpi"`
	PageSegMode int `form:"psm"`
}

// Validate rejects hint values outside what the OCR engines accept.
func (h ExtractionHints) Validate() error {
	if h.DPI != 0 && (h.DPI < 72 || h.DPI > 600) {
		return eris.Errorf("hints: dpi %d out of range [72,600]", h.DPI)
	}
	if h.PageSegMode != 0 && (h.PageSegMode < 1 || h.PageSegMode > 13) {
		return eris.Errorf("hints: psm %d out of range [1,13]", h.PageSegMode)
	}
	return nil
}
