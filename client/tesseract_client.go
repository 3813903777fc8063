package client

import (
	"bytes"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
)

// TesseractClient is the primary OCR engine. Each recognition builds a fresh
// gosseract client; the underlying Tesseract API is not safe to share.
type TesseractClient struct {
	tessdataPrefix string
	language       string
	pageSegMode    int
}

func NewTesseractClient(tessdataPrefix, language string, pageSegMode int) *TesseractClient {
	return &TesseractClient{
		tessdataPrefix: tessdataPrefix,
		language:       language,
		pageSegMode:    pageSegMode,
	}
}

// RecognizeImage runs Tesseract over one page image. A zero pageSegMode falls
// back to the configured default.
func (tc *TesseractClient) RecognizeImage(img image.Image, pageSegMode int) (string, error) {
	text, _, err := tc.recognize(img, pageSegMode, false)
	return text, err
}

// RecognizeImageWithQuality additionally reports the mean word confidence
// (0-100) Tesseract assigned, for quality logging.
func (tc *TesseractClient) RecognizeImageWithQuality(img image.Image, pageSegMode int) (string, float64, error) {
	return tc.recognize(img, pageSegMode, true)
}

func (tc *TesseractClient) recognize(img image.Image, pageSegMode int, wantQuality bool) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, eris.Wrap(err, "tesseract: encode page image")
	}

	c := gosseract.NewClient()
	defer c.Close()

	if tc.tessdataPrefix != "" {
		c.SetTessdataPrefix(tc.tessdataPrefix)
	}
	if err := c.SetLanguage(tc.language); err != nil {
		return "", 0, eris.Wrap(err, "tesseract: set language")
	}

	psm := pageSegMode
	if psm == 0 {
		psm = tc.pageSegMode
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(psm)); err != nil {
		return "", 0, eris.Wrap(err, "tesseract: set page segmentation mode")
	}

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, eris.Wrap(err, "tesseract: set image")
	}

	text, err := c.Text()
	if err != nil {
		return "", 0, eris.Wrap(err, "tesseract: recognize")
	}

	if !wantQuality {
		return text, 0, nil
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return text, 0, nil
	}
	var total float64
	for _, box := range boxes {
		total += box.Confidence
	}
	return text, total / float64(len(boxes)), nil
}
