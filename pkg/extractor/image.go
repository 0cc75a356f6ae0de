// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	// Register the raster formats the image strategy accepts.
	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"
)

// OCRUnavailableText is returned by the image strategy whenever decoding or
// recognition fails. Tesseract availability is an environmental condition,
// not a per-request error, so no input may crash this strategy.
const OCRUnavailableText = "[OCR extraction failed - please ensure Tesseract is installed and configured]"

// extractImage decodes content as a raster image and runs Tesseract over it
// with the configured language profile. It never fails: every problem yields
// the fixed unavailability sentinel.
func (e *Extractor) extractImage(content []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Image OCR extraction panicked", "panic", r)
			text = OCRUnavailableText
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		e.logger.Error("Image OCR extraction error", "error", err)
		return OCRUnavailableText
	}

	// Tesseract is sensitive to channel layout; flatten whatever color model
	// the decoder produced onto an RGBA canvas and hand it over as PNG.
	encoded, err := flattenToPNG(img)
	if err != nil {
		e.logger.Error("Image OCR extraction error", "error", err)
		return OCRUnavailableText
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.ocrLanguage); err != nil {
		e.logger.Error("Image OCR extraction error", "error", err)
		return OCRUnavailableText
	}
	if err := client.SetImageFromBytes(encoded); err != nil {
		e.logger.Error("Image OCR extraction error", "error", err)
		return OCRUnavailableText
	}

	result, err := client.Text()
	if err != nil {
		e.logger.Error("Image OCR extraction error", "error", err)
		return OCRUnavailableText
	}
	return result
}

// flattenToPNG redraws img onto an RGBA canvas when needed and encodes PNG.
func flattenToPNG(img image.Image) ([]byte, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
