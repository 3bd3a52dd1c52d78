// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"context"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

var imageSignatures = [][]byte{
	{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, // PNG
	{0xFF, 0xD8, 0xFF},                               // JPEG
	{0x47, 0x49, 0x46, 0x38},                         // GIF
}

// ImageExtractor is a designed placeholder until an OCR capability is wired
// in: every image yields zero observations and partial=true, so the whole
// upload surfaces as needs-review end to end.
type ImageExtractor struct{}

func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

func (e *ImageExtractor) Kind() models.FileKind { return models.FileKindImage }

func (e *ImageExtractor) SniffContent(content []byte) bool {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(content, sig) {
			return true
		}
	}
	// HEIC and friends: ISO media box with an ftyp brand.
	return len(content) > 12 && bytes.Equal(content[4:8], []byte("ftyp"))
}

func (e *ImageExtractor) MatchExtension(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".heic":
		return true
	}
	return false
}

func (e *ImageExtractor) Extract(_ context.Context, _ []byte) (extract.Result, error) {
	return extract.Result{Partial: true}, nil
}
