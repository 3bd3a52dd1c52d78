// SPDX-License-Identifier: Apache-2.0

package extract_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// stubExtractor lets pipeline behavior be tested without real parsers.
type stubExtractor struct {
	kind  models.FileKind
	sniff []byte
	ext   string
	fn    func(ctx context.Context, content []byte) (extract.Result, error)
}

func (s *stubExtractor) Kind() models.FileKind { return s.kind }

func (s *stubExtractor) SniffContent(content []byte) bool {
	return len(s.sniff) > 0 && bytes.HasPrefix(content, s.sniff)
}

func (s *stubExtractor) MatchExtension(ext string) bool { return ext == s.ext }

func (s *stubExtractor) Extract(ctx context.Context, content []byte) (extract.Result, error) {
	if s.fn != nil {
		return s.fn(ctx, content)
	}
	return extract.Result{}, nil
}

func TestPipeline_SizeCap(t *testing.T) {
	p := extract.NewPipeline(&stubExtractor{kind: models.FileKindDelimited, ext: ".csv"})
	p.SetMaxBytes(10)

	_, err := p.Run(context.Background(), bytes.Repeat([]byte("a"), 11), "big.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrPayloadTooLarge)

	var fe *extract.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "big.csv", fe.Filename)
}

func TestPipeline_UnsupportedFormat(t *testing.T) {
	p := extract.NewPipeline(&stubExtractor{kind: models.FileKindDelimited, ext: ".csv"})

	_, err := p.Run(context.Background(), []byte{0x00, 0x01, 0x02}, "mystery.bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
}

func TestPipeline_ContentSignatureWinsOverExtension(t *testing.T) {
	sheet := &stubExtractor{kind: models.FileKindSpreadsheet, sniff: []byte("PK\x03\x04")}
	text := &stubExtractor{kind: models.FileKindDelimited, ext: ".csv"}
	p := extract.NewPipeline(sheet, text)

	// Spreadsheet bytes with a misleading .csv name must land on the
	// spreadsheet extractor.
	kind, err := p.Detect([]byte("PK\x03\x04rest"), "roster.csv")
	require.NoError(t, err)
	assert.Equal(t, models.FileKindSpreadsheet, kind)

	kind, err = p.Detect([]byte("name,role\n"), "roster.csv")
	require.NoError(t, err)
	assert.Equal(t, models.FileKindDelimited, kind)
}

func TestPipeline_DocumentTimeoutYieldsPartial(t *testing.T) {
	doc := &stubExtractor{
		kind: models.FileKindDocument,
		ext:  ".pdf",
		fn: func(ctx context.Context, _ []byte) (extract.Result, error) {
			<-ctx.Done()
			return extract.Result{}, ctx.Err()
		},
	}
	p := extract.NewPipeline(doc)
	p.SetParseTimeout(20 * time.Millisecond)

	preview, err := p.Run(context.Background(), []byte("%PDF-stub"), "scan.pdf")
	require.NoError(t, err)
	assert.Empty(t, preview.Employees)
	assert.Empty(t, preview.Shifts)
	assert.ElementsMatch(t, models.AllFields(), preview.NeedsReviewFields,
		"a timed-out extraction must flood the review set")
}

func TestPipeline_RegisteredKinds(t *testing.T) {
	p := extract.NewPipeline(
		&stubExtractor{kind: models.FileKindSpreadsheet},
		&stubExtractor{kind: models.FileKindDelimited},
	)
	assert.Equal(t, []models.FileKind{models.FileKindSpreadsheet, models.FileKindDelimited}, p.RegisteredKinds())
}
