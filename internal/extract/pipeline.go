// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/amaziapp/shiftsheet/internal/models"
)

const (
	// DefaultMaxBytes caps uploads before any parsing is attempted.
	DefaultMaxBytes = 5 << 20
	// DefaultParseTimeout bounds document and image parsing.
	DefaultParseTimeout = 15 * time.Second
)

// Pipeline runs the extraction chain: detect the file kind, extract raw
// candidate observations, normalize and score their fields, and aggregate
// them into a reviewable preview. It holds no per-upload state, so one
// Pipeline serves concurrent uploads.
type Pipeline struct {
	extractors   []Extractor
	maxBytes     int64
	parseTimeout time.Duration
}

// NewPipeline creates a Pipeline with the provided extractors. Extractor
// order matters for detection: kinds with strong content signatures should
// be registered before the generic delimited-text fallback.
func NewPipeline(extractors ...Extractor) *Pipeline {
	return &Pipeline{
		extractors:   extractors,
		maxBytes:     DefaultMaxBytes,
		parseTimeout: DefaultParseTimeout,
	}
}

// SetMaxBytes overrides the upload size cap.
func (p *Pipeline) SetMaxBytes(n int64) {
	if n > 0 {
		p.maxBytes = n
	}
}

// SetParseTimeout overrides the document/image parse timeout.
func (p *Pipeline) SetParseTimeout(d time.Duration) {
	if d > 0 {
		p.parseTimeout = d
	}
}

// RegisteredKinds returns the file kinds of all registered extractors.
func (p *Pipeline) RegisteredKinds() []models.FileKind {
	kinds := make([]models.FileKind, len(p.extractors))
	for i, ex := range p.extractors {
		kinds[i] = ex.Kind()
	}
	return kinds
}

// Run extracts a preview from one upload. It is a pure function of its
// inputs: byte-identical content and filename always yield an identical
// preview. Fatal failures (size cap, no recognizable kind, unreadable
// container) return a *FormatError; everything else surfaces through
// confidence values and needs_review_fields.
func (p *Pipeline) Run(ctx context.Context, content []byte, filename string) (*models.ExtractionPreview, error) {
	if int64(len(content)) > p.maxBytes {
		return nil, &FormatError{
			Filename: filename,
			Err:      fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, len(content), p.maxBytes),
		}
	}

	ex, err := p.detect(content, filename)
	if err != nil {
		return nil, err
	}

	res, err := p.runExtractor(ctx, ex, content)
	if err != nil {
		return nil, &FormatError{Filename: filename, Err: fmt.Errorf("%w: %v", ErrUnreadableContainer, err)}
	}

	agg := newAggregator(ex.Kind())
	return agg.build(res), nil
}

// Detect classifies content without extracting. Exposed for callers that
// only need the kind (e.g. upload bookkeeping).
func (p *Pipeline) Detect(content []byte, filename string) (models.FileKind, error) {
	ex, err := p.detect(content, filename)
	if err != nil {
		return "", err
	}
	return ex.Kind(), nil
}

// detect returns the first extractor whose content signature matches, then
// falls back to filename extension. Content wins over extension so a
// mislabelled file still lands on the right extractor.
func (p *Pipeline) detect(content []byte, filename string) (Extractor, error) {
	for _, ex := range p.extractors {
		if ex.SniffContent(content) {
			return ex, nil
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, ex := range p.extractors {
		if ex.MatchExtension(ext) {
			return ex, nil
		}
	}
	return nil, &FormatError{
		Filename: filename,
		Err:      fmt.Errorf("%w: no extractor matched content or extension %q", ErrUnsupportedFormat, ext),
	}
}

// runExtractor invokes the extractor, bounding document and image parsing
// with the configured wall-clock timeout. A timeout yields a partial empty
// result rather than hanging the caller.
func (p *Pipeline) runExtractor(ctx context.Context, ex Extractor, content []byte) (Result, error) {
	kind := ex.Kind()
	if kind != models.FileKindDocument && kind != models.FileKindImage {
		return ex.Extract(ctx, content)
	}

	ctx, cancel := context.WithTimeout(ctx, p.parseTimeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := ex.Extract(ctx, content)
		ch <- outcome{res, err}
	}()

	select {
	case out := <-ch:
		return out.res, out.err
	case <-ctx.Done():
		return Result{Partial: true}, nil
	}
}
