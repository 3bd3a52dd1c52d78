// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// documentTableBase discounts document-carried tables: PDFs are less
// reliable carriers of tabular structure than spreadsheets.
const documentTableBase = 0.7

// cellGap is the horizontal gap (in PDF points) treated as a column break
// when reassembling a text line into cells.
const cellGap = 10.0

var (
	timeTokenRe = regexp.MustCompile(`(?i)\b\d{1,2}:[0-5]\d(?::\d{2})?\s*(?:am|pm)?\b|\b\d{1,2}\s*(?:am|pm)\b`)
	dateTokenRe = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
)

// DocumentExtractor reads the text layer of a PDF. When the layout exposes
// a recognizable table it is treated like a spreadsheet at reduced base
// confidence; otherwise line heuristics produce low-confidence candidates
// and the result is partial. A document with no extractable text layer
// yields zero observations and partial=true.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

func (e *DocumentExtractor) Kind() models.FileKind { return models.FileKindDocument }

func (e *DocumentExtractor) SniffContent(content []byte) bool {
	return bytes.HasPrefix(content, []byte("%PDF"))
}

func (e *DocumentExtractor) MatchExtension(ext string) bool { return ext == ".pdf" }

func (e *DocumentExtractor) Extract(ctx context.Context, content []byte) (res extract.Result, err error) {
	// The pdf package panics on some malformed files; a damaged container
	// is a fatal format error, not a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return extract.Result{}, fmt.Errorf("open pdf: %w", err)
	}

	var pages []pageLines
	for i := 1; i <= reader.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return extract.Result{Partial: true}, nil
		default:
		}
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		lines := assembleLines(p.Content().Text)
		if len(lines) > 0 {
			pages = append(pages, pageLines{page: i, lines: lines})
		}
	}

	return e.buildResult(pages), nil
}

// buildResult picks the extraction mode for the recovered text layer. No
// text at all means zero observations and a partial result. Table mode
// applies when the first text line acts as a header row with at least two
// cells mapping to canonical columns; otherwise line heuristics run.
func (e *DocumentExtractor) buildResult(pages []pageLines) extract.Result {
	if len(pages) == 0 {
		return extract.Result{Partial: true}
	}

	var rows [][]string
	for _, pg := range pages {
		rows = append(rows, pg.lines...)
	}
	if matched := countCanonical(rows[0]); matched >= 2 {
		return extractTable(e.Kind(), rows, documentTableBase)
	}

	return e.extractHeuristic(pages)
}

func countCanonical(cells []string) int {
	n := 0
	for _, c := range cells {
		if _, ok := canonicalHeader(c); ok {
			n++
		}
	}
	return n
}

type pageLines struct {
	page  int
	lines [][]string // each line already split into cells
}

// extractHeuristic is the fallback for free-form documents: lines carrying
// clock times become weak shift candidates, short alphabetic lines become
// weak employee-name candidates. Everything surfaces for review.
func (e *DocumentExtractor) extractHeuristic(pages []pageLines) extract.Result {
	var candidates []extract.Candidate
	for _, pg := range pages {
		hint := fmt.Sprintf("page %d", pg.page)
		for _, cells := range pg.lines {
			line := strings.TrimSpace(strings.Join(cells, " "))
			if line == "" {
				continue
			}
			ev := models.Evidence{FileType: models.FileKindDocument, SourceHint: hint, RawText: truncate(line, 500)}

			if times := timeTokenRe.FindAllString(line, 2); len(times) > 0 {
				fields := []extract.FieldObservation{{
					Field: models.FieldStartTime, RawValue: times[0],
					Evidence: models.Evidence{FileType: models.FileKindDocument, SourceHint: hint, RawText: times[0]},
				}}
				if len(times) > 1 {
					fields = append(fields, extract.FieldObservation{
						Field: models.FieldEndTime, RawValue: times[1],
						Evidence: models.Evidence{FileType: models.FileKindDocument, SourceHint: hint, RawText: times[1]},
					})
				}
				if date := dateTokenRe.FindString(line); date != "" {
					fields = append(fields, extract.FieldObservation{
						Field: models.FieldDate, RawValue: date,
						Evidence: models.Evidence{FileType: models.FileKindDocument, SourceHint: hint, RawText: date},
					})
				}
				candidates = append(candidates, extract.Candidate{
					Kind:           extract.CandidateShift,
					BaseConfidence: 0.3,
					Fields:         fields,
					Evidence:       ev,
				})
				continue
			}

			if looksLikeName(line) {
				candidates = append(candidates, extract.Candidate{
					Kind:           extract.CandidateEmployee,
					BaseConfidence: 0.2,
					Fields: []extract.FieldObservation{{
						Field: models.FieldName, RawValue: line, Evidence: ev,
					}},
					Evidence: ev,
				})
			}
		}
	}
	return extract.Result{Candidates: candidates, Partial: true}
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "0123456789") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// assembleLines groups positioned text runs into reading-order lines and
// splits each line into cells at large horizontal gaps.
func assembleLines(texts []pdf.Text) [][]string {
	if len(texts) == 0 {
		return nil
	}

	byY := make(map[int][]pdf.Text)
	var ys []int
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		if _, ok := byY[y]; !ok {
			ys = append(ys, y)
		}
		byY[y] = append(byY[y], t)
	}
	// PDF y grows upward; read top-down.
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines [][]string
	for _, y := range ys {
		runs := byY[y]
		sort.Slice(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

		var cells []string
		var cell strings.Builder
		lastEnd := math.Inf(-1)
		for _, run := range runs {
			if cell.Len() > 0 && run.X-lastEnd > cellGap {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			}
			cell.WriteString(run.S)
			lastEnd = run.X + run.W
		}
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		if len(cells) > 0 {
			lines = append(lines, cells)
		}
	}
	return lines
}
