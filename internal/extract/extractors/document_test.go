// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"testing"
	"unicode/utf8"

	"github.com/dslipak/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

func TestDocumentBuildResult_NoTextLayer(t *testing.T) {
	e := NewDocumentExtractor()

	res := e.buildResult(nil)
	assert.True(t, res.Partial, "a document without a text layer must be partial")
	assert.Empty(t, res.Candidates)
}

func TestDocumentBuildResult_TableMode(t *testing.T) {
	e := NewDocumentExtractor()

	pages := []pageLines{{
		page: 1,
		lines: [][]string{
			{"Name", "Date", "Start", "End"},
			{"Jane Doe", "2026-03-02", "09:00", "17:00"},
		},
	}}

	res := e.buildResult(pages)
	require.NotEmpty(t, res.Candidates)
	for _, c := range res.Candidates {
		assert.InDelta(t, documentTableBase, c.BaseConfidence, 1e-9,
			"document tables carry reduced base confidence")
	}

	var shift *extract.Candidate
	for i := range res.Candidates {
		if res.Candidates[i].Kind == extract.CandidateShift {
			shift = &res.Candidates[i]
		}
	}
	require.NotNil(t, shift, "a header with date and time columns must yield a shift")
}

func TestDocumentBuildResult_Heuristics(t *testing.T) {
	e := NewDocumentExtractor()

	pages := []pageLines{{
		page: 2,
		lines: [][]string{
			{"Weekly schedule"},
			{"Jane Doe"},
			{"2026-03-02 9:00 AM to 5:00 PM"},
			{"Totals 38.5 12345"},
		},
	}}

	res := e.buildResult(pages)
	assert.True(t, res.Partial, "heuristic extraction is always partial")

	var employees, shifts []extract.Candidate
	for _, c := range res.Candidates {
		switch c.Kind {
		case extract.CandidateEmployee:
			employees = append(employees, c)
		case extract.CandidateShift:
			shifts = append(shifts, c)
		}
	}

	require.Len(t, shifts, 1)
	assert.InDelta(t, 0.3, shifts[0].BaseConfidence, 1e-9)
	assert.Equal(t, "page 2", shifts[0].Evidence.SourceHint)
	fields := make(map[string]string)
	for _, o := range shifts[0].Fields {
		fields[o.Field] = o.RawValue
	}
	assert.Equal(t, "9:00 AM", fields[models.FieldStartTime])
	assert.Equal(t, "5:00 PM", fields[models.FieldEndTime])
	assert.Equal(t, "2026-03-02", fields[models.FieldDate])

	// "Weekly schedule" and "Jane Doe" both read as short alphabetic
	// lines; the digit-bearing totals line must not.
	require.Len(t, employees, 2)
	for _, c := range employees {
		assert.InDelta(t, 0.2, c.BaseConfidence, 1e-9)
	}
}

func TestAssembleLines(t *testing.T) {
	texts := []pdf.Text{
		{X: 10, Y: 700.2, W: 30, S: "Jane"},
		{X: 41, Y: 700.4, W: 20, S: " Doe"},
		{X: 120, Y: 700.3, W: 40, S: "09:00"}, // gap > cellGap: new cell
		{X: 10, Y: 650.0, W: 30, S: "Bob Lee"},
		{X: 5, Y: 710.0, W: 10, S: "   "}, // whitespace runs are dropped
	}

	lines := assembleLines(texts)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Jane Doe", "09:00"}, lines[0], "higher Y reads first, adjacent runs join")
	assert.Equal(t, []string{"Bob Lee"}, lines[1])

	assert.Nil(t, assembleLines(nil))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := "abécd" // é is two bytes; byte 3 sits inside it

	got := truncate(s, 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ab", got)

	assert.Equal(t, "abé", truncate(s, 4))
	assert.Equal(t, s, truncate(s, 100))
}
