// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// DelimitedExtractor handles comma- and tab-separated text. It is the most
// permissive sniffer and must be registered after the binary-container
// extractors.
type DelimitedExtractor struct{}

func NewDelimitedExtractor() *DelimitedExtractor {
	return &DelimitedExtractor{}
}

func (e *DelimitedExtractor) Kind() models.FileKind { return models.FileKindDelimited }

// SniffContent accepts valid UTF-8 text whose first line carries a comma,
// semicolon or tab delimiter.
func (e *DelimitedExtractor) SniffContent(content []byte) bool {
	if len(content) == 0 || !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	firstLine, _, _ := strings.Cut(string(content), "\n")
	return strings.ContainsAny(firstLine, ",;\t")
}

func (e *DelimitedExtractor) MatchExtension(ext string) bool {
	switch ext {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

func (e *DelimitedExtractor) Extract(_ context.Context, content []byte) (extract.Result, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	firstLine, _, _ := strings.Cut(string(content), "\n")
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		r.Comma = '\t'
	} else if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		r.Comma = ';'
	}

	rows, err := r.ReadAll()
	if err != nil {
		return extract.Result{}, fmt.Errorf("read delimited text: %w", err)
	}
	return extractTable(e.Kind(), rows, 1.0), nil
}
