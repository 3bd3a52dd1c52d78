// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"context"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

var (
	zipSignature  = []byte{0x50, 0x4B, 0x03, 0x04}
	ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// SpreadsheetExtractor handles .xlsx (ZIP container, via excelize) and
// legacy .xls (OLE2 container, via extrame/xls). Only the first sheet is
// read; historical timesheet exports put everything there.
type SpreadsheetExtractor struct{}

func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{}
}

func (e *SpreadsheetExtractor) Kind() models.FileKind { return models.FileKindSpreadsheet }

func (e *SpreadsheetExtractor) SniffContent(content []byte) bool {
	return bytes.HasPrefix(content, zipSignature) || bytes.HasPrefix(content, ole2Signature)
}

func (e *SpreadsheetExtractor) MatchExtension(ext string) bool {
	switch ext {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

func (e *SpreadsheetExtractor) Extract(_ context.Context, content []byte) (extract.Result, error) {
	if bytes.HasPrefix(content, ole2Signature) {
		return e.extractLegacy(content)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return extract.Result{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return extract.Result{Partial: true}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return extract.Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return extractTable(e.Kind(), rows, 1.0), nil
}

func (e *SpreadsheetExtractor) extractLegacy(content []byte) (extract.Result, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return extract.Result{}, fmt.Errorf("open xls: %w", err)
	}
	rows := wb.ReadAllCells(10000)
	return extractTable(e.Kind(), rows, 1.0), nil
}
