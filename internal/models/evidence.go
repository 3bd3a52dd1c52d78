// SPDX-License-Identifier: Apache-2.0

package models

// FileKind classifies an uploaded timesheet by carrier format.
type FileKind string

const (
	FileKindDelimited   FileKind = "delimited-text"
	FileKindSpreadsheet FileKind = "spreadsheet"
	FileKindDocument    FileKind = "document"
	FileKindImage       FileKind = "image"
)

// Evidence records where an extracted value came from: the carrier format,
// a human-readable locator ("row 4, column Name", "page 2"), and optionally
// the original snippet. It is immutable once created and owned by exactly
// one field observation or record.
type Evidence struct {
	FileType   FileKind `json:"file_type"`
	SourceHint string   `json:"source_hint"`
	RawText    string   `json:"raw_text,omitempty"`
}
