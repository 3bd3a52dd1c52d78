// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/amaziapp/shiftsheet/internal/extract/extractors"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// MetadataExtractTimesheet describes the extract_timesheet tool.
var MetadataExtractTimesheet = &mcp.Tool{
	Name: "extract_timesheet",
	Description: "Extract employee and shift records from a timesheet file and return a " +
		"structured preview with per-field confidence handling. " +
		"Supported formats: CSV/TSV, xlsx/xls spreadsheets, PDF documents, images. " +
		"Fields with confidence below 0.8 are listed in needs_review_fields and should " +
		"be checked by a human before the preview is confirmed.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content", "filename"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "File content, base64-encoded. Plain text is accepted as a fallback for delimited files.",
			},
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Original filename. The extension is used as a detection fallback when content signatures are inconclusive.",
			},
		},
	},
}

// InputExtractTimesheet is the input for the ExtractTimesheet tool.
type InputExtractTimesheet struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// OutputExtractTimesheet is the output for the ExtractTimesheet tool.
type OutputExtractTimesheet struct {
	// Preview holds the extracted records and the fields flagged for review.
	Preview *models.ExtractionPreview `json:"preview"`
}

// decodeContent accepts base64 input and falls back to treating the string
// as raw text, so plain CSV can be passed without encoding.
func decodeContent(s string) []byte {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}
	return []byte(s)
}

// ExtractTimesheet runs the extraction pipeline over the provided file and
// returns a preview suitable for human review.
func ExtractTimesheet(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractTimesheet) (*mcp.CallToolResult, OutputExtractTimesheet, error) {
	if input.Content == "" {
		return nil, OutputExtractTimesheet{}, fmt.Errorf("content is required")
	}
	if input.Filename == "" {
		return nil, OutputExtractTimesheet{}, fmt.Errorf("filename is required")
	}

	pipeline := extractors.DefaultPipeline()
	preview, err := pipeline.Run(ctx, decodeContent(input.Content), input.Filename)
	if err != nil {
		return nil, OutputExtractTimesheet{}, err
	}

	return nil, OutputExtractTimesheet{Preview: preview}, nil
}
