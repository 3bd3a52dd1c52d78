// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaziapp/shiftsheet/internal/models"
)

func TestExtractTimesheet(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	csv := "name,role,date,start,end\nJane Doe,Manager,2026-03-02,09:00,17:00\n"

	tests := []struct {
		name           string
		input          InputExtractTimesheet
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputExtractTimesheet)
	}{
		{
			name:        "empty content returns error",
			input:       InputExtractTimesheet{Content: "", Filename: "roster.csv"},
			wantErr:     true,
			errContains: "content is required",
		},
		{
			name:        "empty filename returns error",
			input:       InputExtractTimesheet{Content: "name\nJane\n"},
			wantErr:     true,
			errContains: "filename is required",
		},
		{
			name: "base64 csv produces a preview",
			input: InputExtractTimesheet{
				Content:  base64.StdEncoding.EncodeToString([]byte(csv)),
				Filename: "roster.csv",
			},
			validateOutput: func(t *testing.T, output OutputExtractTimesheet) {
				require.NotNil(t, output.Preview)
				assert.Equal(t, models.FileKindDelimited, output.Preview.FileType)
				require.Len(t, output.Preview.Employees, 1)
				assert.Equal(t, "Jane Doe", output.Preview.Employees[0].Name)
				require.Len(t, output.Preview.Shifts, 1)
				assert.InDelta(t, 1.0, output.Preview.Shifts[0].Confidence, 1e-9)
			},
		},
		{
			name: "plain text falls back without base64",
			input: InputExtractTimesheet{
				Content:  "name,role\nBob Lee,Chef\n",
				Filename: "staff.csv",
			},
			validateOutput: func(t *testing.T, output OutputExtractTimesheet) {
				require.NotNil(t, output.Preview)
				require.Len(t, output.Preview.Employees, 1)
				assert.Equal(t, "Bob Lee", output.Preview.Employees[0].Name)
			},
		},
		{
			name: "unsupported format returns error",
			input: InputExtractTimesheet{
				Content:  base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0x02}),
				Filename: "mystery.bin",
			},
			wantErr:     true,
			errContains: "unsupported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := ExtractTimesheet(ctx, req, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestMetadataExtractTimesheet(t *testing.T) {
	assert.Equal(t, "extract_timesheet", MetadataExtractTimesheet.Name)
	assert.NotEmpty(t, MetadataExtractTimesheet.Description)
}
