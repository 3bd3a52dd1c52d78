// SPDX-License-Identifier: Apache-2.0

// Package extractors provides one extractor per supported file kind.
package extractors

import "github.com/amaziapp/shiftsheet/internal/extract"

// DefaultPipeline builds a Pipeline with all extractors registered.
// Extractor order matters for detection: kinds with strong binary
// signatures come before the permissive delimited-text sniffer.
func DefaultPipeline() *extract.Pipeline {
	return extract.NewPipeline(
		NewSpreadsheetExtractor(),
		NewDocumentExtractor(),
		NewImageExtractor(),
		NewDelimitedExtractor(),
	)
}
