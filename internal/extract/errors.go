// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
)

// Fatal container-level failures. Everything below them (row or field level)
// degrades confidence instead of erroring.
var (
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrUnreadableContainer = errors.New("unreadable container")
)

// FormatError rejects an upload before a preview is produced.
type FormatError struct {
	Filename string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot extract %q: %v", e.Filename, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
