// SPDX-License-Identifier: Apache-2.0

package confirm

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// payloadSchema constrains the wire shape of a confirm payload before it is
// bound into typed records. The structs stay open so review-time leftovers
// (evidence, confidence) are tolerated and simply ignored.
const payloadSchema = `
#Employee: {
	name:       string
	role?:      string | null
	email?:     string | null
	phone?:     string | null
	wage?:      number | null
	min_hours?: int | null
	max_hours?: int | null
	...
}

#Shift: {
	employee_name:     string
	role?:             string | null
	date:              string
	start_time:        string
	end_time:          string
	overnight?:        bool
	unpaid_break_min?: int | null
	status?:           string | null
	location?:         string | null
	...
}

#Payload: {
	employees: [...#Employee]
	shifts:    [...#Shift]
	...
}
`

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

func compiledSchema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(payloadSchema).LookupPath(cue.ParsePath("#Payload"))
	})
	return schemaValue
}

// ValidatePayload checks raw JSON against the confirm payload schema.
// JSON is a subset of CUE, so the body compiles directly.
func ValidatePayload(data []byte) error {
	schema := compiledSchema()
	if err := schema.Err(); err != nil {
		return fmt.Errorf("confirm schema: %w", err)
	}

	ctx := schema.Context()
	doc := ctx.CompileBytes(data)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if err := schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("payload does not match confirmation schema: %w", err)
	}
	return nil
}
