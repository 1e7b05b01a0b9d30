// SPDX-License-Identifier: Apache-2.0

package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed parameters.schema.json
var parametersSchema []byte

// Validate validates a JSON document against a JSON schema
func Validate(schema []byte, document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var b strings.Builder
		b.WriteString("document validation failed:")
		for _, desc := range result.Errors() {
			fmt.Fprintf(&b, "\n- %s", desc)
		}
		return fmt.Errorf("%s", b.String())
	}

	return nil
}

// ValidateParameters checks that document is a list of parameter objects with
// correctly typed fields and nothing else. Missing fields are allowed here;
// the codec decides which ones it can default.
func ValidateParameters(document []byte) error {
	return Validate(parametersSchema, document)
}
