package knowledge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// storeSchema describes the shape the persisted knowledge file must have
// before the store accepts it. Anything that fails here is quarantined rather
// than partially loaded.
const storeSchema = `{
  "type": "object",
  "required": ["facts", "qa"],
  "properties": {
    "facts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["topic", "text"],
        "properties": {
          "topic": {"type": "string"},
          "text": {"type": "string"},
          "occurrence_count": {"type": "integer", "minimum": 1},
          "confidence": {"type": "number", "minimum": 0},
          "token_count": {"type": "integer", "minimum": 0}
        }
      }
    },
    "qa": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "answer"],
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": "string"},
          "confidence": {"type": "number", "minimum": 0},
          "token_count": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(storeSchema)

// validateStoreJSON checks raw bytes against storeSchema. Invalid JSON and
// schema violations both come back as a single error.
func validateStoreJSON(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("unparsable knowledge file: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("knowledge file schema violation: %s", strings.Join(msgs, "; "))
}
