package content

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// lessonSchema validates lesson documents before decoding. A file that
// fails validation is skipped, never fatal for the subject.
const lessonSchema = `{
	"type": "object",
	"required": ["title", "blocks"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"order": {"type": "integer"},
		"blocks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text"],
				"properties": {
					"type": {"type": "string"},
					"text": {"type": "string"}
				}
			}
		},
		"quiz": {
			"type": "object",
			"required": ["questions"],
			"properties": {
				"questions": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["prompt", "choices", "answer"],
						"properties": {
							"prompt": {"type": "string", "minLength": 1},
							"choices": {
								"type": "array",
								"items": {"type": "string"},
								"minItems": 2
							},
							"answer": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

var lessonSchemaLoader = gojsonschema.NewStringLoader(lessonSchema)

// validateLesson checks raw lesson JSON against the lesson schema.
func validateLesson(data []byte) error {
	result, err := gojsonschema.Validate(lessonSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating lesson: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("lesson schema: %s", firstSchemaError(result))
	}
	return nil
}

func firstSchemaError(result *gojsonschema.Result) string {
	for _, e := range result.Errors() {
		return e.String()
	}
	return "invalid document"
}
