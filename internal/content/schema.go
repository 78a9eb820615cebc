package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/brainventure/internal/assessment"
)

// Schema is a named JSON Schema definition for one content file.
type Schema struct {
	Name       string
	Definition map[string]any
}

func categoryEnum() []any {
	out := make([]any, 0, 6)
	for _, c := range assessment.AllCategories() {
		out = append(out, string(c))
	}
	return out
}

var nonEmptyString = map[string]any{"type": "string", "minLength": 1}

// QuestionsSchema describes neuroleader_type_test.json.
var QuestionsSchema = &Schema{
	Name: "neuroleader-test",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "text", "type"},
					"properties": map[string]any{
						"id":   nonEmptyString,
						"text": nonEmptyString,
						"type": map[string]any{"type": "string", "enum": categoryEnum()},
					},
				},
			},
		},
	},
}

// TypesSchema describes neuroleader_types.json.
var TypesSchema = &Schema{
	Name: "neuroleader-types",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "name"},
			"properties": map[string]any{
				"id":                map[string]any{"type": "string", "enum": categoryEnum()},
				"name":              nonEmptyString,
				"icon":              map[string]any{"type": "string"},
				"short_description": map[string]any{"type": "string"},
				"supermoc":          map[string]any{"type": "string"},
				"slabość":           map[string]any{"type": "string"},
				"neurobiologia":     map[string]any{"type": "string"},
				"markdown_file":     map[string]any{"type": "string", "pattern": `^[A-Za-z0-9_.-]+\.md$`},
			},
		},
	},
}

// CourseSchema describes course_structure.json.
var CourseSchema = &Schema{
	Name: "course-structure",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"title", "modules"},
			"properties": map[string]any{
				"title": nonEmptyString,
				"emoji": map[string]any{"type": "string"},
				"modules": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"title", "lessons"},
						"properties": map[string]any{
							"title": nonEmptyString,
							"lessons": map[string]any{
								"type": "array",
								"items": map[string]any{
									"type":       "object",
									"required":   []any{"title"},
									"properties": map[string]any{"title": nonEmptyString},
								},
							},
						},
					},
				},
			},
		},
	},
}

func resourceShelf(extra map[string]any) map[string]any {
	props := map[string]any{
		"id":       nonEmptyString,
		"title":    nonEmptyString,
		"category": nonEmptyString,
		"tags":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"rating":   map[string]any{"type": "number", "minimum": 0, "maximum": 5},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"required":   []any{"id", "title", "category"},
			"properties": props,
		},
	}
}

var isoDate = map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}

// ResourcesSchema describes resources.json.
var ResourcesSchema = &Schema{
	Name: "resources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"articles": resourceShelf(map[string]any{
				"published_date": isoDate,
				"read_time":      map[string]any{"type": "integer", "minimum": 0},
				"views":          map[string]any{"type": "integer", "minimum": 0},
				"featured":       map[string]any{"type": "boolean"},
			}),
			"books": resourceShelf(map[string]any{
				"published_year": map[string]any{"type": "integer"},
			}),
			"research": resourceShelf(map[string]any{
				"published_date": isoDate,
				"authors":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			}),
			"tools": resourceShelf(nil),
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateJSON parses raw and checks it against schema.
func validateJSON(schema *Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the Go map.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
