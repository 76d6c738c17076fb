package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// SchemaDocument returns the JSON Schema the header is validated against.
func SchemaDocument() []byte {
	return bytes.Clone(schemaJSON)
}

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("metadata: add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("schema.json")
	})
	return schema, schemaErr
}

// Issue is one schema violation.
type Issue struct {
	// Location is the header key path, empty for the header itself.
	Location string
	Message  string
}

func (i Issue) String() string {
	if i.Location == "" {
		return i.Message
	}
	return i.Location + ": " + i.Message
}

// CheckSchema validates a decoded header against the schema. Issues are sorted
// by location, then message.
func CheckSchema(header map[string]any) ([]Issue, error) {
	sch, err := compiled()
	if err != nil {
		return nil, err
	}
	// Round-trip through JSON so the validator sees JSON value types.
	encoded, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("metadata: encode header: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("metadata: decode header: %w", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimPrefix(strings.TrimSpace(node.InstanceLocation), "/"),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, c := range node.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Location != issues[j].Location {
			return issues[i].Location < issues[j].Location
		}
		return issues[i].Message < issues[j].Message
	})
	return issues, nil
}

// RawScalars returns the source text of the top-level scalar values of a
// YAML header, so values like an unquoted 1.0 can be checked as written.
func RawScalars(raw []byte) map[string]string {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	out := make(map[string]string, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if v := m.Content[i+1]; v.Kind == yaml.ScalarNode {
			out[m.Content[i].Value] = v.Value
		}
	}
	return out
}
