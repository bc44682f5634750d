package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// Validator validates a stage's JSON artifact against a compiled schema,
// reporting a malformed document as a data-integrity error. Store and the
// pipeline stages do not call it; artifacts are written unvalidated.
type Validator struct {
	schemas map[Stage]*jsonschema.Schema
}

// NewValidator compiles the given stage -> schema document map once at
// startup. schemaDocs values are raw JSON Schema documents.
func NewValidator(schemaDocs map[Stage][]byte) (*Validator, error) {
	v := &Validator{schemas: map[Stage]*jsonschema.Schema{}}
	for stage, doc := range schemaDocs {
		compiler := jsonschema.NewCompiler()
		url := string(stage) + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("add schema resource for %s: %w", stage, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", stage, err)
		}
		v.schemas[stage] = schema
	}
	return v, nil
}

// Validate checks data against stage's compiled schema, if one was
// registered; stages with no registered schema always pass (schemas are
// an opt-in safety net, not a requirement for every artifact kind).
func (v *Validator) Validate(stage Stage, data []byte) error {
	schema, ok := v.schemas[stage]
	if !ok {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, string(stage), fmt.Errorf("artifact is not valid json: %w", err))
	}
	if err := schema.Validate(doc); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, string(stage), fmt.Errorf("schema validation: %w", err))
	}
	return nil
}
