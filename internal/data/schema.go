package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	schemaMu sync.Mutex
	schemas  = make(map[string]*jsonschema.Schema)
)

// schemaFor compiles (once) the embedded schema with the given file name.
func schemaFor(name string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemas[name]; ok {
		return s, nil
	}
	src, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return nil, err
	}
	s, err := jsonschema.CompileString(name, string(src))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	schemas[name] = s
	return s, nil
}

// validateDoc checks a decoded YAML document against an embedded JSON
// schema. The document is round-tripped through JSON so the validator sees
// JSON types.
func validateDoc(schema string, doc any) error {
	if doc == nil {
		return nil // empty document
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return err
	}
	s, err := schemaFor(schema)
	if err != nil {
		return err
	}
	return s.Validate(v)
}
