package prefabs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

// Validate checks a YAML document against the embedded schema named after
// spec (world.yaml uses schemas/world.schema.json). Specs without a schema
// pass.
func Validate(spec string, data []byte) error {
	schema, err := compiledSchema(schemaPath(spec))
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("prefabs: parse %s: %w", spec, err)
	}
	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("prefabs: convert %s: %w", spec, err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return fmt.Errorf("prefabs: convert %s: %w", spec, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("prefabs: validate %s: %w", spec, err)
	}
	return nil
}

func compiledSchema(path string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[path]; ok {
		return s, nil
	}
	data, err := SchemasFS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		schemaCache[path] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s, err := jsonschema.CompileString(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile %s: %w", path, err)
	}
	schemaCache[path] = s
	return s, nil
}
