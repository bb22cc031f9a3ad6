package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/schemas"
)

var compiledSchemas = make(map[events.Kind]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Register every schema as a resource first so that $ref links between
	// schemas resolve during compilation.
	err := fs.WalkDir(schemas.SchemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemas.SchemasFS.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open schema %s: %w", path, err)
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error registering schema resources: %v", err)
	}

	err = fs.WalkDir(schemas.SchemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("failed to compile schema %s: %w", path, err)
		}
		compiledSchemas[kindFromPath(path)] = schema
		return nil
	})
	if err != nil {
		log.Fatalf("error compiling schemas: %v", err)
	}
}

// kindFromPath maps "events/task_comment_created.json" to the wire
// discriminant "task.comment.created".
func kindFromPath(path string) events.Kind {
	name := strings.TrimPrefix(path, "events/")
	name = strings.TrimSuffix(name, ".json")
	return events.Kind(strings.ReplaceAll(name, "_", "."))
}

// ValidateEvent checks a raw message body against the schema registered for
// its kind. Unknown kinds fail validation so the consumer can reject the
// message before attempting to decode it.
func ValidateEvent(kind events.Kind, body []byte) error {
	schema, ok := compiledSchemas[kind]
	if !ok {
		return fmt.Errorf("no schema registered for event kind %q", kind)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
