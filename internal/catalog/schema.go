package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/chriserin/stepmatch/schemas/bindings-v1.json"

// Schema produces the JSON Schema (Draft 2020-12) of a bindings catalog.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Catalog{})
	s.ID = jsonschema.ID(schemaURL)
	s.Title = "stepmatch bindings catalog v1"
	s.Description = "Step definition bindings resolved by stepmatch"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

func validateSchema(c *Catalog) []Issue {
	fail := func(format string, args ...any) []Issue {
		return []Issue{{Phase: "schema", Message: fmt.Sprintf(format, args...)}}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fail("marshal for schema validation: %v", err)
	}
	schemaJSON, err := Schema()
	if err != nil {
		return fail("generate schema: %v", err)
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fail("unmarshal schema: %v", err)
	}
	compiler := sjsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return fail("add schema resource: %v", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return fail("compile schema: %v", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fail("unmarshal document: %v", err)
	}
	if err := sch.Validate(doc); err != nil {
		ve, ok := err.(*sjsonschema.ValidationError)
		if !ok {
			return fail("%v", err)
		}
		var issues []Issue
		for _, cause := range flatten(ve) {
			issues = append(issues, Issue{
				Phase:   "schema",
				Path:    strings.Join(cause.InstanceLocation, "/"),
				Message: fmt.Sprintf("%v", cause.ErrorKind),
			})
		}
		return issues
	}
	return nil
}

// flatten collects the leaf validation errors.
func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flatten(cause)...)
	}
	return flat
}
