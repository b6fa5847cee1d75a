package validation

import (
	"errors"
	"strings"
	"testing"
)

const personSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func TestSchemaValidate(t *testing.T) {
	schema := MustCompile("person.json", []byte(personSchema))

	if err := schema.Validate(map[string]any{"name": "Ada", "age": 36}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err := schema.Validate(map[string]any{"age": -1})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if issues := Issues(err); len(issues) < 2 {
		t.Fatalf("expected issues for missing name and negative age, got %+v", issues)
	}
}

func TestSchemaValidateJSONRejectsMalformedInput(t *testing.T) {
	schema := MustCompile("person.json", []byte(personSchema))

	err := schema.ValidateJSON([]byte(`{"name":`))
	if err == nil || !strings.Contains(err.Error(), "invalid json") {
		t.Fatalf("expected invalid json error, got %v", err)
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	_, err := Compile("broken.json", []byte(`{"type": 12}`))
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestPayloadValidationErrorFormatting(t *testing.T) {
	err := &PayloadValidationError{Issues: []ValidationIssue{
		{Location: "/name", Message: "missing"},
		{Location: "", Message: "bad"},
	}}
	if got := err.Error(); got != "#/name: missing; #: bad" {
		t.Fatalf("unexpected message %q", got)
	}
}
