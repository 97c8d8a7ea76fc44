package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "members"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"members": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"additionalProperties": false
}`

func TestValidateJSONString_Valid(t *testing.T) {
	doc := `{"name": "Programming Language", "members": ["Python", "Java"]}`

	err := ValidateJSONString("test", testSchema, doc)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingField(t *testing.T) {
	doc := `{"name": "Programming Language"}`

	err := ValidateJSONString("test", testSchema, doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSONString_WrongType(t *testing.T) {
	doc := `{"name": "Programming Language", "members": "Python"}`

	err := ValidateJSONString("test", testSchema, doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")

	found := false
	for _, fe := range validationErr.Errors {
		if fe.Field == "members" {
			found = true
		}
	}
	assert.True(t, found, "error should name the offending field")
}

func TestValidateJSONString_AdditionalProperty(t *testing.T) {
	doc := `{"name": "x", "members": [], "extra": true}`

	err := ValidateJSONString("test", testSchema, doc)
	assert.Error(t, err)
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString("test", testSchema, "{not json")
	require.Error(t, err)

	loadErr, ok := err.(*SchemaLoadError)
	require.True(t, ok, "malformed input should surface as SchemaLoadError")
	assert.Equal(t, "test", loadErr.Name)
}

func TestValidateJSONString_MalformedSchema(t *testing.T) {
	err := ValidateJSONString("test", "{bad schema", `{"name": "x", "members": []}`)
	assert.Error(t, err)
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "members", Message: "Invalid type"},
	}}
	assert.Contains(t, ve.Error(), "members")
	assert.Contains(t, ve.Error(), "Invalid type")
}
