package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// Schema returns the JSON schema of the plugin's parameters, or an empty
// object schema when the plugin declares none.
func (p Plugin) Schema() (string, error) {
	if p.Params == nil {
		return `{"type":"object"}`, nil
	}

	return ToJSONSchema(p.Params)
}
