package config

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema scene files follow. Fields without omitempty are required.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Scene{})
}
