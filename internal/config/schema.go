package config

import (
	"github.com/invopop/jsonschema"
)

// JSONSchema describes the configuration file so editors can validate it.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	s := r.Reflect(&Config{})
	s.Title = "synthdoc configuration"
	return s
}
