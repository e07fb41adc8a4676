package skill

import "github.com/invopop/jsonschema"

// ParameterSchema renders a skill's parameter contract as a JSON Schema
// object. The schema is descriptive: it reflects the declared type tags and
// required flags but carries none of the custom validation predicates.
// Additional properties stay allowed because skill bodies must tolerate
// injected extra keys.
func ParameterSchema(s *Skill) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string

	for _, p := range s.Parameters {
		prop := &jsonschema.Schema{
			Type:        jsonSchemaType(p.Type),
			Description: p.Description,
		}
		if p.Default != nil {
			prop.Default = p.Default
		}
		props.Set(p.Name, prop)
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                s.Metadata.Name,
		Description:          s.Metadata.Description,
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.TrueSchema,
	}
}

func jsonSchemaType(tag string) string {
	switch tag {
	case "string":
		return "string"
	case "int":
		return "integer"
	case "float":
		return "number"
	case "bool":
		return "boolean"
	case "list":
		return "array"
	case "map":
		return "object"
	}
	return "string"
}
