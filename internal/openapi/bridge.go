// Package openapi converts OpenAPI request/component schemas into select
// field definitions using kin-openapi.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

const currentValueExtensionKey = "x-current-value"

// Target selects which schema inside the document feeds the bridge. Exactly
// one of OperationID or Component is expected.
type Target struct {
	OperationID string
	Component   string
}

// Parse loads doc with kin-openapi and converts the properties of the target
// schema into definitions. `enum` becomes the allowed values, array
// properties place their `items.enum` under the `<name>.$` item definition,
// and `x-current-value` seeds the returned model.
func Parse(ctx context.Context, doc schema.Document, target Target) (schema.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return schema.Bundle{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Bundle{}, errors.New("openapi bridge: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Bundle{}, fmt.Errorf("openapi bridge: load document: %w", err)
	}

	root, err := resolveTarget(api, target)
	if err != nil {
		return schema.Bundle{}, err
	}
	return convert(doc.Location(), root), nil
}

func resolveTarget(api *openapi3.T, target Target) (*openapi3.Schema, error) {
	switch {
	case strings.TrimSpace(target.OperationID) != "":
		return operationSchema(api, strings.TrimSpace(target.OperationID))
	case strings.TrimSpace(target.Component) != "":
		return componentSchema(api, strings.TrimSpace(target.Component))
	default:
		return nil, errors.New("openapi bridge: operation id or component name is required")
	}
}

func operationSchema(api *openapi3.T, operationID string) (*openapi3.Schema, error) {
	if api.Paths != nil {
		for _, item := range api.Paths.Map() {
			if item == nil {
				continue
			}
			for _, op := range item.Operations() {
				if op == nil || op.OperationID != operationID {
					continue
				}
				if op.RequestBody == nil || op.RequestBody.Value == nil {
					return nil, fmt.Errorf("openapi bridge: operation %q has no request body", operationID)
				}
				media := op.RequestBody.Value.Content.Get("application/json")
				if media == nil {
					media = op.RequestBody.Value.Content.Get("application/x-www-form-urlencoded")
				}
				if media == nil || media.Schema == nil || media.Schema.Value == nil {
					return nil, fmt.Errorf("openapi bridge: operation %q has no form schema", operationID)
				}
				return media.Schema.Value, nil
			}
		}
	}
	return nil, fmt.Errorf("openapi bridge: operation %q not found", operationID)
}

func componentSchema(api *openapi3.T, name string) (*openapi3.Schema, error) {
	// Components is optional in the document.
	if comps, ok := any(api.Components).(*openapi3.Components); ok && comps == nil {
		return nil, fmt.Errorf("openapi bridge: component %q not found", name)
	}
	ref, ok := api.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi bridge: component %q not found", name)
	}
	return ref.Value, nil
}

func convert(source string, root *openapi3.Schema) schema.Bundle {
	bundle := schema.Bundle{
		Source: source,
		Schema: schema.New(),
		Model:  map[string]any{},
	}

	required := make(map[string]struct{}, len(root.Required))
	for _, name := range root.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(root.Properties))
	for name := range root.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := root.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		_, isRequired := required[name]

		def := schema.Definition{
			Name:     name,
			Type:     schema.ValueTypeScalar,
			Required: isRequired,
			Label:    strings.TrimSpace(prop.Title),
		}
		if firstSchemaType(prop.Type) == "array" {
			def.Type = schema.ValueTypeArray
			if prop.Items != nil && prop.Items.Value != nil {
				bundle.Schema.MustDefine(schema.Definition{
					Name:          schema.ItemName(name),
					Type:          schema.ValueTypeScalar,
					AllowedValues: enumValues(prop.Items.Value.Enum),
				})
			}
		} else {
			def.AllowedValues = enumValues(prop.Enum)
		}
		bundle.Schema.MustDefine(def)

		if value, ok := prop.Extensions[currentValueExtensionKey]; ok && value != nil {
			bundle.Model[name] = value
		}
	}
	return bundle
}

func enumValues(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
