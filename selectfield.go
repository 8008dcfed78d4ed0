// Package selectfield renders schema-driven select fields: a dropdown or a
// group of checkbox/radio inputs whose options come from a field's allowed
// values, plus the change dispatch that feeds the surrounding form.
package selectfield

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	internalLoader "github.com/goliatone/go-selectfield/internal/loader"
	"github.com/goliatone/go-selectfield/internal/openapi"
	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/orchestrator"
	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-selectfield/pkg/schema"
	field "github.com/goliatone/go-selectfield/pkg/selectfield"
)

// Props aliases the field props so callers can stay on the root package.
type Props = field.Props

// View aliases the rendered field description.
type View = field.View

// Request aliases orchestrator.Request for GenerateHTML callers.
type Request = orchestrator.Request

// Render describes the field without producing output. See pkg/selectfield.
func Render(fc form.Context, props Props) View {
	return field.Render(fc, props)
}

// RenderHTML renders one field to HTML with the vanilla renderer.
func RenderHTML(ctx context.Context, fc form.Context, props Props, options ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, field.Render(fc, props), render.RenderOptions{})
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the schema source, resolves the field named in props and
// renders it with the default renderer.
func GenerateHTML(ctx context.Context, source schema.Source, props Props, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source: source,
		Props:  props,
	})
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// FromOpenAPI converts the request body of operationID, or the component
// schema when operationID is empty, into field definitions.
func FromOpenAPI(ctx context.Context, doc schema.Document, operationID, component string) (schema.Bundle, error) {
	if operationID == "" && component == "" {
		return schema.Bundle{}, errors.New("selectfield: operation id or component is required")
	}
	bundle, err := openapi.Parse(ctx, doc, openapi.Target{OperationID: operationID, Component: component})
	if err != nil {
		return schema.Bundle{}, fmt.Errorf("selectfield: %w", err)
	}
	return bundle, nil
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
