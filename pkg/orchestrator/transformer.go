package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Transformer mutates a parsed bundle before the field is rendered.
// Implementations can relabel fields, narrow allowed values, or seed the model.
type Transformer interface {
	Transform(ctx context.Context, bundle *schema.Bundle) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, bundle *schema.Bundle) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, bundle *schema.Bundle) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, bundle)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports per-field patches and model defaults:
//
//	{
//	  "fields": {
//	    "color": {"label": "Colour", "allowedValues": ["red", "green"], "required": true}
//	  },
//	  "model": {"color": "green"}
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
	Model  map[string]any            `json:"model"`
}

type jsonFieldPatch struct {
	Label         string   `json:"label"`
	Placeholder   string   `json:"placeholder"`
	AllowedValues []string `json:"allowedValues"`
	Required      *bool    `json:"required"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied bundle. Model
// defaults only fill fields the bundle does not already hold.
func (t *JSONPresetTransformer) Transform(ctx context.Context, bundle *schema.Bundle) error {
	if bundle == nil || bundle.Schema == nil {
		return errors.New("json preset transformer: bundle is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for name, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		def, err := bundle.Schema.Lookup(name)
		if err != nil {
			return fmt.Errorf("json preset transformer: %w", err)
		}
		applyFieldPatch(&def, patch)
		if err := bundle.Schema.Define(def); err != nil {
			return fmt.Errorf("json preset transformer: field %q: %w", name, err)
		}
	}

	if len(t.document.Model) > 0 && bundle.Model == nil {
		bundle.Model = make(map[string]any, len(t.document.Model))
	}
	for key, value := range t.document.Model {
		if _, exists := bundle.Model[key]; !exists {
			bundle.Model[key] = value
		}
	}
	return nil
}

func applyFieldPatch(def *schema.Definition, patch jsonFieldPatch) {
	if patch.Label != "" {
		def.Label = patch.Label
	}
	if patch.Placeholder != "" {
		def.Placeholder = patch.Placeholder
	}
	if patch.AllowedValues != nil {
		def.AllowedValues = append([]string(nil), patch.AllowedValues...)
	}
	if patch.Required != nil {
		def.Required = *patch.Required
	}
}
