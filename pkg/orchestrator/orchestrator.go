package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-selectfield/internal/loader"
	"github.com/goliatone/go-selectfield/internal/openapi"
	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
	"github.com/goliatone/go-selectfield/pkg/validation"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate the parsed
// bundle before the field is rendered.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeDefaults sets the theme and variant used when a request names
// neither.
func WithThemeDefaults(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger traces pipeline stages at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the full pipeline from schema document to rendered
// output. It applies sensible defaults (vanilla renderer, file/fs loader)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	loader          schema.Loader
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers can
// start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		themeFallbacks:  defaultThemeFallbacks(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render one select field from a
// schema document.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document is supplied.
	Source schema.Source

	// Document allows callers to bypass the loader when they already have the
	// payload.
	Document *schema.Document

	// OperationID or Component select the schema inside an OpenAPI document.
	// Both are ignored for native schema documents.
	OperationID string
	Component   string

	// Props configures the field. Label and Placeholder fall back to the
	// schema definition when empty.
	Props selectfield.Props

	// Model overrides values carried by the document.
	Model map[string]any

	// Errors holds server-side messages keyed by field name.
	Errors map[string][]string

	// OnChange receives dispatched changes from interactive renderers.
	OnChange form.ChangeFunc

	// Validate checks the field's current value against its definition and
	// appends any failures to Errors before rendering.
	Validate bool

	// IDPrefix overrides the prefix of synthesized control ids.
	IDPrefix string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	ThemeName    string
	ThemeVariant string
}

// Load resolves and parses the request's document, applying the configured
// transformer. The returned bundle's model already includes req.Model.
func (o *Orchestrator) Load(ctx context.Context, req Request) (schema.Bundle, error) {
	if ctx == nil {
		return schema.Bundle{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.Bundle{}, err
	}
	if err := o.initialiseErr; err != nil {
		return schema.Bundle{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return schema.Bundle{}, err
	}

	var bundle schema.Bundle
	if doc.IsOpenAPI() {
		bundle, err = openapi.Parse(ctx, doc, openapi.Target{OperationID: req.OperationID, Component: req.Component})
	} else {
		bundle, err = schema.ParseDocument(doc)
	}
	if err != nil {
		return schema.Bundle{}, fmt.Errorf("orchestrator: parse %s: %w", doc.Location(), err)
	}
	o.debug("schema parsed", slog.String("source", bundle.Source), slog.Int("fields", bundle.Schema.Len()))

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &bundle); err != nil {
			return schema.Bundle{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}

	if bundle.Model == nil {
		bundle.Model = make(map[string]any, len(req.Model))
	}
	for key, value := range req.Model {
		bundle.Model[key] = value
	}
	return bundle, nil
}

// Generate executes the loader → parser → view → renderer sequence and
// returns the rendered bytes (HTML for the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Props.Name) == "" {
		return nil, errors.New("orchestrator: field name is required")
	}

	bundle, err := o.Load(ctx, req)
	if err != nil {
		return nil, err
	}

	def, err := bundle.Schema.Lookup(req.Props.Name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	props := FieldProps(def, req.Props)

	errs := req.Errors
	if req.Validate {
		value := props.Value
		if value == nil {
			value = bundle.Model[props.Name]
		}
		issues := validation.New(bundle.Schema).Field(props.Name, value)
		errs = validation.Result{Valid: len(issues) == 0, Issues: issues}.Merge(cloneErrors(req.Errors))
		o.debug("field validated", slog.String("field", props.Name), slog.Int("issues", len(issues)))
	}

	fc := form.Context{
		Schema:   bundle.Schema,
		Model:    form.MapModel(bundle.Model),
		OnChange: req.OnChange,
		IDPrefix: req.IDPrefix,
		Errors:   errs,
	}
	view := selectfield.Render(fc, props)

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	themeCfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, err
	}

	o.debug("rendering field", slog.String("field", view.Name), slog.String("renderer", renderer.Name()), slog.String("mode", string(view.Mode)))
	output, err := renderer.Render(ctx, view, render.RenderOptions{Theme: themeCfg})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// FieldProps returns props with an empty Label or Placeholder taken from def.
func FieldProps(def schema.Definition, props selectfield.Props) selectfield.Props {
	if props.Label == "" {
		props.Label = def.Label
	}
	if props.Placeholder == "" {
		props.Placeholder = def.Placeholder
	}
	return props
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	if name != "" {
		renderer, err := o.registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return renderer, nil
	}

	// An unregistered default falls through to the registry's own fallback.
	if o.defaultRenderer != "" && o.registry.Has(o.defaultRenderer) {
		return o.registry.Get(o.defaultRenderer)
	}
	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer, "html")
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func cloneErrors(errs map[string][]string) map[string][]string {
	if errs == nil {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for key, messages := range errs {
		out[key] = append([]string(nil), messages...)
	}
	return out
}

func (o *Orchestrator) debug(msg string, attrs ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Debug(msg, attrs...)
}
