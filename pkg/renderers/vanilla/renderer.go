// Package vanilla renders select field views as plain HTML using pongo2
// templates. Themes supplied through go-theme can replace the templates and
// inject CSS variables on the wrapper element.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-selectfield/pkg/render"
	rendertemplate "github.com/goliatone/go-selectfield/pkg/render/template"
	"github.com/goliatone/go-selectfield/pkg/render/template/pongo"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	policy           *bluemonday.Policy
	classes          map[ChromeClass]string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide the three templates under templates/.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved go-theme configuration: partial overrides for
// the wrapper/select/checkboxes templates plus CSS variables. A theme passed
// in RenderOptions takes precedence.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithSanitizer strips markup from label and option text through policy
// before the templates escape it. Text is rendered verbatim (escaped) by
// default; a nil policy restores that.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithChromeClass overrides the CSS class emitted for a chrome element.
func WithChromeClass(class ChromeClass, value string) Option {
	return func(cfg *config) {
		if cfg.classes == nil {
			cfg.classes = make(map[ChromeClass]string)
		}
		cfg.classes[class] = strings.TrimSpace(value)
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	policy    *bluemonday.Policy
	classes   map[string]any
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		policy:    cfg.policy,
		classes:   chromeClasses(cfg.classes),
	}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return "vanilla"
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the wrapper, the optional label, the control and any inline
// errors for view.
func (r *Renderer) Render(ctx context.Context, view selectfield.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}

	cfg := r.theme
	if opts.Theme != nil {
		cfg = opts.Theme
	}
	payload := r.payload(view, cfg)

	var (
		controlTemplate string
		partialKey      string
	)
	switch view.Mode {
	case selectfield.ModeCheckboxes:
		controlTemplate, partialKey = templateCheckboxes, PartialCheckboxes
		payload["inputs"] = r.inputsPayload(view.Inputs)
	default:
		if view.Dropdown == nil {
			return nil, fmt.Errorf("vanilla renderer: field %q has no dropdown control", view.Name)
		}
		controlTemplate, partialKey = templateSelect, PartialSelect
		payload["placeholder"] = r.text(view.Dropdown.Placeholder)
		payload["options"] = r.optionsPayload(view.Dropdown.Options)
		payload["has_value"] = hasValue(view.Dropdown.Selection)
	}

	control, err := r.templates.RenderTemplate(resolvePartial(cfg, partialKey, controlTemplate), payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render control for %q: %w", view.Name, err)
	}
	payload["control"] = control

	out, err := r.templates.RenderTemplate(resolvePartial(cfg, PartialWrapper, templateWrapper), payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render wrapper for %q: %w", view.Name, err)
	}
	return []byte(out), nil
}

func (r *Renderer) payload(view selectfield.View, cfg *theme.RendererConfig) map[string]any {
	payload := map[string]any{
		"id":       view.ID,
		"name":     view.Name,
		"mode":     string(view.Mode),
		"multiple": view.Type == "array",
		"required": view.Required,
		"disabled": view.Disabled,
		"attrs":    attrsPayload(view.Attrs),
		"classes":  r.classes,
		"theme":    themePayload(cfg),
		"wrapper":  r.wrapperAttrs(view, cfg),
	}
	if view.Label != nil {
		payload["label"] = map[string]any{
			"for":  view.Label.For,
			"text": r.text(view.Label.Text),
		}
	}
	if len(view.Errors) > 0 {
		errs := make([]any, 0, len(view.Errors))
		for _, message := range view.Errors {
			errs = append(errs, message)
		}
		payload["errors"] = errs
	}
	return payload
}

func (r *Renderer) optionsPayload(options []selectfield.Option) []any {
	out := make([]any, 0, len(options))
	for _, opt := range options {
		out = append(out, map[string]any{
			"value":    opt.Value,
			"label":    r.text(opt.Label),
			"selected": opt.Selected,
		})
	}
	return out
}

func (r *Renderer) inputsPayload(inputs []selectfield.Input) []any {
	out := make([]any, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, map[string]any{
			"id":       in.ID,
			"name":     in.Name,
			"type":     in.Type,
			"value":    in.Value,
			"label":    r.text(in.Label),
			"checked":  in.Checked,
			"disabled": in.Disabled,
		})
	}
	return out
}

func themePayload(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"style":   cssVarsStyle(cfg.CSSVars),
	}
}

func resolvePartial(cfg *theme.RendererConfig, partialKey, fallback string) string {
	if cfg == nil || cfg.Partials == nil {
		return fallback
	}
	if candidate := strings.TrimSpace(cfg.Partials[partialKey]); candidate != "" {
		return candidate
	}
	return fallback
}

type htmlAttr struct {
	name  string
	value string
}

// wrapperAttrs merges the wrapper's own attributes with the forwarded ones.
// Forwarded class and style values are appended; any other forwarded name
// replaces the built-in value.
func (r *Renderer) wrapperAttrs(view selectfield.View, cfg *theme.RendererConfig) []any {
	class := fmt.Sprint(r.classes["field"])
	if view.Disabled {
		class += " " + fmt.Sprint(r.classes["disabled"])
	}
	builtin := []htmlAttr{
		{"class", class},
		{"data-component", "selectfield"},
		{"data-mode", string(view.Mode)},
	}
	if cfg != nil {
		builtin = append(builtin,
			htmlAttr{"data-theme", cfg.Theme},
			htmlAttr{"data-theme-variant", cfg.Variant},
			htmlAttr{"style", cssVarsStyle(cfg.CSSVars)},
		)
	}

	merged := make(map[string]bool, len(builtin))
	out := make([]any, 0, len(builtin)+len(view.Attrs))
	for _, attr := range builtin {
		value := attr.value
		if forwarded, ok := view.Attrs[attr.name]; ok {
			merged[attr.name] = true
			value = mergeAttr(attr.name, value, forwarded)
		}
		if value != "" {
			out = append(out, map[string]any{"name": attr.name, "value": value})
		}
	}
	for _, name := range attrNames(view.Attrs) {
		if !merged[name] {
			out = append(out, map[string]any{"name": name, "value": view.Attrs[name]})
		}
	}
	return out
}

func mergeAttr(name, builtin, forwarded string) string {
	switch {
	case builtin == "":
		return forwarded
	case strings.TrimSpace(forwarded) == "":
		return builtin
	case name == "class":
		return builtin + " " + strings.TrimSpace(forwarded)
	case name == "style":
		return strings.TrimSuffix(builtin, ";") + "; " + strings.TrimSpace(forwarded)
	default:
		return forwarded
	}
}

// text strips markup through the sanitizer. bluemonday escapes its output,
// and the templates escape again, so the result is unescaped here.
func (r *Renderer) text(value string) string {
	if r.policy == nil || value == "" {
		return value
	}
	return html.UnescapeString(r.policy.Sanitize(value))
}

func hasValue(sel selectfield.Selection) bool {
	if sel.Multiple {
		return len(sel.Values) > 0
	}
	return sel.Present
}

func attrsPayload(attrs map[string]string) []any {
	names := attrNames(attrs)
	if len(names) == 0 {
		return nil
	}
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "value": attrs[name]})
	}
	return out
}

// attrNames returns the valid attribute names in attrs, sorted.
func attrNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if validAttrName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// validAttrName rejects names that would break out of the start tag.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\r\"'<>/=`")
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func chromeClasses(overrides map[ChromeClass]string) map[string]any {
	classes := map[string]any{
		"field":    string(ClassField),
		"label":    string(ClassLabel),
		"control":  string(ClassControl),
		"option":   string(ClassOption),
		"errors":   string(ClassErrors),
		"disabled": string(ClassDisabled),
	}
	keys := map[ChromeClass]string{
		ClassField:    "field",
		ClassLabel:    "label",
		ClassControl:  "control",
		ClassOption:   "option",
		ClassErrors:   "errors",
		ClassDisabled: "disabled",
	}
	for class, value := range overrides {
		if key, ok := keys[class]; ok && value != "" {
			classes[key] = value
		}
	}
	return classes
}
