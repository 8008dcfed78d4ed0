package orchestrator

import (
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-selectfield/pkg/renderers/vanilla"
)

// defaultThemeFallbacks maps the vanilla partial keys to the embedded
// templates so a theme only needs to ship the partials it overrides.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		vanilla.PartialWrapper:    "templates/wrapper.tpl",
		vanilla.PartialSelect:     "templates/select.tpl",
		vanilla.PartialCheckboxes: "templates/checkboxes.tpl",
	}
}

// resolveTheme asks the selector for name/variant and converts the selection
// into renderer configuration. A nil selector yields a nil config.
func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig merges manifest templates, tokens and assets with the
// selected variant's overrides. Tokens become `--<token>` CSS variables.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	maps.Copy(cfg.Partials, manifest.Templates)
	maps.Copy(cfg.Tokens, manifest.Tokens)
	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(cfg.Tokens, variant.Tokens)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
	return cfg
}
