// Package render defines the renderer contract shared by the vanilla (HTML)
// and tui (terminal) renderers, plus a name-keyed registry.
package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

// Renderer turns a field view into a byte representation (HTML, prompt
// transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view selectfield.View, opts RenderOptions) ([]byte, error)
}

// RenderOptions carries per-request hints. Renderers ignore what they cannot
// use.
type RenderOptions struct {
	// Theme, when set, replaces any theme configured on the renderer.
	Theme *theme.RendererConfig
}
