package options

import (
	"net/http"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Component wraps the handler, its configuration and route registration for
// one schema.
type Component struct {
	bridge schema.Bridge
	cfg    Config
}

// New constructs a component serving bridge's fields.
func New(bridge schema.Bridge, fns ...ConfigFn) *Component {
	return &Component{bridge: bridge, cfg: NewConfig(fns...)}
}

// Config returns a copy of the component configuration.
func (c *Component) Config() Config {
	if c == nil {
		return DefaultConfig()
	}
	return c.cfg
}

// Handler returns the net/http handler for option queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler(nil)
	}
	return HandlerWithConfig(c.bridge, c.cfg)
}

// RegisterRoutes registers the handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	cfg := c.Config()
	return RegisterRoutes(mux, basePath, c.Handler(), func(target *Config) { *target = cfg })
}
