package options

import "net/http"

type EmptySearchMode string

const (
	// EmptySearchAll returns the first options up to the limit.
	EmptySearchAll EmptySearchMode = "all"
	// EmptySearchNone returns an empty list until a query is given.
	EmptySearchNone EmptySearchMode = "none"
)

type GuardFunc func(r *http.Request) error

type Config struct {
	RoutePath       string
	FieldParam      string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Transform maps raw values to labels, as selectfield.Props.Transform.
	Transform func(string) string
}

type ConfigFn func(*Config)

func DefaultConfig() Config {
	return Config{
		RoutePath:       "/api/options",
		FieldParam:      "field",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchAll,
	}
}

func NewConfig(fns ...ConfigFn) Config {
	cfg := DefaultConfig()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&cfg)
	}
	return normalize(cfg)
}

func normalize(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaults.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaults.MaxLimit
	}
	if cfg.EmptySearchMode == "" {
		cfg.EmptySearchMode = defaults.EmptySearchMode
	}
	if cfg.RoutePath == "" {
		cfg.RoutePath = defaults.RoutePath
	}
	if cfg.FieldParam == "" {
		cfg.FieldParam = defaults.FieldParam
	}
	if cfg.SearchParam == "" {
		cfg.SearchParam = defaults.SearchParam
	}
	if cfg.LimitParam == "" {
		cfg.LimitParam = defaults.LimitParam
	}
	return cfg
}

func WithRoutePath(path string) ConfigFn {
	return func(c *Config) {
		c.RoutePath = path
	}
}

func WithFieldParam(name string) ConfigFn {
	return func(c *Config) {
		c.FieldParam = name
	}
}

func WithSearchParam(name string) ConfigFn {
	return func(c *Config) {
		c.SearchParam = name
	}
}

func WithLimitParam(name string) ConfigFn {
	return func(c *Config) {
		c.LimitParam = name
	}
}

func WithDefaultLimit(limit int) ConfigFn {
	return func(c *Config) {
		c.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) ConfigFn {
	return func(c *Config) {
		c.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) ConfigFn {
	return func(c *Config) {
		c.EmptySearchMode = mode
	}
}

func WithGuard(guard GuardFunc) ConfigFn {
	return func(c *Config) {
		c.Guard = guard
	}
}

func WithTransform(transform func(string) string) ConfigFn {
	return func(c *Config) {
		c.Transform = transform
	}
}

func clampLimit(limit int, cfg Config) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}
	return limit
}
