package tui

// OutputFormat selects how Render and Session.Run serialize values.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatPrettyText     OutputFormat = "pretty"
)

func (f OutputFormat) valid() bool {
	switch f {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return true
	default:
		return false
	}
}

func (f OutputFormat) contentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Theme holds the prefixes written before prompts, notices and field errors.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// SubmitTransformer rewrites a session's final values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver replaces the survey driver. Nil keeps the default.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization. New rejects unknown formats.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithPageSize limits how many options a prompt shows at once.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}
