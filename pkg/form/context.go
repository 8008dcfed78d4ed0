package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// DefaultIDPrefix prefixes synthesized control ids (`fg-<name>`).
const DefaultIDPrefix = "fg"

// ChangeFunc receives the field name and its new value after a user
// interaction. Values are nil, a string, or a []string.
type ChangeFunc func(name string, value any)

// Model exposes the current value per field name.
type Model interface {
	Value(name string) (any, bool)
}

// Context bundles the collaborators a field reads from while rendering.
type Context struct {
	Schema   schema.Bridge
	Model    Model
	OnChange ChangeFunc
	IDPrefix string
	Errors   map[string][]string
}

// Field resolves the schema definition for name. Missing schemas or fields
// report false.
func (c Context) Field(name string) (schema.Definition, bool) {
	if c.Schema == nil {
		return schema.Definition{}, false
	}
	return c.Schema.Field(name)
}

// Value resolves the model value for name, normalised to nil, string or
// []string.
func (c Context) Value(name string) (any, bool) {
	if c.Model == nil {
		return nil, false
	}
	value, ok := c.Model.Value(name)
	if !ok {
		return nil, false
	}
	return Normalize(value), true
}

// ControlID synthesizes the id used when a field does not set one.
func (c Context) ControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	prefix := strings.TrimSpace(c.IDPrefix)
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return prefix + "-" + trimmed
}

// ErrorsFor returns the server-side messages attached to name.
func (c Context) ErrorsFor(name string) []string {
	if len(c.Errors) == 0 {
		return nil
	}
	return append([]string(nil), c.Errors[name]...)
}

// MapModel is a read-only Model backed by a plain map.
type MapModel map[string]any

// Value implements Model.
func (m MapModel) Value(name string) (any, bool) {
	value, ok := m[name]
	return value, ok
}

// Normalize coerces decoded model values (YAML/JSON scalars, []any) into the
// shapes fields work with: nil, string or []string.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return v
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}
