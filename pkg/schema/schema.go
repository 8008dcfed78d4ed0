package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownField is returned by lookups that require the field to exist.
var ErrUnknownField = errors.New("schema: unknown field")

// Schema is an in-memory Bridge keyed by field name.
type Schema struct {
	mu     sync.RWMutex
	fields map[string]Definition
}

// Ensure Schema satisfies the Bridge contract.
var _ Bridge = (*Schema)(nil)

// New creates a schema seeded with the provided definitions. Later entries
// replace earlier ones with the same name.
func New(defs ...Definition) *Schema {
	s := &Schema{fields: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		_ = s.Define(def)
	}
	return s
}

// Define registers or replaces a definition.
func (s *Schema) Define(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errors.New("schema: field name is required")
	}
	def.Name = name
	if def.Type == "" {
		def.Type = ValueTypeScalar
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields == nil {
		s.fields = make(map[string]Definition)
	}
	s.fields[name] = def.Clone()
	return nil
}

// MustDefine panics when Define fails. Useful for fixtures.
func (s *Schema) MustDefine(def Definition) {
	if err := s.Define(def); err != nil {
		panic(err)
	}
}

// Field resolves the definition for name. Array fields without their own
// allowed values inherit them from the `<name>.$` item definition.
func (s *Schema) Field(name string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.fields[name]
	if !ok {
		return Definition{}, false
	}
	def = def.Clone()
	if def.IsArray() && len(def.AllowedValues) == 0 {
		if item, ok := s.fields[ItemName(name)]; ok {
			def.AllowedValues = append([]string(nil), item.AllowedValues...)
		}
	}
	return def, true
}

// Lookup mirrors Field but reports a missing field as an error.
func (s *Schema) Lookup(name string) (Definition, error) {
	def, ok := s.Field(name)
	if !ok {
		return Definition{}, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return def, nil
}

// Names returns the sorted list of top-level field names. Item definitions
// (`<name>.$`) are omitted.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		if strings.HasSuffix(name, ItemSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of stored definitions, item definitions included.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}
