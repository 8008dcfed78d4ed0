package form

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Change records a single applied change callback.
type Change struct {
	Name  string
	Value any
}

// Store is a mutable Model that applies change callbacks in order. It stands
// in for the surrounding form engine when a caller only needs to observe and
// re-render a field.
type Store struct {
	mu      sync.RWMutex
	values  map[string]any
	changes []Change
	logger  *slog.Logger
	notify  ChangeFunc
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger traces every applied change at debug level.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNotify registers a callback invoked after each applied change.
func WithNotify(fn ChangeFunc) StoreOption {
	return func(s *Store) {
		s.notify = fn
	}
}

// NewStore seeds a store with initial values.
func NewStore(initial map[string]any, options ...StoreOption) *Store {
	s := &Store{values: make(map[string]any, len(initial))}
	for key, value := range initial {
		s.values[key] = Normalize(value)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Value implements Model.
func (s *Store) Value(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	if !ok {
		return nil, false
	}
	return Normalize(value), true
}

// Apply is a ChangeFunc: it stores the value and appends to the change log.
// A nil value clears the field.
func (s *Store) Apply(name string, value any) {
	value = Normalize(value)

	s.mu.Lock()
	if value == nil {
		delete(s.values, name)
	} else {
		s.values[name] = value
	}
	s.changes = append(s.changes, Change{Name: name, Value: value})
	notify := s.notify
	logger := s.logger
	s.mu.Unlock()

	if logger != nil {
		logger.Debug("field changed", slog.String("field", name), slog.Any("value", value))
	}
	if notify != nil {
		notify(name, value)
	}
}

// Changes returns a copy of the change log.
func (s *Store) Changes() []Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Change(nil), s.changes...)
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = Normalize(value)
	}
	return out
}

// Names returns the sorted field names holding a value.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Context returns a form context wired to this store as both model and
// change callback.
func (s *Store) Context(bridge schema.Bridge) Context {
	return Context{
		Schema:   bridge,
		Model:    s,
		OnChange: s.Apply,
	}
}
