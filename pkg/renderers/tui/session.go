package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

// Session re-renders a field from a store after every change so each prompt
// reflects the latest model. Scalar fields and dropdowns finish after one
// change; array checkbox fields loop until the user picks Done.
type Session struct {
	renderer *Renderer
	store    *form.Store
	bridge   schema.Bridge
	props    selectfield.Props
	errors   map[string][]string
	idPrefix string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithErrors attaches messages shown before the first prompt.
func WithErrors(errs map[string][]string) SessionOption {
	return func(s *Session) {
		s.errors = errs
	}
}

// WithIDPrefix overrides the prefix used for synthesized control ids.
func WithIDPrefix(prefix string) SessionOption {
	return func(s *Session) {
		s.idPrefix = prefix
	}
}

// NewSession binds renderer to store for the field described by props.
// props.Value is ignored so the store alone decides the selection.
func NewSession(renderer *Renderer, store *form.Store, bridge schema.Bridge, props selectfield.Props, options ...SessionOption) *Session {
	props.Value = nil
	s := &Session{
		renderer: renderer,
		store:    store,
		bridge:   bridge,
		props:    props,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run prompts until the field is settled and returns the serialized store
// snapshot.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("tui: session renderer is nil")
	}
	if s.store == nil {
		return nil, errors.New("tui: session store is nil")
	}

	first := true
	for {
		fc := s.store.Context(s.bridge)
		fc.IDPrefix = s.idPrefix
		if first {
			fc.Errors = s.errors
		}
		view := selectfield.Render(fc, s.props)

		_, err := s.renderer.Render(ctx, view, render.RenderOptions{})
		if errors.Is(err, ErrDone) {
			break
		}
		if err != nil {
			return nil, err
		}
		first = false

		if !repeats(view) {
			break
		}
	}

	values := s.store.Snapshot()
	if s.renderer.submitTransformer != nil {
		var err error
		values, err = s.renderer.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return s.renderer.serialize(values)
}

func repeats(view selectfield.View) bool {
	return view.Mode == selectfield.ModeCheckboxes &&
		view.Type == schema.ValueTypeArray &&
		!view.Disabled
}
