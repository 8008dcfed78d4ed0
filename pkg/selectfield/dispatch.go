package selectfield

import "github.com/goliatone/go-selectfield/pkg/form"

// Dispatcher forwards user changes to the context callback.
type Dispatcher struct {
	name     string
	onChange form.ChangeFunc
	disabled bool
}

// NewDispatcher binds a field name to a change callback.
func NewDispatcher(name string, onChange form.ChangeFunc, disabled bool) Dispatcher {
	return Dispatcher{name: name, onChange: onChange, disabled: disabled}
}

// Dispatch invokes the callback once. Disabled fields and missing callbacks
// drop the event.
func (d Dispatcher) Dispatch(value any) {
	if d.disabled || d.onChange == nil {
		return
	}
	d.onChange(d.name, value)
}
