// Package selectfield renders a schema-driven selection field.
//
// Render reads the field definition and current value from a form.Context,
// builds the option list and returns a View describing either a dropdown or
// a group of exclusive inputs. The View is data only; renderers under
// pkg/renderers turn it into HTML or terminal prompts. User interaction is
// reported back through Dropdown.Select and Input.Change, which call the
// context's OnChange exactly once per event.
package selectfield
