// Package form carries the context a field renders against: the schema
// bridge, the current model values, the change callback and any server-side
// errors. Store is a small mutable model that applies change callbacks so a
// caller can re-render after each interaction.
package form
