// Package options serves a schema field's allowed values as JSON so remote
// pickers can search them. Responses have the shape
// {"data":[{"value":"...","label":"..."}]} and honour the search and limit
// query parameters.
package options
