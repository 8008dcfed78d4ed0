// Package template defines the template rendering seam the vanilla renderer
// depends on. The pongo subpackage provides the default implementation.
package template
