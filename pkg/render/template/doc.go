// Package template defines the engine contract the HTML renderer depends on.
// The gotemplate subpackage implements it with pongo2.
package template
