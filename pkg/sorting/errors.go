package sorting

import "errors"

var (
	// ErrImproperlyConfigured reports a sort configuration that cannot be
	// used, such as supplying both a flat field list and an alias list.
	ErrImproperlyConfigured = errors.New("sorting: improperly configured")
	// ErrDuplicateAlias is returned when two spec entries share an alias.
	ErrDuplicateAlias = errors.New("sorting: duplicate alias")
	// ErrUnknownField is returned when an operation names a field that is not
	// part of the configured spec.
	ErrUnknownField = errors.New("sorting: unknown field")
)
