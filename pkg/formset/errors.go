package formset

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by form field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors appends extras to existing, trimming messages and
// dropping blanks and repeats while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return dedupe(append(append([]string(nil), existing...), extras...))
}

// MapErrors assigns each payload key to a form field. Keys may be bare
// field names, prefixed input names ("lines-0-qty") or paths such as
// "#/data/0/qty"; the last segment naming a field wins. Everything else,
// including "__all__" and "non_field_errors", becomes a form-level message.
func MapErrors(fields []string, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(fields)+1)
	for _, f := range fields {
		known[f] = struct{}{}
	}
	known[OrderField] = struct{}{}

	for key, messages := range payload {
		messages = dedupe(messages)
		if len(messages) == 0 {
			continue
		}
		field, ok := fieldForKey(key, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}
	mapping.Form = dedupe(mapping.Form)
	return mapping
}

// errorPayload flattens a validator or decoder error into a keyed payload.
func errorPayload(err error) map[string][]string {
	if err == nil {
		return nil
	}
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	var multi schema.MultiError
	if errors.As(err, &multi) {
		out := make(map[string][]string, len(multi))
		for key, e := range multi {
			out[key] = append(out[key], decodeMessage(e))
		}
		return out
	}
	return map[string][]string{NonFieldErrors: {err.Error()}}
}

// decodeMessage words gorilla/schema failures the way form errors read.
func decodeMessage(err error) string {
	var conv schema.ConversionError
	var empty schema.EmptyFieldError
	switch {
	case errors.As(err, &conv):
		return "Enter a valid value."
	case errors.As(err, &empty):
		return "This field is required."
	}
	return err.Error()
}

func fieldForKey(key string, known map[string]struct{}) (string, bool) {
	key = strings.TrimSpace(key)
	if _, ok := known[key]; ok {
		return key, true
	}
	switch strings.ToLower(key) {
	case "", NonFieldErrors, "non_field_errors":
		return "", false
	}

	segments := strings.FieldsFunc(strings.TrimPrefix(key, "#"), func(r rune) bool {
		return r == '.' || r == '/' || r == '-' || r == '[' || r == ']'
	})
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if _, err := strconv.Atoi(seg); err == nil {
			continue
		}
		if _, ok := known[seg]; ok {
			return seg, true
		}
	}
	return "", false
}

func dedupe(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
