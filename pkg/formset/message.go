package formset

import (
	"fmt"
	"regexp"
)

var messageField = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// SuccessMessage fills {field} placeholders in tmpl from rec. Unknown
// placeholders are left as they are.
func SuccessMessage(tmpl string, rec map[string]any) string {
	if tmpl == "" {
		return ""
	}
	return messageField.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := rec[name]
		if !ok || v == nil {
			return m
		}
		return fmt.Sprint(v)
	})
}
