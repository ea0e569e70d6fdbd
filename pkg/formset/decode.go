package formset

import (
	"fmt"

	"github.com/gorilla/schema"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("form")
	return d
}()

// Decode copies the submitted values of f into dst, a pointer to a struct
// whose fields are tagged `form:"name"`. Conversion failures are returned
// as FieldErrors so validators can hand them back unchanged.
func Decode(f *Form, dst any) error {
	values := make(map[string][]string, len(f.Data))
	for k, v := range f.Data {
		values[k] = []string{v}
	}
	if err := decoder.Decode(dst, values); err != nil {
		payload := errorPayload(err)
		if _, generic := payload[NonFieldErrors]; generic && len(payload) == 1 {
			return fmt.Errorf("formset: decode %s: %w", f.Prefix, err)
		}
		return FieldErrors(payload)
	}
	return nil
}
