package formset

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Validator checks one form. Returning FieldErrors attaches messages to
// fields; any other error becomes a non-field error.
type Validator func(ctx context.Context, f *Form) error

// FieldErrors maps field names to messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], "; "))
	}
	return "formset: invalid fields: " + strings.Join(parts, ", ")
}

// Add appends message to field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Validate checks every form that takes part in the submission, then the
// form counts and the formset-wide clean hook. Deleted forms and unchanged
// extra forms are not validated. Each call replaces the messages of the
// previous one, so validating twice reports the same errors.
func (fs *FormSet) Validate(ctx context.Context) bool {
	fs.validated = true
	fs.valid = false
	fs.Errors = nil
	if !fs.Bound {
		return false
	}

	formsValid := true
	count := 0
	for _, f := range fs.Forms {
		if fs.skipped(f) {
			f.Errors = nil
			continue
		}
		count++
		f.resetErrors()
		f.checkRequired(fs.Config)
		if fs.validator != nil {
			if err := fs.validator(ctx, f); err != nil {
				applyError(f, err)
			}
		}
		if !f.Valid() {
			formsValid = false
		}
	}

	if fs.Config.ValidateMax && count > fs.Config.maxNum() {
		fs.Errors = append(fs.Errors, fmt.Sprintf("Please submit at most %d forms.", fs.Config.maxNum()))
	}
	if fs.Config.ValidateMin && count < fs.Config.MinNum {
		fs.Errors = append(fs.Errors, fmt.Sprintf("Please submit at least %d forms.", fs.Config.MinNum))
	}
	if formsValid && len(fs.Errors) == 0 && fs.clean != nil {
		if err := fs.clean(ctx, fs); err != nil {
			fs.Errors = append(fs.Errors, err.Error())
		}
	}

	fs.valid = formsValid && len(fs.Errors) == 0
	return fs.valid
}

// AllValid validates every formset and reports whether all are valid. It
// does not stop at the first invalid formset so every form gets its errors.
func AllValid(ctx context.Context, sets ...*FormSet) bool {
	valid := true
	for _, fs := range sets {
		if fs == nil {
			continue
		}
		if !fs.Validate(ctx) {
			valid = false
		}
	}
	return valid
}

// ValidateForm checks a standalone form against required fields and v.
func ValidateForm(ctx context.Context, f *Form, required []string, v Validator) bool {
	f.resetErrors()
	f.checkRequired(Config{Required: required})
	if v != nil {
		if err := v(ctx, f); err != nil {
			applyError(f, err)
		}
	}
	return f.Valid()
}

func applyError(f *Form, err error) {
	mapping := MapErrors(f.Fields, errorPayload(err))
	for field, messages := range mapping.Fields {
		for _, m := range messages {
			f.AddError(field, m)
		}
	}
	for _, m := range mapping.Form {
		f.AddError(NonFieldErrors, m)
	}
}
