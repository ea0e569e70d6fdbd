package formset

import (
	"context"
	"fmt"

	"github.com/goliatone/go-listviews/pkg/store"
)

// Save deletes forms marked for deletion and stores every changed form in
// table. Values in defaults are set on each saved record, which is how
// inline formsets attach children to their parent. Unchanged initial forms
// are left alone. Save must run after a successful Validate.
func (fs *FormSet) Save(ctx context.Context, saver store.Saver, table string, defaults store.Record) ([]store.Record, error) {
	if !fs.Valid() {
		return nil, fmt.Errorf("formset: save %s: formset is not valid", fs.Prefix())
	}
	pk := fs.Config.pk()

	for _, f := range fs.DeletedForms() {
		key, ok := f.Initial[pk]
		if !ok {
			continue
		}
		if err := saver.Delete(ctx, table, key); err != nil {
			return nil, fmt.Errorf("formset: delete %s: %w", f.Prefix, err)
		}
	}

	saved := make([]store.Record, 0, len(fs.Forms))
	for _, f := range fs.Active() {
		if !f.Extra && !f.Changed() {
			saved = append(saved, f.Record())
			continue
		}
		rec := f.Record()
		for k, v := range defaults {
			rec[k] = v
		}
		out, err := saver.Save(ctx, table, rec)
		if err != nil {
			return nil, fmt.Errorf("formset: save %s: %w", f.Prefix, err)
		}
		saved = append(saved, out)
	}
	return saved, nil
}
