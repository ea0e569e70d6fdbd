package views

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

// FormSetContext is what a formset view renders.
type FormSetContext struct {
	View      string           `json:"view"`
	FormSet   *formset.FormSet `json:"formset"`
	EmptyForm *formset.Form    `json:"emptyForm"`
	Message   string           `json:"message,omitempty"`
}

// FormSetView edits the records of a table as one formset. GET renders
// the records plus extra forms; POST (or PUT) validates the submission and,
// when valid, saves it in one transaction and redirects.
type FormSetView struct {
	base
	view      viewconfig.View
	backend   formset.Backend
	validator formset.Validator
}

// NewFormSetView validates v, which must carry a formset configuration.
func NewFormSetView(v viewconfig.View, b formset.Backend, validator formset.Validator, opts ...Option) (*FormSetView, error) {
	if v.FormSet == nil {
		return nil, fmt.Errorf("%w: %q is not a formset view", viewconfig.ErrInvalidView, v.Name)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %q has no store", viewconfig.ErrInvalidView, v.Name)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &FormSetView{
		base:      base{name: v.Name, template: v.Template, cfg: newConfig(opts)},
		view:      v,
		backend:   b,
		validator: validator,
	}, nil
}

func (fv *FormSetView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		fv.get(w, r)
	case http.MethodPost, http.MethodPut:
		fv.post(w, r)
	default:
		fv.fail(w, r, methodNotAllowed(http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut))
	}
}

// initialOrdering lists the columns of every declared sort field, then the
// primary key, so the rendered rows keep a stable order.
func (fv *FormSetView) initialOrdering() []string {
	pk := fv.view.FormSet.PK
	if pk == "" {
		pk = store.DefaultPK
	}
	var out []string
	seen := map[string]struct{}{}
	add := func(col string) {
		if _, dup := seen[col]; !dup && col != "" {
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	if spec, err := fv.view.Sort.Spec(); err == nil {
		for _, field := range spec {
			for _, col := range field.SortColumns() {
				add(col)
			}
		}
	}
	add(pk)
	return out
}

func (fv *FormSetView) initial(ctx context.Context) ([]store.Record, error) {
	rows, err := fv.backend.List(ctx, store.Query{Table: fv.view.Table, Ordering: fv.initialOrdering()})
	if err != nil {
		return nil, fmt.Errorf("views: %s initial: %w", fv.name, err)
	}
	return rows, nil
}

func (fv *FormSetView) get(w http.ResponseWriter, r *http.Request) {
	rows, err := fv.initial(r.Context())
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	fs, err := formset.New(*fv.view.FormSet, rows, formset.WithValidator(fv.validator))
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	fv.render(w, r, http.StatusOK, fs, PopFlash(w, r))
}

func (fv *FormSetView) post(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fv.fail(w, r, NewStatusError(http.StatusBadRequest, err))
		return
	}
	ctx := r.Context()
	rows, err := fv.initial(ctx)
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	fs, err := formset.Bind(*fv.view.FormSet, r.PostForm, rows, formset.WithValidator(fv.validator))
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	if !fs.Validate(ctx) {
		fv.render(w, r, http.StatusOK, fs, "")
		return
	}

	var saved []store.Record
	err = fv.backend.TxFn(ctx, func(ctx context.Context) error {
		var err error
		saved, err = fs.Save(ctx, fv.backend, fv.view.Table, nil)
		return err
	})
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	fv.cfg.logger.Info("formset saved", "view", fv.name, "records", len(saved), "deleted", len(fs.DeletedForms()))

	var first store.Record
	if len(saved) > 0 {
		first = saved[0]
	}
	SetFlash(w, formset.SuccessMessage(fv.view.SuccessMessage, first))
	http.Redirect(w, r, successURL(fv.view.SuccessURL, r), http.StatusSeeOther)
}

func (fv *FormSetView) render(w http.ResponseWriter, r *http.Request, status int, fs *formset.FormSet, message string) {
	opts, err := fv.renderOptions(r, render.PartialFormSet)
	if err != nil {
		fv.fail(w, r, err)
		return
	}
	opts.Hidden = append(opts.Hidden, render.ManagementFields(fs)...)
	fv.respond(r.Context(), w, r, status, FormSetContext{
		View:      fv.name,
		FormSet:   fs,
		EmptyForm: fs.EmptyForm(),
		Message:   message,
	}, opts)
}

// successURL defaults to the current path and query, which re-renders the
// saved state.
func successURL(configured string, r *http.Request) string {
	if configured != "" {
		return configured
	}
	u := url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	return u.String()
}
