package views

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

// PKPathValue is the path wildcard holding the parent key of an update.
const PKPathValue = "pk"

// InlinesContext is what an inlines view renders.
type InlinesContext struct {
	View    string                      `json:"view"`
	Object  store.Record                `json:"object,omitempty"`
	Form    *formset.Form               `json:"form"`
	Inlines []*formset.FormSet          `json:"inlines"`
	Named   map[string]*formset.FormSet `json:"named,omitempty"`
	Message string                      `json:"message,omitempty"`
}

// InlinesView creates or updates a parent record together with its inline
// formsets. Requests without the pk path value create a new parent.
type InlinesView struct {
	base
	view    viewconfig.View
	group   formset.InlineGroup
	backend Backend
}

// NewInlinesView validates v, which must carry an inline group.
func NewInlinesView(v viewconfig.View, b Backend, opts ...Option) (*InlinesView, error) {
	if v.Inlines == nil {
		return nil, fmt.Errorf("%w: %q is not an inlines view", viewconfig.ErrInvalidView, v.Name)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %q has no store", viewconfig.ErrInvalidView, v.Name)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &InlinesView{
		base:    base{name: v.Name, template: v.Template, cfg: newConfig(opts)},
		view:    v,
		group:   *v.Inlines,
		backend: b,
	}, nil
}

// WithValidators attaches validators to the parent form and to the inlines
// by name. Validators cannot be declared in view documents.
func (iv *InlinesView) WithValidators(parent formset.Validator, inlines map[string]formset.Validator) *InlinesView {
	iv.group.Validator = parent
	iv.group.Inlines = append([]formset.Inline(nil), iv.group.Inlines...)
	for i := range iv.group.Inlines {
		if v, ok := inlines[iv.group.Inlines[i].Name]; ok {
			iv.group.Inlines[i].Validator = v
		}
	}
	return iv
}

func (iv *InlinesView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut:
	default:
		iv.fail(w, r, methodNotAllowed(http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut))
		return
	}

	parent, err := iv.parent(r)
	if err != nil {
		iv.fail(w, r, err)
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		res, err := iv.group.Construct(ctx, iv.backend, parent)
		if err != nil {
			iv.fail(w, r, err)
			return
		}
		iv.render(w, r, parent, res, PopFlash(w, r))
		return
	}

	if err := r.ParseForm(); err != nil {
		iv.fail(w, r, NewStatusError(http.StatusBadRequest, err))
		return
	}
	res, err := iv.group.Process(ctx, r.PostForm, parent, iv.backend)
	if err != nil {
		iv.fail(w, r, err)
		return
	}
	if !res.Valid {
		iv.render(w, r, parent, res, "")
		return
	}
	iv.cfg.logger.Info("inlines saved", "view", iv.name, "table", iv.group.Table, "pk", res.Object[iv.pk()])
	SetFlash(w, formset.SuccessMessage(iv.view.SuccessMessage, res.Object))
	target := successURL(formset.SuccessMessage(iv.view.SuccessURL, res.Object), r)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (iv *InlinesView) pk() string {
	if iv.group.PK != "" {
		return iv.group.PK
	}
	return store.DefaultPK
}

func (iv *InlinesView) parent(r *http.Request) (store.Record, error) {
	key := r.PathValue(PKPathValue)
	if key == "" {
		return nil, nil
	}
	rec, err := iv.backend.Get(r.Context(), iv.group.Table, key)
	if err != nil {
		return nil, fmt.Errorf("views: %s parent: %w", iv.name, err)
	}
	return rec, nil
}

func (iv *InlinesView) render(w http.ResponseWriter, r *http.Request, parent store.Record, res *formset.Result, message string) {
	opts, err := iv.renderOptions(r, render.PartialInlines)
	if err != nil {
		iv.fail(w, r, err)
		return
	}
	opts.Hidden = append(opts.Hidden, render.ManagementFields(res.Inlines...)...)
	iv.respond(r.Context(), w, r, http.StatusOK, InlinesContext{
		View:    iv.name,
		Object:  parent,
		Form:    res.Form,
		Inlines: res.Inlines,
		Named:   res.Named,
		Message: message,
	}, opts)
}
