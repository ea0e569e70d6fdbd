package views

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-listviews/pkg/paginate"
	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

// Column is a rendered table header. Sort is nil for columns that cannot
// be sorted.
type Column struct {
	Name  string          `json:"name"`
	Label string          `json:"label"`
	Sort  *sorting.Header `json:"sort,omitempty"`
}

// SortContext describes the active ordering.
type SortContext struct {
	Field          string            `json:"field,omitempty"`
	Direction      sorting.Direction `json:"direction,omitempty"`
	DirectionLabel string            `json:"directionLabel,omitempty"`
	FieldParam     string            `json:"fieldParam"`
	DirectionParam string            `json:"directionParam"`
	Headers        []sorting.Header  `json:"headers"`
}

// SearchContext echoes the search box state.
type SearchContext struct {
	Param string               `json:"param"`
	Query string               `json:"query"`
	Keep  []render.HiddenField `json:"keep,omitempty"`
}

// FilterContext lists one query-parameter filter with its current value
// and the distinct values available, when the store can enumerate them.
type FilterContext struct {
	Param   string               `json:"param"`
	Column  string               `json:"column"`
	Value   string               `json:"value,omitempty"`
	Choices []store.Choice       `json:"choices,omitempty"`
	Clear   string               `json:"clear"`
	Keep    []render.HiddenField `json:"keep,omitempty"`
}

// PageContext is the pagination state with ready-made links.
type PageContext struct {
	Number       int    `json:"number"`
	Size         int    `json:"size"`
	Total        int    `json:"total"`
	Pages        int    `json:"pages"`
	HasNext      bool   `json:"hasNext"`
	HasPrevious  bool   `json:"hasPrevious"`
	NextLink     string `json:"nextLink,omitempty"`
	PreviousLink string `json:"previousLink,omitempty"`
}

// LimitsContext is the page-size selector state.
type LimitsContext struct {
	Param    string           `json:"param"`
	Selected string           `json:"selected"`
	Choices  []paginate.Limit `json:"choices,omitempty"`
}

// Context is what a list view renders.
type Context struct {
	View    string          `json:"view"`
	Objects []store.Record  `json:"objects"`
	Count   int             `json:"count"`
	Columns []Column        `json:"columns"`
	Sort    SortContext     `json:"sort"`
	Search  *SearchContext  `json:"search,omitempty"`
	Filters []FilterContext `json:"filters,omitempty"`
	Page    *PageContext    `json:"page,omitempty"`
	Limits  *LimitsContext  `json:"limits,omitempty"`
}

// ListView serves GET and HEAD for a list view.
type ListView struct {
	base
	view  viewconfig.View
	store store.Store
}

// NewListView validates v and returns its handler.
func NewListView(v viewconfig.View, st store.Store, opts ...Option) (*ListView, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: %q has no store", viewconfig.ErrInvalidView, v.Name)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &ListView{
		base:  base{name: v.Name, template: v.Template, cfg: newConfig(opts)},
		view:  v,
		store: st,
	}, nil
}

func (lv *ListView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		lv.fail(w, r, methodNotAllowed(http.MethodGet, http.MethodHead))
		return
	}
	opts, err := lv.renderOptions(r, render.PartialList)
	if err != nil {
		lv.fail(w, r, err)
		return
	}
	data, err := lv.Build(r.Context(), r.URL.Query(), opts)
	if err != nil {
		lv.fail(w, r, err)
		return
	}
	lv.respond(r.Context(), w, r, http.StatusOK, data, opts)
}

// Build runs the list pipeline for values: search, filters, sorting,
// count, pagination and the page of records.
func (lv *ListView) Build(ctx context.Context, values url.Values, opts render.RenderOptions) (Context, error) {
	v := lv.view
	out := Context{View: v.Name}

	helper, err := v.Sort.NewHelper(values)
	if err != nil {
		return Context{}, fmt.Errorf("views: %s sort: %w", v.Name, err)
	}
	out.Sort = sortContext(helper, opts)
	out.Columns = columns(v, helper)

	var searchFilter search.Filter
	if v.Search.Enabled() && !v.Search.Disabled {
		searchFilter, err = v.Search.FromQuery(values)
		if err != nil {
			return Context{}, fmt.Errorf("views: %s search: %w", v.Name, err)
		}
		param := v.Search.ParamName()
		out.Search = &SearchContext{
			Param: param,
			Query: v.Search.Query(values),
			Keep:  render.QueryFields(values, param, paginate.DefaultPageParam),
		}
	}
	out.Filters = lv.filters(ctx, values)

	q := store.Query{
		Table:    v.Table,
		Filter:   search.Combine(searchFilter, v.Filters.Filter(values)),
		Ordering: helper.Ordering(),
	}

	total, err := lv.store.Count(ctx, q)
	if err != nil {
		return Context{}, fmt.Errorf("views: %s count: %w", v.Name, err)
	}
	out.Count = total

	if v.Limits.Enabled() {
		size := v.Limits.Resolve(values, total)
		page := paginate.NewPage(paginate.ParsePage(values, paginate.DefaultPageParam), size, total)
		q.Limit = page.Size
		q.Offset = page.Offset()
		out.Page = pageContext(page, values)
		out.Limits = &LimitsContext{
			Param:    v.Limits.ParamName(),
			Selected: v.Limits.Selected(values),
			Choices:  v.Limits.Choices(),
		}
	}

	out.Objects, err = lv.store.List(ctx, q)
	if err != nil {
		return Context{}, fmt.Errorf("views: %s list: %w", v.Name, err)
	}
	if out.Objects == nil {
		out.Objects = []store.Record{}
	}
	return out, nil
}

func (lv *ListView) filters(ctx context.Context, values url.Values) []FilterContext {
	if len(lv.view.Filters) == 0 {
		return nil
	}
	applied := lv.view.Filters.Applied(values)

	out := make([]FilterContext, 0, len(lv.view.Filters))
	for _, f := range lv.view.Filters {
		param := f.ParamName()
		reset := cloneValues(values)
		reset.Del(param)
		reset.Del(paginate.DefaultPageParam)
		fc := FilterContext{
			Param:  param,
			Column: f.Column,
			Value:  applied[param],
			Clear:  "?" + reset.Encode(),
			Keep:   render.QueryFields(reset),
		}
		choices, err := lv.filterChoices(ctx, f)
		if err != nil {
			lv.cfg.logger.Warn("filter choices", "view", lv.name, "column", f.Column, "error", err)
		}
		fc.Choices = choices
		out = append(out, fc)
	}
	return out
}

// filterChoices lists the options of f. Labels come from f.LabelColumn when
// it is set and the store can pair values with labels; otherwise each value
// is its own label. Stores that cannot enumerate values yield no choices.
func (lv *ListView) filterChoices(ctx context.Context, f search.FilterField) ([]store.Choice, error) {
	if label := strings.TrimSpace(f.LabelColumn); label != "" {
		if ld, ok := lv.store.(store.LabelDistincter); ok {
			return ld.DistinctLabels(ctx, lv.view.Table, f.Column, label)
		}
	}
	distinct, ok := lv.store.(store.Distincter)
	if !ok {
		return nil, nil
	}
	values, err := distinct.Distinct(ctx, lv.view.Table, f.Column)
	if err != nil {
		return nil, err
	}
	choices := make([]store.Choice, 0, len(values))
	for _, v := range values {
		choices = append(choices, store.Choice{Value: v, Label: fmt.Sprint(v)})
	}
	return choices, nil
}

func sortContext(h *sorting.Helper, opts render.RenderOptions) SortContext {
	sc := SortContext{
		FieldParam:     h.FieldParam(),
		DirectionParam: h.DirectionParam(),
		Headers:        h.Headers(),
	}
	if field, dir, ok := h.Active(); ok {
		sc.Field = field.Name
		sc.Direction = dir
		sc.DirectionLabel = render.DirectionLabel(opts, dir)
	}
	return sc
}

// columns returns the declared columns, or one column per sort field when
// none are declared.
func columns(v viewconfig.View, h *sorting.Helper) []Column {
	headers := make(map[string]sorting.Header)
	for _, hd := range h.Headers() {
		headers[hd.Name] = hd
	}

	var out []Column
	if len(v.Columns) == 0 {
		for _, hd := range h.Headers() {
			out = append(out, Column{Name: hd.Name, Label: hd.Name, Sort: &hd})
		}
		return out
	}
	for _, c := range v.Columns {
		col := Column{Name: c.Name, Label: v.ColumnLabel(c.Name)}
		if hd, ok := headers[c.Name]; ok {
			col.Sort = &hd
		}
		out = append(out, col)
	}
	return out
}

func pageContext(p paginate.Page, values url.Values) *PageContext {
	pc := &PageContext{
		Number:      p.Number,
		Size:        p.Size,
		Total:       p.Total,
		Pages:       p.Pages(),
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
	if pc.HasNext {
		pc.NextLink = paginate.Link(values, paginate.DefaultPageParam, p.Next())
	}
	if pc.HasPrevious {
		pc.PreviousLink = paginate.Link(values, paginate.DefaultPageParam, p.Previous())
	}
	return pc
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
