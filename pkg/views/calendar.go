package views

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-listviews/pkg/calendar"
	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

// CalendarContext is what a calendar view renders.
type CalendarContext struct {
	View          string         `json:"view"`
	Month         calendar.Month `json:"month"`
	MonthLabel    string         `json:"monthLabel"`
	Year          int            `json:"year"`
	WeekdayLabels []string       `json:"weekdayLabels"`
	NextLink      string         `json:"nextLink"`
	PreviousLink  string         `json:"previousLink"`
	Search        *SearchContext `json:"search,omitempty"`
}

// CalendarView serves a month grid of the records whose date range
// intersects the visible weeks.
type CalendarView struct {
	base
	view  viewconfig.View
	store store.Store
}

// NewCalendarView validates v, which must carry a calendar configuration.
func NewCalendarView(v viewconfig.View, st store.Store, opts ...Option) (*CalendarView, error) {
	if v.Calendar == nil {
		return nil, fmt.Errorf("%w: %q is not a calendar view", viewconfig.ErrInvalidView, v.Name)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %q has no store", viewconfig.ErrInvalidView, v.Name)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	cv := &CalendarView{
		base:  base{name: v.Name, template: v.Template, cfg: newConfig(opts)},
		view:  v,
		store: st,
	}
	if cv.view.Calendar.Now == nil {
		cfgCopy := *cv.view.Calendar
		cfgCopy.Now = cv.cfg.now
		cv.view.Calendar = &cfgCopy
	}
	return cv, nil
}

func (cv *CalendarView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		cv.fail(w, r, methodNotAllowed(http.MethodGet, http.MethodHead))
		return
	}
	opts, err := cv.renderOptions(r, render.PartialCalendar)
	if err != nil {
		cv.fail(w, r, err)
		return
	}
	data, err := cv.Build(r.Context(), r.URL.Query(), opts)
	if err != nil {
		cv.fail(w, r, err)
		return
	}
	cv.respond(r.Context(), w, r, http.StatusOK, data, opts)
}

// Build parses the requested month, loads the records overlapping its
// visible range and lays them out.
func (cv *CalendarView) Build(ctx context.Context, values url.Values, opts render.RenderOptions) (CalendarContext, error) {
	v := cv.view
	cfg := *v.Calendar

	month, err := cfg.MonthFromQuery(values)
	if err != nil {
		return CalendarContext{}, err
	}

	filters := []search.Filter{cfg.Filter(month), v.Filters.Filter(values)}
	var searchCtx *SearchContext
	if v.Search.Enabled() && !v.Search.Disabled {
		f, err := v.Search.FromQuery(values)
		if err != nil {
			return CalendarContext{}, fmt.Errorf("views: %s search: %w", v.Name, err)
		}
		filters = append(filters, f)
		searchCtx = &SearchContext{Param: v.Search.ParamName(), Query: v.Search.Query(values)}
	}

	records, err := cv.store.List(ctx, store.Query{
		Table:    v.Table,
		Filter:   search.Combine(filters...),
		Ordering: []string{cfg.DateField},
	})
	if err != nil {
		return CalendarContext{}, fmt.Errorf("views: %s list: %w", v.Name, err)
	}

	grid, err := cfg.BuildMonth(month, calendar.EventsFrom(cfg, records))
	if err != nil {
		return CalendarContext{}, err
	}

	return CalendarContext{
		View:          v.Name,
		Month:         grid,
		MonthLabel:    render.MonthLabel(opts, grid.Month.Month()),
		Year:          grid.Month.Year(),
		WeekdayLabels: render.WeekdayLabels(opts, grid.Weekdays),
		NextLink:      monthLink(cfg, values, grid.Next),
		PreviousLink:  monthLink(cfg, values, grid.Previous),
		Search:        searchCtx,
	}, nil
}

func monthLink(cfg calendar.Config, values url.Values, month time.Time) string {
	p := cfg.FormatMonth(month)
	next := cloneValues(values)
	next.Set("year", p.Year)
	next.Set("month", p.Month)
	return "?" + next.Encode()
}
