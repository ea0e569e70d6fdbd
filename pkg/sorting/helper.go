package sorting

import (
	"fmt"
	"net/url"
	"strings"
)

// Option configures a Helper before it resolves the active sort.
type Option func(*options)

type options struct {
	fieldParam       string
	directionParam   string
	defaultField     string
	defaultDirection Direction
}

// WithFieldParam overrides the query key that carries the active alias.
func WithFieldParam(name string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.fieldParam = trimmed
		}
	}
}

// WithDirectionParam overrides the query key that carries the direction.
func WithDirectionParam(name string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.directionParam = trimmed
		}
	}
}

// WithDefault selects the field and direction applied when the query carries
// neither control parameter. An empty direction means Ascending.
func WithDefault(field string, direction Direction) Option {
	return func(o *options) {
		o.defaultField = strings.TrimSpace(field)
		if direction.Valid() {
			o.defaultDirection = direction
		}
	}
}

// Helper holds the sort state derived from one request.
type Helper struct {
	params         url.Values
	spec           Spec
	byAlias        map[string]int
	byName         map[string]int
	fieldParam     string
	directionParam string

	active    int
	direction Direction
}

// Header is a precomputed view of one sortable field for presentation layers
// that cannot call methods on the helper.
type Header struct {
	Name     string    `json:"name"`
	Alias    string    `json:"alias"`
	Active   Direction `json:"active,omitempty"`
	Link     string    `json:"link"`
	AscLink  string    `json:"ascLink"`
	DescLink string    `json:"descLink"`
}

// NewHelper snapshots query and resolves the active field and direction.
//
// The active field is the spec entry whose alias equals the field parameter.
// Names and aliases are trimmed before matching.
// When the field parameter is present without a direction parameter the
// direction is Ascending. The configured default applies only when neither
// parameter is present.
func NewHelper(query url.Values, spec Spec, opts ...Option) (*Helper, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cfg := options{
		fieldParam:       DefaultFieldParam,
		directionParam:   DefaultDirectionParam,
		defaultDirection: Ascending,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.fieldParam == cfg.directionParam {
		return nil, fmt.Errorf("%w: field and direction parameters share the name %q", ErrImproperlyConfigured, cfg.fieldParam)
	}

	h := &Helper{
		params:         cloneValues(query),
		spec:           spec,
		byAlias:        make(map[string]int, len(spec)),
		byName:         make(map[string]int, len(spec)),
		fieldParam:     cfg.fieldParam,
		directionParam: cfg.directionParam,
		active:         -1,
		direction:      Ascending,
	}
	for i, field := range h.spec {
		h.byAlias[field.Alias] = i
		h.byName[field.Name] = i
	}

	rawField, hasField := firstValue(h.params, h.fieldParam)
	rawDirection, hasDirection := firstValue(h.params, h.directionParam)

	switch {
	case hasField || hasDirection:
		if idx, ok := h.byAlias[rawField]; ok {
			h.active = idx
		}
		if hasDirection {
			h.direction, _ = ParseDirection(rawDirection)
		}
	case cfg.defaultField != "":
		idx, ok := h.byName[cfg.defaultField]
		if !ok {
			return nil, fmt.Errorf("%w: default %q", ErrUnknownField, cfg.defaultField)
		}
		h.active = idx
		h.direction = cfg.defaultDirection
	}

	return h, nil
}

// NewHelper resolves the spec from c and builds a helper for query.
func (c Config) NewHelper(query url.Values) (*Helper, error) {
	spec, err := c.Spec()
	if err != nil {
		return nil, err
	}
	return NewHelper(query, spec, c.Options()...)
}

// Ordering returns the ordering for the active field, one entry per column,
// with a leading "-" for descending order. It returns nil when no field is
// active.
func (h *Helper) Ordering() []string {
	if h == nil || h.active < 0 {
		return nil
	}
	columns := h.spec[h.active].SortColumns()
	out := make([]string, 0, len(columns))
	for _, column := range columns {
		if h.direction == Descending {
			out = append(out, "-"+column)
			continue
		}
		out = append(out, column)
	}
	return out
}

// Active returns the active field and direction.
func (h *Helper) Active() (Field, Direction, bool) {
	if h == nil || h.active < 0 {
		return Field{}, "", false
	}
	return h.spec[h.active], h.direction, true
}

// IsActive returns the active direction when field is the active field and an
// empty Direction otherwise. Callers test the result for emptiness.
func (h *Helper) IsActive(field string) (Direction, error) {
	idx, err := h.lookup(field)
	if err != nil {
		return "", err
	}
	if !h.isActive(idx) {
		return "", nil
	}
	return h.direction, nil
}

// IsActiveDirection reports whether field is active in the given direction.
func (h *Helper) IsActiveDirection(field string, direction Direction) (bool, error) {
	active, err := h.IsActive(field)
	if err != nil {
		return false, err
	}
	return active != "" && active == direction, nil
}

// Link returns a query string selecting field. When field is already active
// the direction is toggled, otherwise the link starts ascending.
func (h *Helper) Link(field string) (string, error) {
	idx, err := h.lookup(field)
	if err != nil {
		return "", err
	}
	direction := Ascending
	if h.isActive(idx) {
		direction = h.direction.Inverse()
	}
	return h.link(idx, direction), nil
}

// LinkDirection returns a query string selecting field in an explicit
// direction. An invalid direction falls back to the toggle behaviour of Link.
func (h *Helper) LinkDirection(field string, direction Direction) (string, error) {
	if !direction.Valid() {
		return h.Link(field)
	}
	idx, err := h.lookup(field)
	if err != nil {
		return "", err
	}
	return h.link(idx, direction), nil
}

// Fields returns a copy of the spec the helper was built with.
func (h *Helper) Fields() Spec {
	if h == nil {
		return nil
	}
	return append(Spec(nil), h.spec...)
}

// Alias returns the public alias for field.
func (h *Helper) Alias(field string) (string, error) {
	idx, err := h.lookup(field)
	if err != nil {
		return "", err
	}
	return h.spec[idx].Alias, nil
}

// FieldParam returns the query key carrying the active alias.
func (h *Helper) FieldParam() string { return h.fieldParam }

// DirectionParam returns the query key carrying the direction.
func (h *Helper) DirectionParam() string { return h.directionParam }

// Headers precomputes link and state data for every field name, in order of
// first declaration. A name declared under several aliases yields one header
// carrying its link alias.
func (h *Helper) Headers() []Header {
	if h == nil {
		return nil
	}
	out := make([]Header, 0, len(h.byName))
	seen := make(map[string]struct{}, len(h.byName))
	for _, entry := range h.spec {
		if _, dup := seen[entry.Name]; dup {
			continue
		}
		seen[entry.Name] = struct{}{}
		i := h.byName[entry.Name]
		field := h.spec[i]
		header := Header{
			Name:     field.Name,
			Alias:    field.Alias,
			AscLink:  h.link(i, Ascending),
			DescLink: h.link(i, Descending),
		}
		if h.isActive(i) {
			header.Active = h.direction
			header.Link = h.link(i, h.direction.Inverse())
		} else {
			header.Link = header.AscLink
		}
		out = append(out, header)
	}
	return out
}

// isActive reports whether the entry at idx names the active field, whichever
// of its aliases selected it.
func (h *Helper) isActive(idx int) bool {
	return h.active >= 0 && h.spec[idx].Name == h.spec[h.active].Name
}

func (h *Helper) lookup(field string) (int, error) {
	if h == nil {
		return -1, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	idx, ok := h.byName[strings.TrimSpace(field)]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return idx, nil
}

func (h *Helper) link(idx int, direction Direction) string {
	params := cloneValues(h.params)
	params.Set(h.fieldParam, h.spec[idx].Alias)
	params.Set(h.directionParam, string(direction))
	return "?" + params.Encode()
}

func firstValue(values url.Values, key string) (string, bool) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return "", false
	}
	return raw[0], true
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}
