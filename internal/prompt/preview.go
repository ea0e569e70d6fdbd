package prompt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

const doneOption = "(done)"

// PreviewSort walks the sort headers of a view interactively. Every pick
// follows the chosen header link, as a browser would, and reports the
// resulting query string, ordering and SQL ORDER BY terms.
func PreviewSort(ctx context.Context, d Driver, set *viewconfig.Set) error {
	names := set.Names()
	if len(names) == 0 {
		return fmt.Errorf("%w: no views loaded", viewconfig.ErrInvalidView)
	}
	idx, err := d.Choose(ctx, Choice{Message: "View", Options: names})
	if err != nil {
		return err
	}
	if idx < 0 {
		return nil
	}
	view, _ := set.View(names[idx])

	raw, err := d.Ask(ctx, Question{
		Message: "Initial query string",
		Help:    "e.g. o=name&ot=desc",
		Validate: func(s string) error {
			_, err := parseQuery(s)
			return err
		},
	})
	if err != nil {
		return err
	}
	query, err := parseQuery(raw)
	if err != nil {
		return fmt.Errorf("prompt: query: %w", err)
	}

	for {
		helper, err := view.Sort.NewHelper(query)
		if err != nil {
			return err
		}
		if err := d.Show(ctx, describe(helper, query)); err != nil {
			return err
		}

		headers := helper.Headers()
		options := make([]string, 0, len(headers)+1)
		for _, h := range headers {
			options = append(options, headerOption(h))
		}
		options = append(options, doneOption)

		pick, err := d.Choose(ctx, Choice{Message: "Follow header link", Options: options, Default: doneOption})
		if err != nil {
			return err
		}
		if pick < 0 || pick >= len(headers) {
			return nil
		}
		next, err := parseQuery(headers[pick].Link)
		if err != nil {
			return fmt.Errorf("prompt: header link: %w", err)
		}
		query = next
	}
}

func parseQuery(raw string) (url.Values, error) {
	return url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
}

func headerOption(h sorting.Header) string {
	if h.Active == "" {
		return h.Name
	}
	return fmt.Sprintf("%s (%s)", h.Name, h.Active)
}

func describe(h *sorting.Helper, query url.Values) string {
	var b strings.Builder
	fmt.Fprintf(&b, "query:    ?%s\n", query.Encode())
	if field, dir, ok := h.Active(); ok {
		fmt.Fprintf(&b, "active:   %s %s\n", field.Name, dir)
	} else {
		b.WriteString("active:   none\n")
	}
	fmt.Fprintf(&b, "ordering: %s\n", strings.Join(h.Ordering(), ", "))
	fmt.Fprintf(&b, "order by: %s", strings.Join(sorting.OrderByClauses(h.Ordering()), ", "))
	return b.String()
}
