package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

type scripted struct {
	inputs  []string
	selects []int
	infos   []string
	options [][]string
}

func (s *scripted) Ask(_ context.Context, q Question) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	out := s.inputs[0]
	s.inputs = s.inputs[1:]
	if q.Validate != nil {
		if err := q.Validate(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (s *scripted) Choose(_ context.Context, c Choice) (int, error) {
	if len(s.selects) == 0 {
		return 0, errors.New("no selection scripted")
	}
	s.options = append(s.options, c.Options)
	out := s.selects[0]
	s.selects = s.selects[1:]
	return out, nil
}

func (s *scripted) Show(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestPreviewSort_FollowsHeaderLinks(t *testing.T) {
	set, err := viewconfig.NewSet(viewconfig.View{
		Name:  "products",
		Table: "products",
		Sort: sorting.Config{Aliases: []sorting.Field{
			{Name: "name", Alias: "by_name"},
			{Name: "price", Alias: "price", Columns: []string{"price", "name"}},
		}},
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	// pick the view, then price twice (asc then desc), then done.
	d := &scripted{inputs: []string{"?page=2"}, selects: []int{0, 1, 1, 2}}
	if err := PreviewSort(context.Background(), d, set); err != nil {
		t.Fatalf("preview: %v", err)
	}

	if len(d.infos) != 3 {
		t.Fatalf("infos = %d, want 3", len(d.infos))
	}
	if !strings.Contains(d.infos[0], "active:   none") {
		t.Fatalf("first report = %q", d.infos[0])
	}
	if !strings.Contains(d.infos[1], "order by: price, name") {
		t.Fatalf("second report = %q", d.infos[1])
	}
	last := d.infos[2]
	for _, want := range []string{"?o=price&ot=desc&page=2", "active:   price desc", "order by: price DESC, name DESC"} {
		if !strings.Contains(last, want) {
			t.Fatalf("last report missing %q:\n%s", want, last)
		}
	}
	if diff := cmp.Diff([]string{"name", "price (desc)", doneOption}, d.options[3]); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewSort_RejectsEmptySet(t *testing.T) {
	err := PreviewSort(context.Background(), &scripted{}, &viewconfig.Set{})
	if !errors.Is(err, viewconfig.ErrInvalidView) {
		t.Fatalf("err = %v, want ErrInvalidView", err)
	}
}

func TestPreviewSort_ValidatesQuery(t *testing.T) {
	set, err := viewconfig.NewSet(viewconfig.View{
		Name:  "products",
		Table: "products",
		Sort:  sorting.Config{Fields: []string{"name"}},
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	d := &scripted{inputs: []string{"o=%zz"}, selects: []int{0}}
	if err := PreviewSort(context.Background(), d, set); err == nil {
		t.Fatal("expected malformed query to be rejected")
	}
	if len(d.infos) != 0 {
		t.Fatalf("nothing should be shown, got %v", d.infos)
	}
}
