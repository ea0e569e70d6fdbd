package sorting

import "strings"

// OrderByClauses converts an ordering produced by Helper.Ordering into SQL
// ORDER BY terms ("name", "-name" -> "name DESC"). Empty entries are dropped.
func OrderByClauses(ordering []string) []string {
	if len(ordering) == 0 {
		return nil
	}
	out := make([]string, 0, len(ordering))
	for _, entry := range ordering {
		entry = strings.TrimSpace(entry)
		desc := strings.HasPrefix(entry, "-")
		column := strings.TrimLeft(entry, "-")
		if column == "" {
			continue
		}
		if desc {
			out = append(out, column+" DESC")
			continue
		}
		out = append(out, column)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitOrdering separates an ordering entry into its column and direction.
func SplitOrdering(entry string) (string, Direction) {
	entry = strings.TrimSpace(entry)
	if strings.HasPrefix(entry, "-") {
		return strings.TrimLeft(entry, "-"), Descending
	}
	return entry, Ascending
}
