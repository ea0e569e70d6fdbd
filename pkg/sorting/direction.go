package sorting

import "strings"

// Direction is the ordering direction carried by the direction parameter.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection normalises a raw query value. Anything other than a
// case-insensitive "desc" resolves to Ascending; the boolean reports whether
// the raw value was recognised.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(Descending):
		return Descending, true
	case string(Ascending):
		return Ascending, true
	default:
		return Ascending, false
	}
}

// Inverse flips the direction.
func (d Direction) Inverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

func (d Direction) String() string { return string(d) }
