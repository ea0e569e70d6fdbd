package paginate

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageParam carries the 1-based page number.
const DefaultPageParam = "page"

// Page describes one page of a collection.
type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
}

// NewPage clamps number into the valid page range for total items.
func NewPage(number, size, total int) Page {
	p := Page{Number: number, Size: size, Total: total}
	if p.Number < 1 {
		p.Number = 1
	}
	if pages := p.Pages(); p.Number > pages {
		p.Number = pages
	}
	return p
}

// Pages returns the page count. An empty collection still has one page.
func (p Page) Pages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	if p.Size <= 0 || p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext() bool     { return p.Number < p.Pages() }
func (p Page) HasPrevious() bool { return p.Number > 1 }

// Next returns the following page number, or the current one on the last page.
func (p Page) Next() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// Previous returns the preceding page number, or 1.
func (p Page) Previous() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return 1
}

// ParsePage reads a page number from values. Missing, malformed or
// non-positive numbers yield 1.
func ParsePage(values url.Values, param string) int {
	if strings.TrimSpace(param) == "" {
		param = DefaultPageParam
	}
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(param)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Link returns a query string selecting page number while keeping the other
// parameters of values.
func Link(values url.Values, param string, number int) string {
	if strings.TrimSpace(param) == "" {
		param = DefaultPageParam
	}
	next := make(url.Values, len(values)+1)
	for k, v := range values {
		next[k] = append([]string(nil), v...)
	}
	next.Set(param, strconv.Itoa(number))
	return "?" + next.Encode()
}
