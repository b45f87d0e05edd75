// Package view derives the presentable slice of a cached list: free-text
// search, equality filters on enum fields, stable sort and a grow-only
// visible window. Pure and synchronous; recompute on every input change.
package view

import (
	"sort"
	"strings"
)

type SortDir int

const (
	Ascending SortDir = iota
	Descending
)

// DefaultPageSize is how many rows are visible before any "load more".
const DefaultPageSize = 10

// List holds the presentation inputs for one list screen. The source slice
// itself is passed to Apply/Visible so the cache stays the single owner of
// the data.
type List[T any] struct {
	pageSize     int
	loads        int
	search       string
	searchFields []func(T) string
	filters      map[string]filter[T]
	sortField    func(T) string
	sortDir      SortDir
}

type filter[T any] struct {
	field func(T) string
	want  string
}

// NewList creates a list view with the given page size and the text fields
// the search box matches against.
func NewList[T any](pageSize int, searchFields ...func(T) string) *List[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &List[T]{
		pageSize:     pageSize,
		searchFields: searchFields,
		filters:      make(map[string]filter[T]),
	}
}

// SetSearch updates the free-text term and resets the visible window.
func (l *List[T]) SetSearch(term string) {
	l.search = term
	l.loads = 0
}

// SetFilter applies an equality filter on a field. An empty value clears the
// filter. Changing a filter resets the visible window.
func (l *List[T]) SetFilter(name string, field func(T) string, value string) {
	if value == "" {
		delete(l.filters, name)
	} else {
		l.filters[name] = filter[T]{field: field, want: value}
	}
	l.loads = 0
}

// SetSort sets the sort field and direction and resets the visible window.
func (l *List[T]) SetSort(field func(T) string, dir SortDir) {
	l.sortField = field
	l.sortDir = dir
	l.loads = 0
}

// LoadMore grows the visible window by one page.
func (l *List[T]) LoadMore() {
	l.loads++
}

// ResetWindow shrinks the visible window back to one page, as a refresh does.
func (l *List[T]) ResetWindow() {
	l.loads = 0
}

// Apply returns the fully filtered and sorted sequence. The sort is stable:
// ties keep their source order.
func (l *List[T]) Apply(src []T) []T {
	out := make([]T, 0, len(src))
	term := strings.ToLower(l.search)
	for _, item := range src {
		if !l.matchesSearch(item, term) {
			continue
		}
		if !l.matchesFilters(item) {
			continue
		}
		out = append(out, item)
	}

	if l.sortField != nil {
		field := l.sortField
		desc := l.sortDir == Descending
		sort.SliceStable(out, func(i, j int) bool {
			a, b := field(out[i]), field(out[j])
			if desc {
				return a > b
			}
			return a < b
		})
	}
	return out
}

// Visible returns the current window: a prefix of Apply whose length is
// min(len, pageSize*(loads+1)).
func (l *List[T]) Visible(src []T) []T {
	full := l.Apply(src)
	n := l.pageSize * (l.loads + 1)
	if n > len(full) {
		n = len(full)
	}
	return full[:n]
}

// HasMore reports whether another page exists beyond the current window.
func (l *List[T]) HasMore(src []T) bool {
	return len(l.Apply(src)) > l.pageSize*(l.loads+1)
}

func (l *List[T]) matchesSearch(item T, term string) bool {
	if term == "" || len(l.searchFields) == 0 {
		return true
	}
	for _, field := range l.searchFields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func (l *List[T]) matchesFilters(item T) bool {
	for _, f := range l.filters {
		if f.field(item) != f.want {
			return false
		}
	}
	return true
}
