// Package catalog holds the browse state of the vibedex catalog browser and
// the flows that drive it: pagination, detail selection, and the protected
// resource demo.
package catalog

import (
	"github.com/vibedex/vibedex/pkg/types"
)

// SortMode selects the ordering of the visible list.
type SortMode string

const (
	// SortByName orders items by locale-aware, case-insensitive name.
	SortByName SortMode = "name"
	// SortByNumber orders items by their display index.
	SortByNumber SortMode = "number"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Item is one loaded catalog entry. Index is its 1-based display rank.
type Item struct {
	Name  string
	URL   string
	Index int
}

// State is a snapshot of the browser. Values handed out by the controller
// are copies; Items must not be mutated by callers.
type State struct {
	Limit  int
	Offset int
	Items  []Item

	SearchQuery     string
	SortMode        SortMode
	NameDirection   Direction
	NumberDirection Direction

	SelectedURL string

	ListLoading bool
	ListError   string

	DetailLoading bool
	DetailError   string
	Detail        *types.Detail

	DemoLoading bool
	DemoError   string
	DemoResult  any
}

// NewState returns the initial state for pages of limit items.
func NewState(limit int) State {
	return State{
		Limit:           limit,
		SortMode:        SortByNumber,
		NameDirection:   Asc,
		NumberDirection: Asc,
	}
}

// ActiveDirection returns the direction of the current sort mode.
func (s State) ActiveDirection() Direction {
	if s.SortMode == SortByName {
		return s.NameDirection
	}
	return s.NumberDirection
}

// Reducers. Each returns a new State and never mutates its input's slices.

func toggleSort(s State, mode SortMode) State {
	if s.SortMode != mode {
		s.SortMode = mode
		if mode == SortByName {
			s.NameDirection = Asc
		} else {
			s.NumberDirection = Asc
		}
		return s
	}
	if mode == SortByName {
		s.NameDirection = s.NameDirection.flip()
	} else {
		s.NumberDirection = s.NumberDirection.flip()
	}
	return s
}

func setSearch(s State, query string) State {
	s.SearchQuery = query
	return s
}

func beginPage(s State) State {
	s.ListLoading = true
	s.ListError = ""
	return s
}

func appendPage(s State, results []types.NamedResource) State {
	items := make([]Item, len(s.Items), len(s.Items)+len(results))
	copy(items, s.Items)
	for i, r := range results {
		items = append(items, Item{Name: r.Name, URL: r.URL, Index: s.Offset + i + 1})
	}
	s.Items = items
	s.Offset += s.Limit
	s.ListLoading = false
	return s
}

func failPage(s State, message string) State {
	s.ListLoading = false
	s.ListError = message
	return s
}

func selectCached(s State, url string, detail *types.Detail) State {
	s.SelectedURL = url
	s.DetailError = ""
	s.DetailLoading = false
	s.Detail = detail
	return s
}

func beginDetail(s State, url string) State {
	s.SelectedURL = url
	s.DetailError = ""
	s.DetailLoading = true
	s.Detail = nil
	return s
}

func finishDetail(s State, detail *types.Detail) State {
	s.DetailLoading = false
	s.Detail = detail
	return s
}

func failDetail(s State, message string) State {
	s.DetailLoading = false
	s.DetailError = message
	return s
}

func beginDemo(s State) State {
	s.DemoLoading = true
	s.DemoError = ""
	s.DemoResult = nil
	return s
}

func finishDemo(s State, result any) State {
	s.DemoLoading = false
	s.DemoResult = result
	return s
}

func failDemo(s State, message string, details any) State {
	s.DemoLoading = false
	s.DemoError = message
	s.DemoResult = details
	return s
}
