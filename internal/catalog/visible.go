package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Visible returns the items of s that match its search query, ordered by the
// active sort mode and direction.
func Visible(s State) []Item {
	query := strings.ToLower(strings.TrimSpace(s.SearchQuery))

	visible := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		if query == "" || strings.Contains(strings.ToLower(item.Name), query) {
			visible = append(visible, item)
		}
	}

	if s.SortMode == SortByName {
		// A Collator keeps scratch buffers and is not safe for concurrent use.
		col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
		slices.SortStableFunc(visible, func(a, b Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	} else {
		slices.SortStableFunc(visible, func(a, b Item) int {
			return a.Index - b.Index
		})
	}

	if s.ActiveDirection() == Desc {
		slices.Reverse(visible)
	}
	return visible
}
