package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SortLabels returns the captions of the name and number sort controls.
func SortLabels(s State) (name, number string) {
	name = "Sort A-Z"
	if s.NameDirection == Desc {
		name = "Sort Z-A"
	}
	number = "Sort # First-Last"
	if s.NumberDirection == Desc {
		number = "Sort # Last-First"
	}
	return name, number
}

// ListStatus returns the list status line, empty when idle.
func ListStatus(s State) string {
	switch {
	case s.ListLoading:
		return "Loading Pokemon list..."
	case s.ListError != "":
		return s.ListError
	default:
		return ""
	}
}

// EmptyListMessage returns the placeholder shown when nothing is visible.
func EmptyListMessage(s State, visible []Item) string {
	if len(visible) == 0 && strings.TrimSpace(s.SearchQuery) != "" {
		return "No matches."
	}
	return ""
}

// ItemLabel renders an item as "#001 bulbasaur".
func ItemLabel(item Item) string {
	return fmt.Sprintf("#%03d %s", item.Index, item.Name)
}

// LoadedCount renders the number of loaded items.
func LoadedCount(s State) string {
	return fmt.Sprintf("Loaded: %d", len(s.Items))
}

// DetailSummary renders the detail pane as plain lines.
func DetailSummary(s State) string {
	switch {
	case s.DetailLoading:
		return "Loading..."
	case s.DetailError != "":
		return s.DetailError
	case s.Detail == nil:
		return "Select a Pokemon to see the details."
	}

	d := s.Detail
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteString("\n")
	if d.Sprites.FrontDefault != "" {
		fmt.Fprintf(&b, "Sprite: %s\n", d.Sprites.FrontDefault)
	}
	fmt.Fprintf(&b, "\nTypes: %s\n", strings.Join(d.TypeNames(), ", "))
	fmt.Fprintf(&b, "Height: %d\n", d.Height)
	fmt.Fprintf(&b, "Weight: %d\n", d.Weight)
	fmt.Fprintf(&b, "Abilities: %s", strings.Join(d.AbilityNames(), ", "))
	return b.String()
}

// DemoStatus returns the status line and output block of the protected
// resource demo.
func DemoStatus(s State) (status, output string) {
	switch {
	case s.DemoLoading:
		return "Loading protected data...", "Fetching response from the proxy..."
	case s.DemoError != "":
		if s.DemoResult != nil {
			return s.DemoError, prettyJSON(s.DemoResult)
		}
		return s.DemoError, "Request failed. Check the server output."
	case s.DemoResult != nil:
		return "Ready to fetch protected data.", prettyJSON(s.DemoResult)
	default:
		return "Ready to fetch protected data.", "Press p to run a request through the local proxy."
	}
}

func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
