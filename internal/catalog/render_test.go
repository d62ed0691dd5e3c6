package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibedex/vibedex/pkg/types"
)

func TestSortLabels(t *testing.T) {
	s := NewState(20)
	name, number := SortLabels(s)
	assert.Equal(t, "Sort A-Z", name)
	assert.Equal(t, "Sort # First-Last", number)

	s.NameDirection, s.NumberDirection = Desc, Desc
	name, number = SortLabels(s)
	assert.Equal(t, "Sort Z-A", name)
	assert.Equal(t, "Sort # Last-First", number)
}

func TestListStatus(t *testing.T) {
	s := NewState(20)
	assert.Empty(t, ListStatus(s))

	s.ListError = msgListFailed
	assert.Equal(t, msgListFailed, ListStatus(s))

	s.ListLoading = true
	assert.Equal(t, "Loading Pokemon list...", ListStatus(s))
}

func TestEmptyListMessage(t *testing.T) {
	s := NewState(20)
	assert.Empty(t, EmptyListMessage(s, nil))

	s.SearchQuery = "zzz"
	assert.Equal(t, "No matches.", EmptyListMessage(s, nil))
	assert.Empty(t, EmptyListMessage(s, []Item{{Name: "zzz"}}))
}

func TestItemLabelAndCount(t *testing.T) {
	assert.Equal(t, "#001 bulbasaur", ItemLabel(Item{Name: "bulbasaur", Index: 1}))
	assert.Equal(t, "#1025 pecharunt", ItemLabel(Item{Name: "pecharunt", Index: 1025}))
	assert.Equal(t, "Loaded: 2", LoadedCount(stateWith("a", "b")))
}

func TestDetailSummary(t *testing.T) {
	s := NewState(20)
	assert.Equal(t, "Select a Pokemon to see the details.", DetailSummary(s))

	s = beginDetail(s, "u")
	assert.Equal(t, "Loading...", DetailSummary(s))

	s = failDetail(s, msgDetailsFailed)
	assert.Equal(t, msgDetailsFailed, DetailSummary(s))

	s = selectCached(s, "u", &types.Detail{
		Name:    "pikachu",
		Height:  4,
		Weight:  60,
		Sprites: types.Sprites{FrontDefault: "http://img.invalid/25.png"},
		Types:   []types.TypeSlot{{Slot: 1, Type: types.NamedResource{Name: "electric"}}},
		Abilities: []types.AbilitySlot{
			{Ability: types.NamedResource{Name: "static"}},
			{Ability: types.NamedResource{Name: "lightning-rod"}, IsHidden: true},
		},
	})
	want := "pikachu\n" +
		"Sprite: http://img.invalid/25.png\n" +
		"\nTypes: electric\n" +
		"Height: 4\n" +
		"Weight: 60\n" +
		"Abilities: static, lightning-rod"
	assert.Equal(t, want, DetailSummary(s))
}

func TestDemoStatus(t *testing.T) {
	s := NewState(20)
	status, output := DemoStatus(s)
	assert.Equal(t, "Ready to fetch protected data.", status)
	assert.Contains(t, output, "local proxy")

	s = beginDemo(s)
	status, output = DemoStatus(s)
	assert.Equal(t, "Loading protected data...", status)
	assert.Equal(t, "Fetching response from the proxy...", output)

	s = finishDemo(s, map[string]any{"ok": true, "n": json.Number("7")})
	status, output = DemoStatus(s)
	assert.Equal(t, "Ready to fetch protected data.", status)
	assert.Equal(t, "{\n  \"n\": 7,\n  \"ok\": true\n}", output)

	s = failDemo(beginDemo(s), "Server not reachable.", map[string]any{"error": "dial tcp"})
	status, output = DemoStatus(s)
	assert.Equal(t, "Server not reachable.", status)
	assert.Equal(t, "{\n  \"error\": \"dial tcp\"\n}", output)

	s = failDemo(beginDemo(s), msgDemoFailed, nil)
	_, output = DemoStatus(s)
	assert.Equal(t, "Request failed. Check the server output.", output)
}
