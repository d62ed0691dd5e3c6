// Package types defines the catalog documents consumed by the vibedex client.
package types

// NamedResource is one entry of a paginated catalog listing.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage is the body of GET /pokemon?limit=N&offset=M.
type ListPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Sprites holds image URLs for a detail document.
type Sprites struct {
	FrontDefault string `json:"front_default"`
}

// TypeSlot is one entry of Detail.Types.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one entry of Detail.Abilities.
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// Detail is the subset of a catalog detail document the browser renders.
type Detail struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Sprites   Sprites       `json:"sprites"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
}

// TypeNames returns the type names in document order.
func (d *Detail) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// AbilityNames returns the ability names in document order.
func (d *Detail) AbilityNames() []string {
	names := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		names = append(names, a.Ability.Name)
	}
	return names
}
