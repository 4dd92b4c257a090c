package pokeapi

import "strings"

// NamedRef is a name plus the URL of the full resource, as the catalog
// returns for every cross-reference.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// APIRef is a bare resource URL. Used where the catalog omits the name.
type APIRef struct {
	URL string `json:"url"`
}

// ListItem is one entry of the paginated catalog list, with the numeric
// id already parsed out of the resource URL.
type ListItem struct {
	Name string
	ID   int
}

// page is the wire shape of the paginated list endpoint.
type page struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []NamedRef `json:"results"`
}

// Pokemon is the base entity record.
type Pokemon struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Sprites   Sprites       `json:"sprites"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Moves     []MoveSlot    `json:"moves"`
	Species   NamedRef      `json:"species"`
}

// Sprites holds image URLs. BackDefault is legitimately absent for some
// entities and stays empty then.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	BackDefault  string `json:"back_default"`
}

// TypeSlot is one of the entity's ordered type assignments.
type TypeSlot struct {
	Slot int      `json:"slot"`
	Type NamedRef `json:"type"`
}

// AbilitySlot is one of the entity's abilities.
type AbilitySlot struct {
	IsHidden bool     `json:"is_hidden"`
	Ability  NamedRef `json:"ability"`
}

// MoveSlot is one learnable move.
type MoveSlot struct {
	Move NamedRef `json:"move"`
}

// Species is the species metadata record. EvolutionChain is nil when
// the catalog has no chain for this species.
type Species struct {
	ID                int          `json:"id"`
	Name              string       `json:"name"`
	FlavorTextEntries []FlavorText `json:"flavor_text_entries"`
	EvolutionChain    *APIRef      `json:"evolution_chain"`
}

// FlavorText is one localized description entry.
type FlavorText struct {
	FlavorText string   `json:"flavor_text"`
	Language   NamedRef `json:"language"`
	Version    NamedRef `json:"version"`
}

// Flavor returns the first flavor text tagged with the given language,
// with the catalog's embedded line and form-feed breaks normalized to
// spaces. Empty when no entry matches.
func (s Species) Flavor(language string) string {
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name != language {
			continue
		}
		text := strings.NewReplacer("\n", " ", "\f", " ").Replace(e.FlavorText)
		return strings.Join(strings.Fields(text), " ")
	}
	return ""
}

// EvolutionChain is the evolutionary lineage record. Chain is recursive
// but shallow (depth rarely exceeds 3).
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one node of the lineage tree.
type ChainLink struct {
	Species   NamedRef    `json:"species"`
	EvolvesTo []ChainLink `json:"evolves_to"`
}

// IDFromURL extracts the trailing numeric id from a catalog resource
// URL such as ".../pokemon-species/25/". Returns 0 when no id is
// present.
func IDFromURL(url string) int {
	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx < 0 {
		return 0
	}
	id := 0
	for _, c := range trimmed[idx+1:] {
		if c < '0' || c > '9' {
			return 0
		}
		id = id*10 + int(c-'0')
	}
	return id
}
