// Package output formats resolved records and search results for the
// terminal in text, JSON and CSV forms.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotom-cli/rotom/internal/dex"
	"github.com/rotom-cli/rotom/internal/search"
	"github.com/rotom-cli/rotom/internal/ui"
)

// Format specifies the output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formatter handles output formatting for different formats.
type Formatter struct {
	format   Format
	writer   io.Writer
	renderer *ui.Renderer
	language string
}

// NewFormatter creates a new formatter with the specified format.
func NewFormatter(format string, writer io.Writer, renderer *ui.Renderer) *Formatter {
	if renderer == nil {
		renderer = ui.NewRendererWithOptions(ui.WithOutput(writer))
	}
	return &Formatter{
		format:   Format(format),
		writer:   writer,
		renderer: renderer,
		language: "en",
	}
}

// WithLanguage sets the flavor text language.
func (f *Formatter) WithLanguage(lang string) *Formatter {
	if lang != "" {
		f.language = lang
	}
	return f
}

// recordView is the JSON shape of a composite record.
type recordView struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	HeightM   float64            `json:"height_m"`
	WeightKg  float64            `json:"weight_kg"`
	Types     []string           `json:"types"`
	Abilities []abilityView      `json:"abilities"`
	MoveCount int                `json:"move_count"`
	Sprite    string             `json:"sprite,omitempty"`
	Flavor    string             `json:"flavor,omitempty"`
	Evolution *dex.EvolutionNode `json:"evolution,omitempty"`
}

type abilityView struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden,omitempty"`
}

func viewOf(rec *dex.Record, language string) recordView {
	v := recordView{
		ID:       rec.Pokemon.ID,
		Name:     rec.Pokemon.Name,
		HeightM:  float64(rec.Pokemon.Height) / 10,
		WeightKg: float64(rec.Pokemon.Weight) / 10,
	}
	for _, t := range rec.Pokemon.Types {
		v.Types = append(v.Types, t.Type.Name)
	}
	for _, a := range rec.Pokemon.Abilities {
		v.Abilities = append(v.Abilities, abilityView{Name: a.Ability.Name, Hidden: a.IsHidden})
	}
	v.MoveCount = len(rec.Pokemon.Moves)
	v.Sprite = rec.Pokemon.Sprites.FrontDefault
	if rec.Species != nil {
		v.Flavor = rec.Species.Flavor(language)
	}
	v.Evolution = rec.Evolution
	return v
}

// Record writes one composite record.
func (f *Formatter) Record(rec *dex.Record) error {
	switch f.format {
	case FormatJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(viewOf(rec, f.language))
	default:
		f.renderRecord(rec)
		return nil
	}
}

func (f *Formatter) renderRecord(rec *dex.Record) {
	r := f.renderer
	v := viewOf(rec, f.language)

	r.Section(fmt.Sprintf("#%04d %s", v.ID, titleCase(v.Name)))

	badges := make([]string, 0, len(v.Types))
	for _, t := range v.Types {
		badges = append(badges, r.TypeBadge(t))
	}
	if len(badges) > 0 {
		r.KeyValue("Types", strings.Join(badges, ", "))
	}
	r.KeyValue("Height", fmt.Sprintf("%.1f m", v.HeightM))
	r.KeyValue("Weight", fmt.Sprintf("%.1f kg", v.WeightKg))

	if len(v.Abilities) > 0 {
		parts := make([]string, 0, len(v.Abilities))
		for _, a := range v.Abilities {
			if a.Hidden {
				parts = append(parts, a.Name+" (hidden)")
				continue
			}
			parts = append(parts, a.Name)
		}
		r.KeyValue("Abilities", strings.Join(parts, ", "))
	}
	if v.MoveCount > 0 {
		r.KeyValue("Moves", strconv.Itoa(v.MoveCount))
	}
	if v.Sprite != "" {
		r.Muted("Sprite: %s", v.Sprite)
	}

	if v.Flavor != "" {
		r.Newline()
		r.Info("%s", v.Flavor)
	}

	if rec.Evolution != nil {
		r.Section("Evolution")
		f.renderLineage(rec.Evolution, 0, rec.Pokemon.Name)
	}
}

func (f *Formatter) renderLineage(node *dex.EvolutionNode, depth int, current string) {
	f.renderer.TreeLine(depth, node.Name, node.Name == current)
	for i := range node.EvolvesTo {
		f.renderLineage(&node.EvolvesTo[i], depth+1, current)
	}
}

// MatchRow is one search result with its resolved id, when known.
type MatchRow struct {
	Name string `json:"name"`
	ID   int    `json:"id,omitempty"`
	Tier int    `json:"tier"`
}

// tierLabel names a match tier for human-readable output.
func tierLabel(tier int) string {
	switch tier {
	case search.PrioritySubstring:
		return "contains"
	case search.PriorityPrefix:
		return "prefix"
	case search.PriorityTokens:
		return "tokens"
	case search.PriorityFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// Matches writes ranked search results.
func (f *Formatter) Matches(rows []MatchRow) error {
	switch f.format {
	case FormatJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatCSV:
		w := csv.NewWriter(f.writer)
		if err := w.Write([]string{"name", "id", "tier"}); err != nil {
			return err
		}
		for _, row := range rows {
			rec := []string{row.Name, strconv.Itoa(row.ID), tierLabel(row.Tier)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		if len(rows) == 0 {
			f.renderer.NoResults()
			return nil
		}
		table := make([][]string, 0, len(rows))
		for _, row := range rows {
			id := ""
			if row.ID > 0 {
				id = strconv.Itoa(row.ID)
			}
			table = append(table, []string{row.Name, id, tierLabel(row.Tier)})
		}
		f.renderer.Table([]string{"NAME", "ID", "MATCH"}, table)
		return nil
	}
}

// IndexStats describes the state of the persisted name index.
type IndexStats struct {
	Names   int       `json:"names"`
	SavedAt time.Time `json:"saved_at,omitempty"`
	Path    string    `json:"path"`
}

// Stats writes index statistics.
func (f *Formatter) Stats(st IndexStats) error {
	if f.format == FormatJSON {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	f.renderer.KeyValue("Names", strconv.Itoa(st.Names))
	if !st.SavedAt.IsZero() {
		f.renderer.KeyValue("Saved", st.SavedAt.Format(time.RFC3339))
	}
	f.renderer.KeyValue("File", st.Path)
	return nil
}

// titleCase uppercases the first letter of each hyphenated segment, so
// "mr-mime" renders as "Mr-Mime".
func titleCase(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
