// Package model contains domain models passed between layers.
package model

// Bounds and defaults for card fields. Out-of-range input is clamped, never rejected.
const (
	MinValue     = 1
	MaxValue     = 10
	DefaultValue = 5

	MinWeight     = 1
	MaxWeight     = 4
	DefaultWeight = 1

	MinGrade = 1
	MaxGrade = 10

	// NewCardValue and NewCardGrade seed manually added cards and
	// stored cards that predate the finalGrade field.
	NewCardValue = 7
	NewCardGrade = 7
)

// StatKey names one of the eight fixed competencies on a card.
type StatKey string

// The eight stat keys. The set is fixed and exhaustive.
const (
	Analyseren       StatKey = "analyseren"
	Ontwerpen        StatKey = "ontwerpen"
	Integratie       StatKey = "integratie"
	Samenwerken      StatKey = "samenwerken"
	Realiseren       StatKey = "realiseren"
	Testen           StatKey = "testen"
	Verantwoording   StatKey = "verantwoording"
	Zelfontwikkeling StatKey = "zelfontwikkeling"
)

// StatKeys lists every stat key in canonical order.
var StatKeys = []StatKey{ //nolint:gochecknoglobals // fixed enumeration
	Analyseren, Ontwerpen, Integratie, Samenwerken,
	Realiseren, Testen, Verantwoording, Zelfontwikkeling,
}

// HardSkills are averaged into the "# Software" spreadsheet column.
var HardSkills = []StatKey{Analyseren, Ontwerpen, Integratie, Realiseren, Testen} //nolint:gochecknoglobals // fixed enumeration

// SoftSkills are averaged into the "# Vaardigheden" column. They carry no
// weight column in the spreadsheet and always have weight 1 there.
var SoftSkills = []StatKey{Samenwerken, Verantwoording, Zelfontwikkeling} //nolint:gochecknoglobals // fixed enumeration

// IsStatKey reports whether k is one of the eight stat keys.
func IsStatKey(k StatKey) bool {
	for _, key := range StatKeys {
		if key == k {
			return true
		}
	}
	return false
}

// Stat is one scored competency: a value and its importance multiplier.
type Stat struct {
	Value  int `json:"value"`
	Weight int `json:"weight"`
}

// DefaultStat is what a missing or unreadable stat becomes.
func DefaultStat() Stat { return Stat{Value: DefaultValue, Weight: DefaultWeight} }

// Clamped returns s with value and weight forced into range.
func (s Stat) Clamped() Stat {
	return Stat{Value: ClampValue(s.Value), Weight: ClampWeight(s.Weight)}
}

// Stats holds exactly one Stat per key.
type Stats struct {
	Analyseren       Stat `json:"analyseren"`
	Ontwerpen        Stat `json:"ontwerpen"`
	Integratie       Stat `json:"integratie"`
	Samenwerken      Stat `json:"samenwerken"`
	Realiseren       Stat `json:"realiseren"`
	Testen           Stat `json:"testen"`
	Verantwoording   Stat `json:"verantwoording"`
	Zelfontwikkeling Stat `json:"zelfontwikkeling"`
}

// UniformStats returns Stats with the same value and weight everywhere.
func UniformStats(value, weight int) Stats {
	var s Stats
	for _, k := range StatKeys {
		s.Set(k, Stat{Value: value, Weight: weight})
	}
	return s
}

func (s *Stats) field(k StatKey) *Stat {
	switch k {
	case Analyseren:
		return &s.Analyseren
	case Ontwerpen:
		return &s.Ontwerpen
	case Integratie:
		return &s.Integratie
	case Samenwerken:
		return &s.Samenwerken
	case Realiseren:
		return &s.Realiseren
	case Testen:
		return &s.Testen
	case Verantwoording:
		return &s.Verantwoording
	case Zelfontwikkeling:
		return &s.Zelfontwikkeling
	default:
		return nil
	}
}

// Get returns the stat for k. ok is false for an unknown key.
func (s Stats) Get(k StatKey) (Stat, bool) {
	f := s.field(k)
	if f == nil {
		return Stat{}, false
	}
	return *f, true
}

// Set stores st under k. It reports false for an unknown key.
func (s *Stats) Set(k StatKey, st Stat) bool {
	f := s.field(k)
	if f == nil {
		return false
	}
	*f = st
	return true
}

// Clamped returns a copy with every stat forced into range.
func (s Stats) Clamped() Stats {
	out := s
	for _, k := range StatKeys {
		st, _ := s.Get(k)
		out.Set(k, st.Clamped())
	}
	return out
}

// Mean returns the average value over keys, or 0 for no keys.
func (s Stats) Mean(keys []StatKey) float64 {
	if len(keys) == 0 {
		return 0
	}
	total := 0
	for _, k := range keys {
		st, _ := s.Get(k)
		total += st.Value
	}
	return float64(total) / float64(len(keys))
}

// Card is the unit of storage and transfer.
type Card struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	Role       string `json:"role"`
	Stats      Stats  `json:"stats"`
	FinalGrade int    `json:"finalGrade"`
	FlavorText string `json:"flavorText"`
}

// NewCard builds a manually added card with the default stat block.
func NewCard(id, name, group, role string) Card {
	return Card{
		ID:         id,
		Name:       name,
		Group:      group,
		Role:       role,
		Stats:      UniformStats(NewCardValue, DefaultWeight),
		FinalGrade: NewCardGrade,
	}
}

// Normalized returns c with all numeric fields clamped.
func (c Card) Normalized() Card {
	c.Stats = c.Stats.Clamped()
	c.FinalGrade = ClampGrade(c.FinalGrade)
	return c
}

// ClampValue forces v into [MinValue, MaxValue].
func ClampValue(v int) int { return clamp(v, MinValue, MaxValue) }

// ClampWeight forces w into [MinWeight, MaxWeight].
func ClampWeight(w int) int { return clamp(w, MinWeight, MaxWeight) }

// ClampGrade forces g into [MinGrade, MaxGrade].
func ClampGrade(g int) int { return clamp(g, MinGrade, MaxGrade) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
