package model

import "fmt"

// CardPatch is a partial update. Nil fields are left untouched; Stats is
// merged per key.
type CardPatch struct {
	Name       *string          `json:"name,omitempty"`
	Group      *string          `json:"group,omitempty"`
	Role       *string          `json:"role,omitempty"`
	Stats      map[StatKey]Stat `json:"stats,omitempty"`
	FinalGrade *int             `json:"finalGrade,omitempty"`
	FlavorText *string          `json:"flavorText,omitempty"`
}

// Apply returns c with the patch merged in and clamped.
func (p CardPatch) Apply(c Card) (Card, error) {
	for k := range p.Stats {
		if !IsStatKey(k) {
			return c, fmt.Errorf("%w: %q", ErrUnknownStat, k)
		}
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Group != nil {
		c.Group = *p.Group
	}
	if p.Role != nil {
		c.Role = *p.Role
	}
	for k, st := range p.Stats {
		c.Stats.Set(k, st)
	}
	if p.FinalGrade != nil {
		c.FinalGrade = *p.FinalGrade
	}
	if p.FlavorText != nil {
		c.FlavorText = *p.FlavorText
	}
	return c.Normalized(), nil
}
