// Package interchange reads and writes card collections as JSON arrays.
//
// Decoding migrates older shapes on the way in: stats stored as bare numbers
// become {value, weight: 1}, missing stats and grades get defaults, and every
// number is clamped.
package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/okian/skillcards/internal/domain/model"
)

// rawCard accepts every shape the catalog has ever stored.
type rawCard struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Group      string                     `json:"group"`
	Role       string                     `json:"role"`
	Stats      map[string]json.RawMessage `json:"stats"`
	FinalGrade *float64                   `json:"finalGrade"`
	FlavorText string                     `json:"flavorText"`
}

type rawStat struct {
	Value  *float64 `json:"value"`
	Weight *float64 `json:"weight"`
}

// Decode parses an import document. It must be a non-empty array.
func Decode(data []byte) ([]model.Card, error) {
	cards, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrEmptyCollection
	}
	return cards, nil
}

// DecodeStored parses a persisted collection, where an empty array is valid.
func DecodeStored(data []byte) ([]model.Card, error) {
	return decode(data)
}

func decode(data []byte) ([]model.Card, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidJSON)
	}
	if data[0] != '[' {
		if !json.Valid(data) {
			return nil, ErrInvalidJSON
		}
		return nil, ErrNotArray
	}

	var raws []rawCard
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	cards := make([]model.Card, 0, len(raws))
	for i := range raws {
		cards = append(cards, migrate(&raws[i]))
	}
	return cards, nil
}

// Encode renders cards as an indented JSON array. A nil slice encodes as [].
func Encode(cards []model.Card) ([]byte, error) {
	if cards == nil {
		cards = []model.Card{}
	}
	return json.MarshalIndent(cards, "", "  ")
}

func migrate(r *rawCard) model.Card {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	grade := model.NewCardGrade
	if r.FinalGrade != nil {
		grade = roundInt(*r.FinalGrade)
	}

	var stats model.Stats
	for _, k := range model.StatKeys {
		stats.Set(k, migrateStat(r.Stats[string(k)]))
	}

	return model.Card{
		ID:         id,
		Name:       r.Name,
		Group:      r.Group,
		Role:       r.Role,
		Stats:      stats,
		FinalGrade: grade,
		FlavorText: r.FlavorText,
	}.Normalized()
}

// migrateStat handles the bare-number shape, the object shape and garbage.
// An object whose value is missing or zero counts as garbage.
func migrateStat(raw json.RawMessage) model.Stat {
	if len(raw) == 0 {
		return model.DefaultStat()
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return model.Stat{Value: roundInt(n), Weight: model.DefaultWeight}
	}
	var s rawStat
	if err := json.Unmarshal(raw, &s); err != nil || s.Value == nil || *s.Value == 0 {
		return model.DefaultStat()
	}
	st := model.Stat{Value: roundInt(*s.Value), Weight: model.DefaultWeight}
	if s.Weight != nil {
		st.Weight = roundInt(*s.Weight)
	}
	return st
}

// roundInt rounds half up and saturates instead of overflowing.
func roundInt(f float64) int {
	r := math.Floor(f + 0.5)
	switch {
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int(r)
}
