package csvcodec

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/skillcards/internal/domain/model"
)

// Legacy column names. Stat columns are "<stat>_value" and "<stat>_weight".
const (
	legacyID         = "id"
	legacyName       = "name"
	legacyGroup      = "group"
	legacyRole       = "role"
	legacyFinalGrade = "finalgrade"
	legacyFlavorText = "flavortext"
)

// RowToCardLegacy maps a header-keyed row from the older export shape.
// Keys are matched case-insensitively. A missing id gets a random one; a
// missing final grade reads as the value default rather than 0, which would
// sit outside the grade range.
func RowToCardLegacy(row map[string]string) (model.Card, error) {
	lookup := make(map[string]string, len(row))
	for k, v := range row {
		lookup[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	name, group, role := lookup[legacyName], lookup[legacyGroup], lookup[legacyRole]
	if name == "" || group == "" || role == "" {
		return model.Card{}, fmt.Errorf("%w: name, group, or role", ErrMissingRequiredField)
	}

	id := lookup[legacyID]
	if id == "" {
		id = uuid.NewString()
	}

	var stats model.Stats
	for _, k := range model.StatKeys {
		stats.Set(k, model.Stat{
			Value:  parseSmallInt(lookup[string(k)+"_value"], model.MinValue, model.MaxValue, model.DefaultValue),
			Weight: parseSmallInt(lookup[string(k)+"_weight"], model.MinWeight, model.MaxWeight, model.DefaultWeight),
		})
	}

	return model.Card{
		ID:         id,
		Name:       name,
		Group:      group,
		Role:       role,
		Stats:      stats,
		FinalGrade: parseSmallInt(lookup[legacyFinalGrade], model.MinGrade, model.MaxGrade, model.DefaultValue),
		FlavorText: lookup[legacyFlavorText],
	}, nil
}

// zipRow pairs header names with a tokenized row. Extra values are dropped;
// missing ones are left out of the map.
func zipRow(headers, values []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" || i >= len(values) {
			continue
		}
		row[h] = values[i]
	}
	return row
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
