package csvcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/skillcards/internal/domain/model"
)

// Column positions in the spreadsheet layout.
const (
	colName = iota
	colRole
	colAnalyseren
	colAnalyserenWeight
	colOntwerpen
	colOntwerpenWeight
	colIntegratie
	colIntegratieWeight
	colRealiseren
	colRealiserenWeight
	colTesten
	colTestenWeight
	colCoverage
	colSoftwareAvg
	colSamenwerken
	colVerantwoording
	colZelfontwikkeling
	colSkillsAvg
	colFinalGrade
	colFlavorText

	columnCount
)

// weighted maps the hard skills to their value and weight columns.
var weighted = []struct { //nolint:gochecknoglobals // fixed layout
	key         model.StatKey
	value, wcol int
}{
	{model.Analyseren, colAnalyseren, colAnalyserenWeight},
	{model.Ontwerpen, colOntwerpen, colOntwerpenWeight},
	{model.Integratie, colIntegratie, colIntegratieWeight},
	{model.Realiseren, colRealiseren, colRealiserenWeight},
	{model.Testen, colTesten, colTestenWeight},
}

// unweighted maps the soft skills to their value columns.
var unweighted = []struct { //nolint:gochecknoglobals // fixed layout
	key   model.StatKey
	value int
}{
	{model.Samenwerken, colSamenwerken},
	{model.Verantwoording, colVerantwoording},
	{model.Zelfontwikkeling, colZelfontwikkeling},
}

// RowToCard maps one tokenized spreadsheet row to a card. row is the 1-based
// line number and goes into the id, so duplicate names stay distinct.
func RowToCard(values []string, row int) (model.Card, error) {
	name := field(values, colName)
	role := field(values, colRole)
	if name == "" || role == "" {
		return model.Card{}, fmt.Errorf("%w: name or role", ErrMissingRequiredField)
	}

	var stats model.Stats
	for _, c := range weighted {
		stats.Set(c.key, model.Stat{
			Value:  parseValue(field(values, c.value)),
			Weight: parseWeight(field(values, c.wcol)),
		})
	}
	for _, c := range unweighted {
		stats.Set(c.key, model.Stat{
			Value:  parseValue(field(values, c.value)),
			Weight: model.DefaultWeight,
		})
	}

	return model.Card{
		ID:         cardID(name, row),
		Name:       name,
		Group:      groupOf(name, role),
		Role:       role,
		Stats:      stats,
		FinalGrade: parseValue(field(values, colFinalGrade)),
		FlavorText: field(values, colFlavorText),
	}, nil
}

// cardID lowercases name, joins its words with hyphens and appends the row.
func cardID(name string, row int) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-") + "-" + strconv.Itoa(row)
}

// groupOf is the first word of name, or role when name has none.
func groupOf(name, role string) string {
	if words := strings.Fields(name); len(words) > 0 {
		return words[0]
	}
	return role
}

// field returns the trimmed value at i, or "" past the end of the row.
func field(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}
