package csvcodec

import (
	"strconv"
	"strings"

	"github.com/okian/skillcards/internal/domain/model"
)

// Header is the spreadsheet header row. The flavor text column has no title.
var Header = []string{ //nolint:gochecknoglobals // fixed layout
	"Name", "Role",
	"Analyseren", "Gewicht",
	"Ontwerpen", "Gewicht",
	"Integratie", "Gewicht",
	"Realiseren", "Gewicht",
	"Testen", "Gewicht",
	"Dekking", "# Software",
	"Samenwerken", "Verantwoording", "Zelfontwikkeling", "# Vaardigheden",
	"Eindcijfer", "",
}

// sampleRow is the illustrative row shipped in the template.
var sampleRow = []string{ //nolint:gochecknoglobals // fixed layout
	"John Dent", "Backend Developer",
	"8", "2", "9", "1", "6", "3", "7", "1", "6", "1",
	"", "7,2",
	"5", "4", "8", "5,7",
	"6,5", "An ordinary student thrust into extraordinary projects.",
}

// Export renders cards in the spreadsheet layout. The two average columns are
// recomputed from the current stat values; the coverage column is left empty.
func Export(cards []model.Card) string {
	lines := make([]string, 0, len(cards)+1)
	lines = append(lines, joinRow(Header))
	for i := range cards {
		lines = append(lines, joinRow(cardRow(&cards[i])))
	}
	return strings.Join(lines, "\n")
}

// Template returns the header plus one sample row for users to fill in.
func Template() string {
	return joinRow(Header) + "\n" + joinRow(sampleRow)
}

func cardRow(c *model.Card) []string {
	row := make([]string, columnCount)
	row[colName] = escapeField(c.Name)
	row[colRole] = escapeField(c.Role)
	for _, w := range weighted {
		st, _ := c.Stats.Get(w.key)
		row[w.value] = strconv.Itoa(st.Value)
		row[w.wcol] = strconv.Itoa(st.Weight)
	}
	row[colSoftwareAvg] = decimalComma(c.Stats.Mean(model.HardSkills))
	for _, u := range unweighted {
		st, _ := c.Stats.Get(u.key)
		row[u.value] = strconv.Itoa(st.Value)
	}
	row[colSkillsAvg] = decimalComma(c.Stats.Mean(model.SoftSkills))
	row[colFinalGrade] = strconv.Itoa(c.FinalGrade)
	row[colFlavorText] = escapeField(c.FlavorText)
	return row
}

func joinRow(fields []string) string {
	return strings.Join(fields, string(PrimaryDelimiter))
}

// decimalComma formats f with one decimal and a comma separator.
func decimalComma(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', 1, 64), ".", ",", 1)
}

// escapeField quotes s when it holds the delimiter, a quote or a newline.
func escapeField(s string) string {
	if !strings.ContainsAny(s, string(PrimaryDelimiter)+"\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
