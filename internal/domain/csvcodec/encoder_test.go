package csvcodec_test

import (
	"strings"
	"testing"

	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleCards() []model.Card {
	john := model.Card{
		ID: "x", Name: "John Dent", Group: "John", Role: "Backend Developer",
		Stats: model.Stats{
			Analyseren:       model.Stat{Value: 8, Weight: 2},
			Ontwerpen:        model.Stat{Value: 9, Weight: 1},
			Integratie:       model.Stat{Value: 6, Weight: 3},
			Realiseren:       model.Stat{Value: 7, Weight: 1},
			Testen:           model.Stat{Value: 6, Weight: 1},
			Samenwerken:      model.Stat{Value: 5, Weight: 1},
			Verantwoording:   model.Stat{Value: 4, Weight: 1},
			Zelfontwikkeling: model.Stat{Value: 8, Weight: 1},
		},
		FinalGrade: 7,
		FlavorText: "An ordinary student.",
	}
	ann := model.NewCard("y", "Ann", "Ann", "Tester")
	ann.Stats.Samenwerken = model.Stat{Value: 10, Weight: 4}
	ann.FlavorText = "Says \"hi\"; then leaves."
	return []model.Card{john, ann}
}

func TestExport(t *testing.T) {
	Convey("Given cards to export", t, func() {
		out := csvcodec.Export(sampleCards())
		lines := strings.Split(out, "\n")

		Convey("Then the header should be the spreadsheet header", func() {
			So(lines[0], ShouldEqual, strings.Join(csvcodec.Header, ";"))
			So(csvcodec.Header, ShouldHaveLength, 20)
		})

		Convey("Then averages should be recomputed with a decimal comma", func() {
			So(lines[1], ShouldEqual, "John Dent;Backend Developer;8;2;9;1;6;3;7;1;6;1;;7,2;5;4;8;5,7;7;An ordinary student.")
		})

		Convey("Then fields with quotes, delimiters or newlines should be quoted", func() {
			So(out, ShouldContainSubstring, `;"Says ""hi""; then leaves."`)
			So(out, ShouldNotEndWith, "\n")

			multi := model.NewCard("z", "Cy", "Cy", "Ops")
			multi.FlavorText = "line one\nline two"
			So(csvcodec.Export([]model.Card{multi}), ShouldEndWith, ";\"line one\nline two\"")
		})
	})

	Convey("Given no cards", t, func() {
		So(csvcodec.Export(nil), ShouldEqual, strings.Join(csvcodec.Header, ";"))
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given exported cards", t, func() {
		cards := sampleCards()
		first := csvcodec.Export(cards)
		back, err := csvcodec.Parse(first)

		Convey("Then parsing should restore names, roles, stats and grades", func() {
			So(err, ShouldBeNil)
			So(back, ShouldHaveLength, len(cards))
			for i, c := range cards {
				So(back[i].Name, ShouldEqual, c.Name)
				So(back[i].Role, ShouldEqual, c.Role)
				So(back[i].FinalGrade, ShouldEqual, c.FinalGrade)
				So(back[i].FlavorText, ShouldEqual, c.FlavorText)
				for _, k := range model.HardSkills {
					want, _ := c.Stats.Get(k)
					got, _ := back[i].Stats.Get(k)
					So(got, ShouldResemble, want)
				}
				for _, k := range model.SoftSkills {
					want, _ := c.Stats.Get(k)
					got, _ := back[i].Stats.Get(k)
					So(got, ShouldResemble, model.Stat{Value: want.Value, Weight: 1})
				}
			}
		})

		Convey("Then export after import should be stable", func() {
			again, err := csvcodec.Parse(csvcodec.Export(back))
			So(err, ShouldBeNil)
			So(csvcodec.Export(again), ShouldEqual, csvcodec.Export(back))
		})
	})
}

func TestTemplate(t *testing.T) {
	Convey("Given the download template", t, func() {
		tpl := csvcodec.Template()

		Convey("Then it should be a header plus one sample row", func() {
			lines := strings.Split(tpl, "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[1], ShouldStartWith, "John Dent;Backend Developer;8;2;")
		})

		Convey("Then it should import as one card", func() {
			cards, err := csvcodec.Parse(tpl)
			So(err, ShouldBeNil)
			So(cards, ShouldHaveLength, 1)
			So(cards[0].ID, ShouldEqual, "john-dent-2")
			So(cards[0].FinalGrade, ShouldEqual, 7)
		})
	})
}
