package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/skillcards/internal/adapters/repository"
	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var header = strings.Join(csvcodec.Header, ";")

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithSeedSamples(false),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("Then it should use the in-memory store", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats(context.Background())
			So(stats["store"], ShouldEqual, repository.DriverMemory)
			So(stats["started"], ShouldEqual, false)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over an empty store", t, func() {
		ctx := context.Background()

		Convey("When it starts with a recording logger", func() {
			rec := logger.NewRecorder()
			svc := service.New(service.WithLogger(rec), service.WithSeedSamples(false))
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the startup entry should report the store and seeding flag", func() {
				entries := rec.Level("info")
				So(entries, ShouldNotBeEmpty)
				So(entries[0].Msg, ShouldEqual, "starting card service...")
				store, _ := entries[0].Field("store")
				So(store, ShouldEqual, repository.DriverMemory)
				seed, ok := entries[0].Field("seed_samples")
				So(ok, ShouldBeTrue)
				So(seed, ShouldEqual, false)
			})
		})

		Convey("When seeding is enabled", func() {
			svc := service.New(service.WithLogger(logger.Nop()))
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the sample cards should be loaded", func() {
				cards, err := svc.ListCards(ctx)
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, 3)
				So(svc.GetStats(ctx)["started"], ShouldEqual, true)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				cards, _ := svc.ListCards(ctx)
				So(len(cards), ShouldEqual, 3)
			})
		})

		Convey("When seeding is disabled", func() {
			svc := newService()
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the store should stay empty", func() {
				So(svc.GetStats(ctx)["totalCards"], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a store that already holds cards", t, func() {
		ctx := context.Background()
		store := repository.NewBlobStore(repository.NewMemoryKV())
		So(store.Add(ctx, model.NewCard("keep", "Kept Card", "Kept", "Dev")), ShouldBeNil)
		svc := service.New(service.WithLogger(logger.Nop()), service.WithStore(store, "memory"))
		defer svc.Stop()

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the seed should not run", func() {
				cards, _ := svc.ListCards(ctx)
				So(len(cards), ShouldEqual, 1)
				So(cards[0].ID, ShouldEqual, "keep")
			})
		})
	})
}

func TestService_Cards(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When adding a card", func() {
			card, err := svc.AddCard(ctx, service.NewCardInput{Name: "Dana", Group: "Dana", Role: "Ops"})
			So(err, ShouldBeNil)

			Convey("Then it should get a random id and the default stat block", func() {
				So(card.ID, ShouldNotBeEmpty)
				So(card.FinalGrade, ShouldEqual, model.NewCardGrade)
				So(card.Stats, ShouldResemble, model.UniformStats(model.NewCardValue, model.DefaultWeight))
			})

			Convey("And it should be readable, patchable and deletable", func() {
				got, err := svc.GetCard(ctx, card.ID)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, card)

				grade := 12
				updated, err := svc.UpdateCard(ctx, card.ID, model.CardPatch{FinalGrade: &grade})
				So(err, ShouldBeNil)
				So(updated.FinalGrade, ShouldEqual, model.MaxGrade)

				So(svc.DeleteCard(ctx, card.ID), ShouldBeNil)
				_, err = svc.GetCard(ctx, card.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When deleting an unknown card", func() {
			err := svc.DeleteCard(ctx, "missing")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Import(t *testing.T) {
	Convey("Given a service holding one card", t, func() {
		ctx := context.Background()
		rec := logger.NewRecorder()
		svc := newService(service.WithLogger(rec))
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)
		_, err := svc.AddCard(ctx, service.NewCardInput{Name: "Existing"})
		So(err, ShouldBeNil)

		Convey("When importing a CSV document with one bad row", func() {
			text := strings.Join([]string{
				header,
				"Eva Smit;Dev;8;2;7;1;6;1;9;3;5;1;;7;8;7;6;7;8;Builds things",
				";Dev;8;2;7;1;6;1;9;3;5;1;;7;8;7;6;7;8;No name",
			}, "\n")
			res, err := svc.ImportCSV(ctx, text)

			Convey("Then the collection should be replaced by the good rows", func() {
				So(err, ShouldBeNil)
				So(res.Imported, ShouldEqual, 1)
				So(len(res.Skipped), ShouldEqual, 1)
				So(res.Skipped[0].Row, ShouldEqual, 3)

				cards, _ := svc.ListCards(ctx)
				So(len(cards), ShouldEqual, 1)
				So(cards[0].Name, ShouldEqual, "Eva Smit")
				So(len(rec.Level("warn")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When a CSV import has no valid rows", func() {
			res, err := svc.ImportCSV(ctx, header+"\n;Dev;1")

			Convey("Then it should fail and keep the existing cards", func() {
				So(errors.Is(err, csvcodec.ErrNoValidRows), ShouldBeTrue)
				So(len(res.Skipped), ShouldEqual, 1)
				cards, _ := svc.ListCards(ctx)
				So(len(cards), ShouldEqual, 1)
				So(cards[0].Name, ShouldEqual, "Existing")
			})
		})

		Convey("When a CSV import is header only", func() {
			_, err := svc.ImportCSV(ctx, header)

			Convey("Then it should fail without touching the store", func() {
				So(errors.Is(err, csvcodec.ErrEmptyOrHeaderOnly), ShouldBeTrue)
				n := svc.GetStats(ctx)["totalCards"]
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When importing legacy CSV with a semicolon delimiter", func() {
			text := "Name;Group;Role;FinalGrade\nFrank;Blue;Tester;9\nNoGroup;;Dev;4"
			res, err := svc.ImportLegacyCSV(ctx, text, ';')

			Convey("Then the legacy rows should be stored", func() {
				So(err, ShouldBeNil)
				So(res.Imported, ShouldEqual, 1)
				So(len(res.Skipped), ShouldEqual, 1)
				cards, _ := svc.ListCards(ctx)
				So(cards[0].Group, ShouldEqual, "Blue")
				So(cards[0].FinalGrade, ShouldEqual, 9)
			})
		})

		Convey("When importing JSON", func() {
			res, err := svc.ImportJSON(ctx, []byte(`[{"id":"j1","name":"Gina","stats":{"testen":9}}]`))

			Convey("Then the migrated cards should be stored", func() {
				So(err, ShouldBeNil)
				So(res.Imported, ShouldEqual, 1)
				card, err := svc.GetCard(ctx, "j1")
				So(err, ShouldBeNil)
				So(card.Stats.Testen, ShouldResemble, model.Stat{Value: 9, Weight: 1})
				So(card.FinalGrade, ShouldEqual, model.NewCardGrade)
			})
		})

		Convey("When importing JSON that is not an array", func() {
			_, err := svc.ImportJSON(ctx, []byte(`{"id":"x"}`))

			Convey("Then it should fail and keep the existing cards", func() {
				So(errors.Is(err, interchange.ErrNotArray), ShouldBeTrue)
				cards, _ := svc.ListCards(ctx)
				So(cards[0].Name, ShouldEqual, "Existing")
			})
		})
	})
}

func TestService_Export(t *testing.T) {
	Convey("Given a service seeded with the sample cards", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Nop()))
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When exporting CSV", func() {
			text, err := svc.ExportCSV(ctx)
			So(err, ShouldBeNil)

			Convey("Then it should parse back to the same cards", func() {
				want, _ := svc.ListCards(ctx)
				got, err := csvcodec.Parse(text)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, len(want))
				for i := range want {
					So(got[i].Name, ShouldEqual, want[i].Name)
					So(got[i].FinalGrade, ShouldEqual, want[i].FinalGrade)
					So(got[i].FlavorText, ShouldEqual, want[i].FlavorText)
				}
			})
		})

		Convey("When exporting JSON", func() {
			data, err := svc.ExportJSON(ctx)
			So(err, ShouldBeNil)

			Convey("Then it should decode back to the stored cards", func() {
				want, _ := svc.ListCards(ctx)
				got, err := interchange.Decode(data)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			})
		})

		Convey("Then the template should start with the header", func() {
			So(strings.HasPrefix(svc.Template(), header+"\n"), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Given import format names", t, func() {
		for in, want := range map[string]string{
			"":        service.FormatCSV,
			"CSV":     service.FormatCSV,
			"legacy":  service.FormatLegacyCSV,
			" json ":  service.FormatJSON,
			"primary": service.FormatCSV,
		} {
			got, err := service.ParseFormat(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := service.ParseFormat("xlsx")
		So(errors.Is(err, service.ErrUnknownFormat), ShouldBeTrue)
	})
}
