package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/skillcards/internal/adapters/http/api"
	"github.com/okian/skillcards/internal/adapters/http/client"
	"github.com/okian/skillcards/internal/adapters/repository"
	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newServer() *httptest.Server {
	ctx := context.Background()
	svc := service.New(service.WithLogger(logger.Nop()), service.WithSeedSamples(false))
	So(svc.Start(ctx), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return httptest.NewServer(mux)
}

func TestNew(t *testing.T) {
	Convey("Given server URLs", t, func() {
		Convey("Then a URL without scheme or host should be rejected", func() {
			_, err := client.New("localhost")
			So(errors.Is(err, client.ErrBadURL), ShouldBeTrue)
		})

		Convey("Then a full URL should be accepted", func() {
			c, err := client.New("http://localhost:9080/")
			So(err, ShouldBeNil)
			So(c, ShouldNotBeNil)
		})
	})
}

func TestClientRoundTrip(t *testing.T) {
	Convey("Given a client against a running server", t, func() {
		ctx := context.Background()
		srv := newServer()
		defer srv.Close()
		c, err := client.New(srv.URL)
		So(err, ShouldBeNil)

		Convey("When importing JSON and listing", func() {
			res, err := c.ImportJSON(ctx, []byte(`[{"id":"a","name":"Ann"},{"id":"b","name":"Bob"}]`))
			So(err, ShouldBeNil)
			cards, err := c.ListCards(ctx)
			So(err, ShouldBeNil)

			Convey("Then the server should hold the cards", func() {
				So(res.Imported, ShouldEqual, 2)
				So(len(cards), ShouldEqual, 2)
				So(cards[1].Name, ShouldEqual, "Bob")
			})

			Convey("And exports should round-trip", func() {
				data, err := c.ExportJSON(ctx)
				So(err, ShouldBeNil)
				got, err := interchange.Decode(data)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, cards)

				text, err := c.ExportCSV(ctx)
				So(err, ShouldBeNil)
				So(text, ShouldStartWith, strings.Join(csvcodec.Header, ";"))
			})
		})

		Convey("When importing legacy CSV with skipped rows", func() {
			res, err := c.ImportLegacyCSV(ctx, "name;group;role\nIvo;Red;Dev\nNo;;Group", ';')

			Convey("Then the skipped rows should come back with their line numbers", func() {
				So(err, ShouldBeNil)
				So(res.Imported, ShouldEqual, 1)
				So(len(res.Skipped), ShouldEqual, 1)
				So(res.Skipped[0].Row, ShouldEqual, 3)
			})
		})

		Convey("When adding and removing a card", func() {
			card, err := c.AddCard(ctx, service.NewCardInput{Name: "Zoe"})
			So(err, ShouldBeNil)

			Convey("Then a second delete should be not found", func() {
				So(c.DeleteCard(ctx, card.ID), ShouldBeNil)
				err := c.DeleteCard(ctx, card.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				var apiErr *client.Error
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the server rejects an import", func() {
			_, errObj := c.ImportJSON(ctx, []byte(`{"id":"x"}`))
			_, errRows := c.ImportCSV(ctx, strings.Join(csvcodec.Header, ";")+"\n;Dev")

			Convey("Then the domain sentinel should be recoverable", func() {
				So(errors.Is(errObj, interchange.ErrNotArray), ShouldBeTrue)
				So(errors.Is(errRows, csvcodec.ErrNoValidRows), ShouldBeTrue)
			})
		})
	})
}
