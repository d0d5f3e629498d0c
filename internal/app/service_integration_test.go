package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/skillcards/internal/adapters/repository"
	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by SQLite", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		path := filepath.Join(t.TempDir(), "cards.db")
		open := func() *service.Service {
			store, err := repository.Open(ctx, repository.Backend{Driver: repository.DriverSQLite, SQLitePath: path})
			So(err, ShouldBeNil)
			return service.New(
				service.WithLogger(logger.Nop()),
				service.WithStore(store, repository.DriverSQLite),
			)
		}

		Convey("When the service starts, imports and restarts", func() {
			svc := open()
			So(svc.Start(ctx), ShouldBeNil)
			_, err := svc.ImportJSON(ctx, []byte(`[{"id":"a","name":"Ann"},{"id":"b","name":"Bob"}]`))
			So(err, ShouldBeNil)
			svc.Stop()

			again := open()
			defer again.Stop()
			So(again.Start(ctx), ShouldBeNil)

			Convey("Then the imported cards should survive and the seed should not run", func() {
				cards, err := again.ListCards(ctx)
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, 2)
				So(cards[0].ID, ShouldEqual, "a")
				So(again.GetStats(ctx)["store"], ShouldEqual, repository.DriverSQLite)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When many cards are added concurrently", func() {
			const n = 50
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if _, err := svc.AddCard(ctx, service.NewCardInput{Name: fmt.Sprintf("Card %d", i)}); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then no write should be lost", func() {
				So(len(errs), ShouldEqual, 0)
				cards, err := svc.ListCards(ctx)
				So(err, ShouldBeNil)
				So(len(cards), ShouldEqual, n)
			})
		})
	})
}
