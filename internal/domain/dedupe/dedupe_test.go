package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/dinneroo/zonescore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording record ids", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the record is new", func() {
				seen := d.SeenAndRecord(context.Background(), "rec-1")

				Convey("Then it should return false and record the id", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the record was already seen", func() {
				d.SeenAndRecord(context.Background(), "rec-1")

				seen := d.SeenAndRecord(context.Background(), "rec-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple records are recorded", func() {
				ids := []string{"rec-1", "rec-2", "rec-3", "rec-4", "rec-5"}

				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all ids should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(ids)))

					for _, id := range ids {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording ids", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the id exists", func() {
				d.SeenAndRecord(context.Background(), "rec-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "rec-1")

				Convey("Then it should be removed and re-recordable", func() {
					So(d.Size(), ShouldEqual, 0)

					seen := d.SeenAndRecord(context.Background(), "rec-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the id doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the deduper is bounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And more ids arrive than the bound allows", func() {
				for i := 0; i < 5; i++ {
					d.SeenAndRecord(context.Background(), fmt.Sprintf("rec-%d", i))
				}

				Convey("Then the oldest ids are evicted first", func() {
					So(d.Size(), ShouldEqual, 3)

					// rec-0 and rec-1 were evicted, so they read as new.
					So(d.SeenAndRecord(context.Background(), "rec-4"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "rec-0"), ShouldBeFalse)
				})
			})

			Convey("And an id is unrecorded before its slot is reused", func() {
				d.SeenAndRecord(context.Background(), "rec-a")
				d.Unrecord(context.Background(), "rec-a")

				for i := 0; i < 3; i++ {
					d.SeenAndRecord(context.Background(), fmt.Sprintf("rec-%d", i))
				}

				Convey("Then the stale slot does not corrupt the count", func() {
					So(d.Size(), ShouldEqual, 3)
				})
			})
		})

		Convey("When accessed concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			const goroutines = 10
			const perGoroutine = 100

			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < perGoroutine; i++ {
						d.SeenAndRecord(context.Background(), fmt.Sprintf("rec-%d-%d", g, i))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every distinct id is recorded exactly once", func() {
				So(d.Size(), ShouldEqual, int64(goroutines*perGoroutine))
			})
		})

		Convey("When many goroutines race on the same id", func() {
			d := dedupe.NewInMemoryDeduper()
			const goroutines = 20

			results := make(chan bool, goroutines)
			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results <- d.SeenAndRecord(context.Background(), "contested")
				}()
			}
			wg.Wait()
			close(results)

			Convey("Then exactly one caller wins", func() {
				wins := 0
				for seen := range results {
					if !seen {
						wins++
					}
				}
				So(wins, ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
