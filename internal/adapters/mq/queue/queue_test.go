package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	queue "github.com/dinneroo/zonescore/internal/adapters/mq/queue"
	"github.com/dinneroo/zonescore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) queue.Job {
	return queue.Job{ID: id, Kind: model.KindDish}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When created with default options", func() {
			q := queue.NewInMemoryQueue()

			Convey("Then it should be empty and open", func() {
				So(q.Len(ctx), ShouldEqual, 0)
				So(q.IsClosed(), ShouldBeFalse)
			})
		})

		Convey("When enqueuing jobs", func() {
			q := queue.NewInMemoryQueue()

			ok := q.Enqueue(ctx, job("dish-1"))

			Convey("Then the job is accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(q.Enqueue(ctx, job("dish-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("dish-2")), ShouldBeTrue)

			ok := q.Enqueue(ctx, job("dish-3"))

			Convey("Then further enqueues are rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeuing jobs", func() {
			q := queue.NewInMemoryQueue()
			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, job(fmt.Sprintf("dish-%d", i))), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			Convey("Then jobs arrive in FIFO order and the channel closes", func() {
				var got []string
				for j := range q.Dequeue(ctx) {
					got = append(got, j.ID)
				}
				So(got, ShouldResemble, []string{"dish-0", "dish-1", "dish-2"})
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new jobs", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job("dish-1")), ShouldBeFalse)
			})

			Convey("And closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When jobs are queued before close", func() {
			q := queue.NewInMemoryQueue()
			So(q.Enqueue(ctx, job("dish-1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then queued jobs are still delivered after close", func() {
				var got []string
				for j := range q.Dequeue(ctx) {
					got = append(got, j.ID)
				}
				So(got, ShouldResemble, []string{"dish-1"})
			})
		})

		Convey("When the consumer context is cancelled", func() {
			q := queue.NewInMemoryQueue()
			So(q.Enqueue(ctx, job("dish-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("dish-2")), ShouldBeTrue)

			consumerCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(consumerCtx)
			cancel()

			Convey("Then the dequeue channel eventually closes", func() {
				timeout := time.After(time.Second)
				for {
					select {
					case _, ok := <-out:
						if !ok {
							So(true, ShouldBeTrue)
							return
						}
					case <-timeout:
						t.Fatal("dequeue channel did not close after cancel")
					}
				}
			})
		})
	})
}
