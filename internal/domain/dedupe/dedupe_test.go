package dedupe_test

import (
	"sync"
	"testing"

	dedupe "github.com/okian/scoutdb/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(16))
		So(d.Size(), ShouldEqual, 0)

		Convey("When the id is new", func() {
			seen := d.SeenAndRecord(158023)

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the id was already seen", func() {
			d.SeenAndRecord(20801)
			seen := d.SeenAndRecord(20801)

			Convey("Then it reports a duplicate and does not grow", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is only checked", func() {
			So(d.Seen(7), ShouldBeFalse)

			Convey("Then it is not recorded until Record is called", func() {
				So(d.Size(), ShouldEqual, 0)
				d.Record(7)
				d.Record(7)
				So(d.Seen(7), ShouldBeTrue)
				So(d.SeenAndRecord(7), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When many ids collide in few buckets", func() {
			for i := uint32(0); i < 500; i++ {
				So(d.SeenAndRecord(i), ShouldBeFalse)
			}
			for i := uint32(0); i < 500; i++ {
				So(d.SeenAndRecord(i), ShouldBeTrue)
			}
			So(d.Size(), ShouldEqual, 500)
		})
	})

	Convey("Given concurrent callers", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := uint32(0); i < 100; i++ {
					if !d.SeenAndRecord(i) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then every id is recorded exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
