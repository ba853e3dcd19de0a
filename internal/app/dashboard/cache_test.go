package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/recruitportal/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given an empty cache", t, func() {
		ctx := context.Background()
		c := NewCache[int]("test.numbers", sequence.New())

		So(c.Status().Invalid, ShouldBeTrue)
		So(c.Visible(), ShouldBeEmpty)

		Convey("A successful refresh replaces the data", func() {
			res := c.Refresh(ctx, func(context.Context) ([]int, error) { return []int{1, 2}, nil })
			So(res.IsOk(), ShouldBeTrue)
			So(res.Value(), ShouldResemble, []int{1, 2})
			So(c.Visible(), ShouldResemble, []int{1, 2})
			st := c.Status()
			So(st.Loaded, ShouldBeTrue)
			So(st.Invalid, ShouldBeFalse)
			So(st.Count, ShouldEqual, 2)

			Convey("A failed refresh keeps the data but hides it", func() {
				boom := errors.New("boom")
				res := c.Refresh(ctx, func(context.Context) ([]int, error) { return nil, boom })
				So(errors.Is(res.Err(), boom), ShouldBeTrue)
				So(c.Items(), ShouldResemble, []int{1, 2})
				So(c.Visible(), ShouldBeEmpty)
				So(c.Status().Failed, ShouldBeTrue)

				Convey("And the next success shows data again", func() {
					c.Refresh(ctx, func(context.Context) ([]int, error) { return []int{3}, nil })
					So(c.Visible(), ShouldResemble, []int{3})
					So(c.Status().Failed, ShouldBeFalse)
				})
			})

			Convey("Invalidate keeps the data readable", func() {
				c.Invalidate()
				So(c.Status().Invalid, ShouldBeTrue)
				So(c.Visible(), ShouldResemble, []int{1, 2})
			})

			Convey("Returned slices are copies", func() {
				items := c.Items()
				items[0] = 99
				So(c.Items()[0], ShouldEqual, 1)
			})
		})

		Convey("A nil list decodes to an empty, loaded cache", func() {
			res := c.Refresh(ctx, func(context.Context) ([]int, error) { return nil, nil })
			So(res.IsOk(), ShouldBeTrue)
			So(res.Value(), ShouldNotBeNil)
			So(c.Status().Loaded, ShouldBeTrue)
		})

		Convey("An older refresh finishing last is discarded", func() {
			entered := make(chan struct{})
			release := make(chan struct{})
			done := make(chan error, 1)
			go func() {
				res := c.Refresh(ctx, func(context.Context) ([]int, error) {
					close(entered)
					<-release
					return []int{1}, nil
				})
				done <- res.Err()
			}()
			<-entered
			c.Refresh(ctx, func(context.Context) ([]int, error) { return []int{2}, nil })
			close(release)

			So(errors.Is(<-done, ErrStale), ShouldBeTrue)
			So(c.Visible(), ShouldResemble, []int{2})
		})
	})
}
