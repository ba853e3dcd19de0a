package ui

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		ctx := context.Background()
		r := &Recorder{}
		So(r.Last(), ShouldResemble, Notice{})

		r.Notify(ctx, Notice{Level: LevelInfo, Message: "a"})
		r.Notify(ctx, Notice{Level: LevelError, Message: "b"})
		r.Navigate(ctx, "/x")

		So(r.Notices(), ShouldHaveLength, 2)
		So(r.Last().Message, ShouldEqual, "b")
		So(r.Destinations(), ShouldResemble, []string{"/x"})

		r.Reset()
		So(r.Notices(), ShouldBeEmpty)
		So(r.Destinations(), ShouldBeEmpty)
	})

	Convey("Given function adapters", t, func() {
		var got string
		var n Notifier = NotifierFunc(func(_ context.Context, x Notice) { got = x.Message })
		n.Notify(context.Background(), Notice{Message: "hi"})
		So(got, ShouldEqual, "hi")

		var c Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
		So(c.Confirm(context.Background(), "sure?"), ShouldBeTrue)

		Discard{}.Notify(context.Background(), Notice{})
		Discard{}.Navigate(context.Background(), "/")
	})
}
