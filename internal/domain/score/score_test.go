package score

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw similarity scores", t, func() {
		Convey("Fractions are scaled to percents", func() {
			So(Normalize(0.85), ShouldEqual, 85)
			So(Normalize(1), ShouldEqual, 100)
			So(Normalize(0.004), ShouldEqual, 0)
		})

		Convey("Values above one are already percents", func() {
			So(Normalize(85), ShouldEqual, 85)
			So(Normalize(42.6), ShouldEqual, 43)
			So(Normalize(1.2), ShouldEqual, 1)
		})

		Convey("Results are clamped", func() {
			So(Normalize(150), ShouldEqual, 100)
			So(Normalize(-5), ShouldEqual, 0)
			So(Normalize(-0.3), ShouldEqual, 0)
		})

		Convey("Non-finite input yields zero", func() {
			So(Normalize(math.NaN()), ShouldEqual, 0)
			So(Normalize(math.Inf(1)), ShouldEqual, 0)
			So(Normalize(math.Inf(-1)), ShouldEqual, 0)
		})
	})
}

func TestBest(t *testing.T) {
	Convey("Given optional scores", t, func() {
		f := func(v float64) *float64 { return &v }

		So(Best(nil), ShouldEqual, -1)
		So(Best([]*float64{nil, nil}), ShouldEqual, -1)
		So(Best([]*float64{f(0.4), nil, f(72), f(0.7)}), ShouldEqual, 2)

		v, ok := NormalizePtr(nil)
		So(ok, ShouldBeFalse)
		So(v, ShouldEqual, 0)
	})
}
