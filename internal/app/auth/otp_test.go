package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOtpInput(t *testing.T) {
	Convey("Given an OTP input group", t, func() {
		o := &OtpInput{}

		Convey("Typing digits in order advances focus and assembles the code", func() {
			for i, d := range []string{"4", "2", "1", "0", "5", "9"} {
				So(o.Focus(), ShouldEqual, i)
				o.Input(i, d)
			}
			So(o.Assemble(), ShouldEqual, "421059")
			So(o.Focus(), ShouldEqual, CodeLength-1)
			So(o.Submittable(), ShouldBeTrue)
		})

		Convey("Only the last character of a slot value is kept", func() {
			o.Input(0, "78")
			So(o.Slots()[0], ShouldEqual, "8")
		})

		Convey("Backspace on an empty slot moves focus back", func() {
			o.Type("12")
			So(o.Focus(), ShouldEqual, 2)
			o.Backspace(2)
			So(o.Focus(), ShouldEqual, 1)

			Convey("And on a filled slot clears it in place", func() {
				o.Backspace(1)
				So(o.Slots()[1], ShouldEqual, "")
				So(o.Focus(), ShouldEqual, 1)
			})

			Convey("And never goes before the first slot", func() {
				o.Backspace(0)
				o.Backspace(0)
				So(o.Focus(), ShouldEqual, 0)
			})
		})

		Convey("Reset clears the slots but keeps focus", func() {
			o.Type("123")
			o.Reset()
			So(o.Assemble(), ShouldEqual, "")
			So(o.Focus(), ShouldEqual, 3)
		})

		Convey("A partial or non-numeric code is not submittable", func() {
			o.Type("42105")
			So(o.Submittable(), ShouldBeFalse)
			o.Input(5, "x")
			So(o.Submittable(), ShouldBeFalse)
		})

		Convey("Out of range slots are ignored", func() {
			o.Input(-1, "1")
			o.Input(CodeLength, "1")
			o.Backspace(CodeLength)
			So(o.Assemble(), ShouldEqual, "")
		})
	})
}
