package sequence

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a tracker", t, func() {
		var stale []string
		tr := New(WithStaleHook(func(op string) { stale = append(stale, op) }))

		Convey("Only the newest token of an operation is latest", func() {
			first := tr.Issue("otp")
			second := tr.Issue("otp")

			So(second.Seq, ShouldBeGreaterThan, first.Seq)
			So(tr.Latest(second), ShouldBeTrue)
			So(tr.Latest(first), ShouldBeFalse)
			So(stale, ShouldResemble, []string{"otp"})
		})

		Convey("Operations are tracked independently", func() {
			jobs := tr.Issue("jobs")
			_ = tr.Issue("applications")
			So(tr.Latest(jobs), ShouldBeTrue)
		})

		Convey("Invalidate supersedes outstanding tokens", func() {
			tok := tr.Issue("jobs")
			tr.Invalidate("jobs")
			So(tr.Latest(tok), ShouldBeFalse)
		})

		Convey("The zero token is never latest", func() {
			So(tr.Latest(Token{Op: "otp"}), ShouldBeFalse)
		})
	})
}

func TestTrackerConcurrent(t *testing.T) {
	Convey("Given concurrent issuers", t, func() {
		tr := New()
		var wg sync.WaitGroup
		seen := make(chan uint64, 100)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				seen <- tr.Issue("otp").Seq
			}()
		}
		wg.Wait()
		close(seen)

		Convey("Every token is unique", func() {
			uniq := make(map[uint64]struct{})
			for s := range seen {
				uniq[s] = struct{}{}
			}
			So(len(uniq), ShouldEqual, 100)
			So(tr.Latest(Token{Op: "otp", Seq: 100}), ShouldBeTrue)
		})
	})
}
