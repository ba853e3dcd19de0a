package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/okian/recruitportal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var fixed = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func clock() time.Time { return fixed }

func TestFileStore(t *testing.T) {
	Convey("Given a file ledger", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "ledger", "applications.json")
		store := NewFileStore(path, WithClock(clock))

		Convey("A missing file is an empty ledger", func() {
			snap, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries, ShouldBeEmpty)
			So(snap.UpdatedAt.IsZero(), ShouldBeTrue)
		})

		Convey("Appends are kept in order and survive a reopen", func() {
			So(store.Append(ctx, model.LedgerEntry{ID: "1", Status: model.StatusApplied}), ShouldBeNil)
			So(store.Append(ctx, model.LedgerEntry{ID: "2", Status: model.StatusApplied}), ShouldBeNil)

			reopened := NewFileStore(path)
			snap, err := reopened.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries, ShouldResemble, []model.LedgerEntry{
				{ID: "1", Status: model.StatusApplied},
				{ID: "2", Status: model.StatusApplied},
			})
			So(snap.UpdatedAt.Equal(fixed), ShouldBeTrue)
			So(snap.Summary().Applied, ShouldEqual, 2)
		})

		Convey("Invalid entries are rejected", func() {
			So(errors.Is(store.Append(ctx, model.LedgerEntry{ID: "1"}), ErrInvalidEntry), ShouldBeTrue)
		})

		Convey("The browser array layout is readable", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o700), ShouldBeNil)
			So(os.WriteFile(path, []byte(`[{"id":1700000000000,"status":"applied"},{"id":"9","status":"offer"}]`), 0o600), ShouldBeNil)

			snap, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries[0].ID, ShouldEqual, model.ID("1700000000000"))
			So(snap.Summary().Offers, ShouldEqual, 1)

			So(store.Append(ctx, model.LedgerEntry{ID: "10", Status: model.StatusApplied}), ShouldBeNil)
			snap, err = store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries, ShouldHaveLength, 3)
		})

		Convey("Garbage is reported as corrupt", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o700), ShouldBeNil)
			So(os.WriteFile(path, []byte(`{not json`), 0o600), ShouldBeNil)
			_, err := store.Snapshot(ctx)
			So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory ledger", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(WithClock(clock))
		So(store.Append(ctx, model.LedgerEntry{ID: "1", Status: model.StatusApplied}), ShouldBeNil)

		snap, err := store.Snapshot(ctx)
		So(err, ShouldBeNil)
		So(snap.Entries, ShouldHaveLength, 1)
		So(snap.UpdatedAt, ShouldEqual, fixed)

		Convey("Snapshots are copies", func() {
			snap.Entries[0].Status = "mutated"
			again, _ := store.Snapshot(ctx)
			So(again.Entries[0].Status, ShouldEqual, model.StatusApplied)
		})
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a redis ledger", t, func() {
		ctx := context.Background()
		db, mock := redismock.NewClientMock()
		store := NewRedisStore(db, "portal:applications", WithClock(clock))

		Convey("Append pushes the entry and stamps the write time", func() {
			mock.ExpectRPush("portal:applications", `{"id":"5","status":"applied"}`).SetVal(1)
			mock.ExpectSet("portal:applications:updated_at", fixed.Format(time.RFC3339Nano), 0).SetVal("OK")

			So(store.Append(ctx, model.LedgerEntry{ID: "5", Status: model.StatusApplied}), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Snapshot decodes every entry", func() {
			mock.ExpectLRange("portal:applications", 0, -1).SetVal([]string{
				`{"id":"5","status":"applied"}`,
				`{"id":6,"status":"interview"}`,
			})
			mock.ExpectGet("portal:applications:updated_at").SetVal(fixed.Format(time.RFC3339Nano))

			snap, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries, ShouldHaveLength, 2)
			So(snap.Summary().Interviews, ShouldEqual, 1)
			So(snap.UpdatedAt.Equal(fixed), ShouldBeTrue)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("A never written ledger has no update time", func() {
			mock.ExpectLRange("portal:applications", 0, -1).SetVal([]string{})
			mock.ExpectGet("portal:applications:updated_at").RedisNil()

			snap, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(snap.Entries, ShouldBeEmpty)
			So(snap.UpdatedAt.IsZero(), ShouldBeTrue)
		})

		Convey("Backend failures are reported as unavailable", func() {
			mock.ExpectLRange("portal:applications", 0, -1).SetErr(errors.New("connection refused"))
			_, err := store.Snapshot(ctx)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)

			mock.ExpectPing().SetErr(errors.New("connection refused"))
			So(errors.Is(store.Ping(ctx), ErrUnavailable), ShouldBeTrue)
		})

		Convey("Corrupt entries are reported", func() {
			mock.ExpectLRange("portal:applications", 0, -1).SetVal([]string{"nope"})
			_, err := store.Snapshot(ctx)
			So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
		})
	})
}
