package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/kickout/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	convey.Convey("Given a won record", t, func() {
		player := 7
		ts := time.UnixMilli(1_700_000_000_123)
		rec := model.Record{Call: "RIGHT", Setup: "X", Zone: "2", Player: &player, Won: true, Time: ts.UnixMilli()}

		convey.Convey("Then it exposes the player and timestamp", func() {
			id, ok := rec.PlayerID()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(id, convey.ShouldEqual, 7)
			convey.So(rec.Timestamp().Equal(ts), convey.ShouldBeTrue)
		})

		convey.Convey("When encoding to JSON", func() {
			b, err := json.Marshal(rec)

			convey.Convey("Then it uses the storage entry keys", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual, `{"call":"RIGHT","setup":"X","zone":"2","player":7,"won":true,"time":1700000000123}`)
			})
		})
	})

	convey.Convey("Given a lost record from the original widget", t, func() {
		var rec model.Record
		err := json.Unmarshal([]byte(`{"call":"LEFT","setup":"Y","zone":"5","player":null,"won":false,"time":1}`), &rec)

		convey.Convey("Then it decodes without a player", func() {
			convey.So(err, convey.ShouldBeNil)
			_, ok := rec.PlayerID()
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(rec.Zone, convey.ShouldEqual, model.Zone("5"))
		})
	})
}

func TestHalf(t *testing.T) {
	convey.Convey("Given the first half", t, func() {
		h := model.FirstHalf

		convey.Convey("Then flipping alternates halves", func() {
			convey.So(h.String(), convey.ShouldEqual, "First Half")
			convey.So(h.Flip(), convey.ShouldEqual, model.SecondHalf)
			convey.So(h.Flip().String(), convey.ShouldEqual, "Second Half")
			convey.So(h.Flip().Flip(), convey.ShouldEqual, model.FirstHalf)
		})
	})
}
