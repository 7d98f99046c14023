package export_test

import (
	"bytes"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tealeg/xlsx/v2"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/export"
)

func rows(t *testing.T, b []byte) [][]string {
	t.Helper()
	f, err := xlsx.OpenBinary(b)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	sheet, ok := f.Sheet[export.SheetName]
	if !ok {
		t.Fatalf("sheet %q missing", export.SheetName)
	}
	var out [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.String())
		}
		out = append(out, cells)
	}
	return out
}

func TestWriteXLSX(t *testing.T) {
	Convey("Given a log with a won and a lost kickout", t, func() {
		p := 11
		at := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)
		log := []model.Record{
			{Call: "RIGHT", Setup: "short", Zone: "2", Player: &p, Won: true, Time: at.UnixMilli()},
			{Call: "LEFT", Setup: "long", Zone: "5", Won: false, Time: at.Add(time.Minute).UnixMilli()},
		}

		var buf bytes.Buffer
		err := export.WriteXLSX(&buf, log)

		Convey("Then the sheet has a header and one row per kickout", func() {
			So(err, ShouldBeNil)
			got := rows(t, buf.Bytes())
			So(got, ShouldHaveLength, 3)
			So(got[0], ShouldResemble, export.Header)
			So(got[1][:6], ShouldResemble, []string{"1", "2026-03-01T15:04:05Z", "RIGHT", "short", "2", "WON"})
			So(got[1][6], ShouldEqual, "11")
			So(got[2][5], ShouldEqual, "LOST")
		})

		Convey("Then lost kickouts leave the player blank", func() {
			got := rows(t, buf.Bytes())
			last := got[2]
			if len(last) > 6 {
				So(last[6], ShouldBeEmpty)
			}
		})
	})

	Convey("Given an empty log", t, func() {
		var buf bytes.Buffer
		So(export.WriteXLSX(&buf, nil), ShouldBeNil)

		Convey("Then only the header is written", func() {
			So(rows(t, buf.Bytes()), ShouldHaveLength, 1)
		})
	})
}
