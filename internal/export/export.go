// Package export renders the kickout log as a spreadsheet.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/okian/kickout/internal/domain/model"
)

// SheetName names the single sheet written by WriteXLSX.
const SheetName = "Kickouts"

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header is the first row of the sheet.
var Header = []string{"#", "Time", "Call", "Setup", "Zone", "Won", "Player"} //nolint:gochecknoglobals // fixed column layout

// ErrWrite wraps workbook failures.
var ErrWrite = errors.New("write spreadsheet failed")

// WriteXLSX writes log to w as one sheet, one row per kickout in insertion order.
// Times are UTC RFC 3339; lost kickouts leave Player empty.
func WriteXLSX(w io.Writer, log []model.Record) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	row := sheet.AddRow()
	for _, h := range Header {
		row.AddCell().SetString(h)
	}

	for i, rec := range log {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(rec.Timestamp().UTC().Format(time.RFC3339))
		row.AddCell().SetString(rec.Call)
		row.AddCell().SetString(rec.Setup)
		row.AddCell().SetString(string(rec.Zone))
		row.AddCell().SetString(outcome(rec.Won))
		player := row.AddCell()
		if id, ok := rec.PlayerID(); ok {
			player.SetString(strconv.Itoa(id))
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func outcome(won bool) string {
	if won {
		return "WON"
	}
	return "LOST"
}
