package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Source column names in the shark workbook.
const (
	colSharkLatitude  = "Latitude"
	colSharkLongitude = "Longitude"
	colSharkSeverity  = "Injury.severity"
	colSharkGender    = "Victim.gender"
	colSharkMonth     = "Incident.month"
	colSharkYear      = "Incident.year"
	colSharkSpecies   = "Shark.common.name"
	colSharkActivity  = "Victim.activity"
	colSharkProvoked  = "Provoked/unprovoked"
)

// DefaultMinYear is the earliest incident year kept by the shark reader.
const DefaultMinYear = 2015

// SharkOptions configures the shark workbook reader.
type SharkOptions struct {
	SheetName string // if empty, the first sheet is used
	MinYear   int    // default DefaultMinYear
}

// ReadShark loads the shark-attack workbook and returns unified incident
// records. Rows missing either coordinate are dropped, as are rows whose
// incident year is missing or earlier than MinYear. The fatality flag is set
// iff the injury severity equals "fatal" case-insensitively.
func ReadShark(path string, opts SharkOptions) ([]Incident, error) {
	if opts.MinYear == 0 {
		opts.MinYear = DefaultMinYear
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shark: open workbook %s", path)
	}

	sheet, err := sharkSheet(f, opts.SheetName)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("shark: sheet %q has no header row", sheet.Name)
	}

	headerRow := sheet.Rows[0]
	header := make([]string, len(headerRow.Cells))
	for i, cell := range headerRow.Cells {
		header[i] = strings.TrimSpace(cell.String())
	}
	colIdx := mapColumns(header)

	var out []Incident
	var noCoords, beforeMinYear int

	for rowIdx := 1; rowIdx < len(sheet.Rows); rowIdx++ {
		row := sheet.Rows[rowIdx]
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = strings.TrimSpace(cell.String())
		}

		lat := parseFloatPtr(getCol(record, colIdx, colSharkLatitude))
		long := parseFloatPtr(getCol(record, colIdx, colSharkLongitude))
		if lat == nil || long == nil {
			noCoords++
			continue
		}

		year := parseIntPtr(getCol(record, colIdx, colSharkYear))
		if year == nil || *year < opts.MinYear {
			beforeMinYear++
			continue
		}
		month := parseIntPtr(getCol(record, colIdx, colSharkMonth))

		out = append(out, Incident{
			Lat:      *lat,
			Long:     *long,
			IsFatal:  strings.EqualFold(strings.TrimSpace(getCol(record, colIdx, colSharkSeverity)), "fatal"),
			Sex:      strings.TrimSpace(getCol(record, colIdx, colSharkGender)),
			Date:     dateFromYearMonth(year, month),
			Species:  strings.TrimSpace(getCol(record, colIdx, colSharkSpecies)),
			Activity: strPtrOrNil(getCol(record, colIdx, colSharkActivity)),
			Provoked: strPtrOrNil(getCol(record, colIdx, colSharkProvoked)),
		})
	}

	if noCoords > 0 || beforeMinYear > 0 {
		zap.L().Debug("shark: dropped rows",
			zap.String("path", path),
			zap.Int("missing_coordinates", noCoords),
			zap.Int("before_min_year", beforeMinYear),
		)
	}

	return out, nil
}

func sharkSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("shark: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("shark: workbook has no sheets")
	}
	return f.Sheets[0], nil
}
