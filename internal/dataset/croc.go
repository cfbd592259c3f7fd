package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SpeciesCrocodile is the constant species assigned to crocodile records,
// whose source carries no species column.
const SpeciesCrocodile = "crocodile"

// ReadCroc loads the crocodile-attack CSV and returns unified incident
// records. The source already carries lat, long, is_fatal, sex and date
// columns; species is filled with the crocodile constant and
// activity/provoked stay nil. Rows missing either coordinate are dropped.
func ReadCroc(path string) ([]Incident, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "croc: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return readCrocRows(f, path)
}

func readCrocRows(r io.Reader, path string) ([]Incident, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "croc: read header")
	}
	colIdx := mapColumns(header)

	var out []Incident
	var noCoords, badRows int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Parse errors resume on the next line; anything else (an
			// underlying I/O failure) repeats forever, so bail.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				badRows++
				continue
			}
			return nil, eris.Wrapf(err, "croc: read %s", path)
		}

		lat := parseFloatPtr(getCol(record, colIdx, "lat"))
		long := parseFloatPtr(getCol(record, colIdx, "long"))
		if lat == nil || long == nil {
			noCoords++
			continue
		}

		out = append(out, Incident{
			Lat:     *lat,
			Long:    *long,
			IsFatal: parseBoolFlag(getCol(record, colIdx, "is_fatal")),
			Sex:     strings.TrimSpace(getCol(record, colIdx, "sex")),
			Date:    parseDateMulti(getCol(record, colIdx, "date")),
			Species: SpeciesCrocodile,
		})
	}

	if noCoords > 0 || badRows > 0 {
		zap.L().Debug("croc: dropped rows",
			zap.String("path", path),
			zap.Int("missing_coordinates", noCoords),
			zap.Int("malformed", badRows),
		)
	}

	return out, nil
}
