// Package dataset reads wildlife-attack incident records from their source
// files and normalizes them into a common schema.
package dataset

import (
	"strings"
	"time"

	"github.com/twpayne/go-geom"
)

// Incident is one wildlife-attack record in the unified schema.
// Activity and Provoked are nil when the source has no such column or the
// value is blank; Date is nil when the source value could not be parsed.
type Incident struct {
	Lat      float64
	Long     float64
	IsFatal  bool
	Sex      string
	Date     *time.Time
	Species  string
	Activity *string
	Provoked *string
}

// Geometry returns the incident position as a point in EPSG:4326,
// built from (longitude, latitude).
func (in *Incident) Geometry() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{in.Long, in.Lat}).SetSRID(4326)
}

// IsShark reports whether the incident species names a shark.
func (in *Incident) IsShark() bool {
	return strings.Contains(strings.ToLower(in.Species), "shark")
}

// Combine appends shark records after crocodile records, preserving the
// order within each source.
func Combine(croc, shark []Incident) []Incident {
	out := make([]Incident, 0, len(croc)+len(shark))
	out = append(out, croc...)
	out = append(out, shark...)
	return out
}
