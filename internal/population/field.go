package population

import (
	"strings"

	"github.com/jonas-p/go-shp"
)

// preferredValueFields are density column names tried, in order, before
// falling back to the first numeric field.
var preferredValueFields = []string{
	"density",
	"pop_density",
	"popdensity",
	"persons_km2",
	"density_sqkm",
	"pop",
	"population",
}

// fieldName returns the DBF field name with trailing NULs stripped.
func fieldName(f shp.Field) string {
	return strings.TrimRight(f.String(), "\x00")
}

func numericField(f shp.Field) bool {
	return f.Fieldtype == 'N' || f.Fieldtype == 'F'
}

// pickValueField chooses the attribute column holding the density value: a
// preferred name when one is present, otherwise the first numeric-typed
// field with at least one value that parses. The second return is false
// when the layer has nothing usable.
func pickValueField(fields []shp.Field, feats []Feature) (int, bool) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[strings.ToLower(fieldName(f))] = i
	}

	for _, name := range preferredValueFields {
		if idx, ok := byName[name]; ok {
			return idx, true
		}
	}

	for i, f := range fields {
		if !numericField(f) {
			continue
		}
		key := strings.ToLower(fieldName(f))
		for j := range feats {
			if parseValue(feats[j].Attrs[key]) != nil {
				return i, true
			}
		}
	}

	return 0, false
}
