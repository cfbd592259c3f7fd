// Package population loads population-density features from a shapefile or
// a zipped shapefile and reprojects them to EPSG:4326 for rendering.
package population

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/wildcoast/incident-map/internal/fetcher"
)

// Feature is one population sample: a geometry in EPSG:4326, the raw
// attribute record, and the parsed density value (nil when the chosen field
// is blank or unparseable).
type Feature struct {
	Geom  geom.T
	Value *float64
	Attrs map[string]string
}

// Dataset holds the loaded population layer.
type Dataset struct {
	Features  []Feature
	FieldName string // chosen density field, empty when none exists
}

// Values returns the non-nil density values in feature order.
func (d *Dataset) Values() []float64 {
	out := make([]float64, 0, len(d.Features))
	for _, f := range d.Features {
		if f.Value != nil {
			out = append(out, *f.Value)
		}
	}
	return out
}

// Read loads a population container: a bare .shp path, or a .zip holding a
// shapefile. The companion .prj decides reprojection; without one the
// coordinates are assumed to be geographic already.
func Read(path string) (*Dataset, error) {
	shpPath := path
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		tmpDir, err := os.MkdirTemp("", "population-*")
		if err != nil {
			return nil, eris.Wrap(err, "population: create temp dir")
		}
		defer os.RemoveAll(tmpDir) //nolint:errcheck

		extracted, err := fetcher.ExtractZIP(path, tmpDir)
		if err != nil {
			return nil, eris.Wrapf(err, "population: extract %s", path)
		}
		found, ok := fetcher.FindByExt(extracted, ".shp")
		if !ok {
			return nil, eris.Errorf("population: no shapefile in %s", path)
		}
		shpPath = found
	}

	tr, err := loadTransform(shpPath)
	if err != nil {
		return nil, err
	}

	return readShapefile(shpPath, tr)
}

// loadTransform reads the shapefile's companion .prj and builds the
// transform to EPSG:4326.
func loadTransform(shpPath string) (Transform, error) {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	wkt, err := os.ReadFile(prjPath)
	if os.IsNotExist(err) {
		zap.L().Warn("population: no .prj sidecar, assuming geographic coordinates",
			zap.String("shapefile", shpPath))
		return identity{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "population: read %s", prjPath)
	}
	return ParsePRJ(string(wkt))
}

func readShapefile(shpPath string, tr Transform) (*Dataset, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "population: open shapefile %s", shpPath)
	}
	defer reader.Close() //nolint:errcheck

	fields := reader.Fields()

	ds := &Dataset{}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		g := shapeToGeom(shape, tr)
		if g == nil {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val != "" {
				attrs[strings.ToLower(fieldName(f))] = val
			}
		}

		ds.Features = append(ds.Features, Feature{Geom: g, Attrs: attrs})
	}

	if skipped > 0 {
		zap.L().Debug("population: skipped unsupported shapefile records",
			zap.String("shapefile", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	// The field pick needs the loaded attributes: a numeric-typed column
	// whose values never parse must not shadow a later usable one.
	valueIdx, hasValue := pickValueField(fields, ds.Features)
	if !hasValue {
		zap.L().Warn("population: no usable numeric attribute field, rendering without values",
			zap.String("shapefile", shpPath))
		return ds, nil
	}

	ds.FieldName = fieldName(fields[valueIdx])
	key := strings.ToLower(ds.FieldName)
	for i := range ds.Features {
		ds.Features[i].Value = parseValue(ds.Features[i].Attrs[key])
	}

	return ds, nil
}

func parseValue(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// shapeToGeom converts a shapefile record to a go-geom geometry in
// EPSG:4326, reprojecting every vertex. Unsupported shape types yield nil.
func shapeToGeom(shape shp.Shape, tr Transform) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return projectedPoint(s.X, s.Y, tr)
	case *shp.PointZ:
		return projectedPoint(s.X, s.Y, tr)
	case *shp.PointM:
		return projectedPoint(s.X, s.Y, tr)
	case *shp.Polygon:
		return partsToMultiPolygon(s.Parts, s.Points, tr)
	case *shp.PolygonZ:
		return partsToMultiPolygon(s.Parts, s.Points, tr)
	case *shp.PolygonM:
		return partsToMultiPolygon(s.Parts, s.Points, tr)
	default:
		return nil
	}
}

func projectedPoint(x, y float64, tr Transform) *geom.Point {
	lng, lat := tr.Inverse(x, y)
	return geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326)
}

// partsToMultiPolygon converts shapefile polygon parts into a MultiPolygon
// of single-ring polygons.
func partsToMultiPolygon(parts []int32, points []shp.Point, tr Transform) geom.T {
	if len(parts) == 0 || len(points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := 0; i < len(parts); i++ {
		start := parts[i]
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			lng, lat := tr.Inverse(points[j].X, points[j].Y)
			flat = append(flat, lng, lat)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("population: skipping malformed ring", zap.Int("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("population: skipping malformed polygon part", zap.Int("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
