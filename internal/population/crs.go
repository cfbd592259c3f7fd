package population

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Transform converts projected planar coordinates to EPSG:4326 degrees.
type Transform interface {
	Inverse(x, y float64) (lng, lat float64)
}

// identity passes geographic coordinates through unchanged.
type identity struct{}

func (identity) Inverse(x, y float64) (float64, float64) { return x, y }

// webMercator inverts spherical Web Mercator coordinates.
type webMercator struct {
	radius float64
}

func (p webMercator) Inverse(x, y float64) (float64, float64) {
	lng := x / p.radius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/p.radius)) - math.Pi/2) * 180 / math.Pi
	return lng, lat
}

// albers inverts an ellipsoidal Albers equal-area conic projection
// (Snyder, Map Projections: A Working Manual, eqs. 14-1..14-21, 3-16).
type albers struct {
	a      float64 // semi-major axis
	e      float64 // eccentricity
	e2     float64
	lng0   float64 // central meridian, radians
	n      float64
	c      float64
	rho0   float64
	falseE float64
	falseN float64
}

func newAlbers(a, invF, lng0Deg, lat0Deg, sp1Deg, sp2Deg, falseE, falseN float64) albers {
	f := 1 / invF
	e2 := 2*f - f*f
	lat0 := lat0Deg * math.Pi / 180
	sp1 := sp1Deg * math.Pi / 180
	sp2 := sp2Deg * math.Pi / 180
	e := math.Sqrt(e2)

	m1 := albersM(sp1, e2)
	m2 := albersM(sp2, e2)
	q0 := albersQ(lat0, e, e2)
	q1 := albersQ(sp1, e, e2)
	q2 := albersQ(sp2, e, e2)

	n := (m1*m1 - m2*m2) / (q2 - q1)
	c := m1*m1 + n*q1

	return albers{
		a:      a,
		e:      e,
		e2:     e2,
		lng0:   lng0Deg * math.Pi / 180,
		n:      n,
		c:      c,
		rho0:   a * math.Sqrt(c-n*q0) / n,
		falseE: falseE,
		falseN: falseN,
	}
}

func albersM(lat, e2 float64) float64 {
	s := math.Sin(lat)
	return math.Cos(lat) / math.Sqrt(1-e2*s*s)
}

func albersQ(lat, e, e2 float64) float64 {
	s := math.Sin(lat)
	return (1 - e2) * (s/(1-e2*s*s) - (1/(2*e))*math.Log((1-e*s)/(1+e*s)))
}

func (p albers) Inverse(x, y float64) (float64, float64) {
	x -= p.falseE
	y -= p.falseN

	dy := p.rho0 - y
	rho := math.Hypot(x, dy)
	theta := math.Atan2(x, dy)
	if p.n < 0 {
		theta = math.Atan2(-x, -dy)
	}

	q := (p.c - rho*rho*p.n*p.n/(p.a*p.a)) / p.n
	lat := p.latFromQ(q)
	lng := p.lng0 + theta/p.n

	return lng * 180 / math.Pi, lat * 180 / math.Pi
}

// latFromQ solves q(lat) = q by fixed-point iteration.
func (p albers) latFromQ(q float64) float64 {
	qPole := albersQ(math.Pi/2, p.e, p.e2)
	if math.Abs(q) >= math.Abs(qPole) {
		return math.Copysign(math.Pi/2, q)
	}

	lat := math.Asin(q / 2)
	for i := 0; i < 10; i++ {
		s := math.Sin(lat)
		denom := 1 - p.e2*s*s
		delta := (denom * denom / (2 * math.Cos(lat))) *
			(q/(1-p.e2) - s/denom + (1/(2*p.e))*math.Log((1-p.e*s)/(1+p.e*s)))
		lat += delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return lat
}

var (
	projectionRe = regexp.MustCompile(`PROJECTION\["([^"]+)"\]`)
	parameterRe  = regexp.MustCompile(`PARAMETER\["([^"]+)"\s*,\s*([-+0-9.eE]+)`)
	spheroidRe   = regexp.MustCompile(`SPHEROID\["[^"]*"\s*,\s*([-+0-9.eE]+)\s*,\s*([-+0-9.eE]+)`)
)

// ParsePRJ interprets shapefile .prj well-known text and returns the
// transform to EPSG:4326. Geographic coordinate systems pass through
// unchanged; Web Mercator and Albers equal-area conic projections are
// inverted analytically. Anything else is an error naming the projection.
func ParsePRJ(wkt string) (Transform, error) {
	wkt = strings.TrimSpace(wkt)
	switch {
	case wkt == "":
		return identity{}, nil
	case strings.HasPrefix(wkt, "GEOGCS") || strings.HasPrefix(wkt, "GEOGCRS"):
		return identity{}, nil
	case !strings.HasPrefix(wkt, "PROJCS"):
		return nil, eris.Errorf("population: unrecognized coordinate system %q", wktHead(wkt))
	}

	a, invF := 6378137.0, 298.257223563
	if m := spheroidRe.FindStringSubmatch(wkt); m != nil {
		a = mustFloat(m[1])
		invF = mustFloat(m[2])
	}

	params := make(map[string]float64)
	for _, m := range parameterRe.FindAllStringSubmatch(wkt, -1) {
		params[strings.ToLower(m[1])] = mustFloat(m[2])
	}

	var name string
	if m := projectionRe.FindStringSubmatch(wkt); m != nil {
		name = m[1]
	}

	switch lower := strings.ToLower(name); {
	// Transverse Mercator (UTM/MGA zones) shares the name but none of the
	// math; it must reach the unsupported-projection error below.
	case strings.Contains(lower, "mercator") && !strings.Contains(lower, "transverse"):
		return webMercator{radius: a}, nil

	case strings.Contains(lower, "albers"):
		sp1, ok1 := params["standard_parallel_1"]
		sp2, ok2 := params["standard_parallel_2"]
		if !ok1 || !ok2 {
			return nil, eris.New("population: albers projection missing standard parallels")
		}
		return newAlbers(
			a, invF,
			param(params, "central_meridian", "longitude_of_center"),
			param(params, "latitude_of_origin", "latitude_of_center"),
			sp1, sp2,
			param(params, "false_easting"),
			param(params, "false_northing"),
		), nil
	}

	return nil, eris.Errorf("population: unsupported projection %q", name)
}

// param returns the first of the named parameters present, else 0.
func param(params map[string]float64, names ...string) float64 {
	for _, name := range names {
		if v, ok := params[name]; ok {
			return v
		}
	}
	return 0
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func wktHead(wkt string) string {
	if len(wkt) > 40 {
		return wkt[:40] + "..."
	}
	return wkt
}
