// Package mapgen renders the combined incident and population layers into a
// self-contained interactive Leaflet HTML page.
package mapgen

import (
	"encoding/json"
	"html/template"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wildcoast/incident-map/internal/dataset"
	"github.com/wildcoast/incident-map/internal/population"
)

// Overlay group names as they appear in the layer control.
const (
	GroupCrocFatal     = "Crocodile Attacks: Fatal"
	GroupCrocNonFatal  = "Crocodile Attacks: Non-fatal"
	GroupSharkFatal    = "Shark Attacks: Fatal"
	GroupSharkNonFatal = "Shark Attacks: Non-fatal"
	GroupPopulation    = "Population Density"
)

// DefaultOutput is the map filename used when none is configured.
const DefaultOutput = "croc_map.html"

const (
	mapCenterLat = -25.2744
	mapCenterLng = 133.7751
	mapZoom      = 4

	defaultTitle   = "Wildlife Attack Map"
	defaultIconDir = "icons"
)

// MapData is everything the rendered page needs.
type MapData struct {
	Incidents  []dataset.Incident
	Population *population.Dataset // nil when no layer was loaded
	IconDir    string
	Title      string
}

// markerJSON is one incident marker in the embedded payload.
type markerJSON struct {
	Geometry json.RawMessage `json:"geometry"`
	Popup    string          `json:"popup"`
	Badge    string          `json:"badge"`
}

// circleJSON is one population point rendered as a sized circle marker.
type circleJSON struct {
	Geometry json.RawMessage `json:"geometry"`
	Popup    string          `json:"popup"`
	Radius   float64         `json:"radius"`
	Fill     string          `json:"fill"`
}

// polygonJSON is one population polygon rendered as a choropleth shape.
type polygonJSON struct {
	Geometry json.RawMessage `json:"geometry"`
	Popup    string          `json:"popup"`
	Fill     string          `json:"fill"`
}

// overlayJSON is one named, togglable feature group.
type overlayJSON struct {
	Name     string        `json:"name"`
	Markers  []markerJSON  `json:"markers,omitempty"`
	Circles  []circleJSON  `json:"circles,omitempty"`
	Polygons []polygonJSON `json:"polygons,omitempty"`
}

// Render builds the layered map page and writes it to outPath.
func Render(data MapData, outPath string) error {
	groups, err := buildOverlays(data)
	if err != nil {
		return err
	}

	overlaysJSON, err := json.Marshal(groups)
	if err != nil {
		return eris.Wrap(err, "mapgen: marshal overlays")
	}

	title := data.Title
	if title == "" {
		title = defaultTitle
	}

	zap.L().Info("mapgen: rendering map",
		zap.Int("incidents", len(data.Incidents)),
		zap.Bool("population", data.Population != nil),
		zap.String("output", outPath),
	)

	return writePage(pageData{
		Title:        title,
		CenterLat:    mapCenterLat,
		CenterLng:    mapCenterLng,
		Zoom:         mapZoom,
		OverlaysJSON: template.JS(overlaysJSON),
		Legend:       legendEntries(groups),
	}, outPath)
}

// buildOverlays sorts incidents into the four attack groups and converts the
// population layer, preserving the layer-control group order.
func buildOverlays(data MapData) ([]overlayJSON, error) {
	iconDir := data.IconDir
	if iconDir == "" {
		iconDir = defaultIconDir
	}

	crocFatal := overlayJSON{Name: GroupCrocFatal}
	crocNonFatal := overlayJSON{Name: GroupCrocNonFatal}
	sharkFatal := overlayJSON{Name: GroupSharkFatal}
	sharkNonFatal := overlayJSON{Name: GroupSharkNonFatal}

	for i := range data.Incidents {
		in := &data.Incidents[i]

		gj, err := geometryJSON(in.Geometry())
		if err != nil {
			return nil, err
		}

		m := markerJSON{
			Geometry: gj,
			Popup:    incidentPopupHTML(in),
			Badge:    badgeHTML(iconPath(iconDir, in), in.IsFatal),
		}

		switch {
		case in.IsShark() && in.IsFatal:
			sharkFatal.Markers = append(sharkFatal.Markers, m)
		case in.IsShark():
			sharkNonFatal.Markers = append(sharkNonFatal.Markers, m)
		case in.IsFatal:
			crocFatal.Markers = append(crocFatal.Markers, m)
		default:
			crocNonFatal.Markers = append(crocNonFatal.Markers, m)
		}
	}

	popGroup, err := populationOverlay(data.Population)
	if err != nil {
		return nil, err
	}

	return []overlayJSON{crocFatal, crocNonFatal, sharkFatal, sharkNonFatal, popGroup}, nil
}

// populationOverlay converts the density layer: polygons become choropleth
// shapes, points become circles sized and colored by value. Features whose
// value failed conversion render with a transparent fill.
func populationOverlay(ds *population.Dataset) (overlayJSON, error) {
	group := overlayJSON{Name: GroupPopulation}
	if ds == nil {
		return group, nil
	}

	scale := NewLinearScale(ds.Values())

	for _, f := range ds.Features {
		gj, err := geometryJSON(f.Geom)
		if err != nil {
			return group, err
		}
		popup := populationPopupHTML(f, ds.FieldName)

		switch f.Geom.(type) {
		case *geom.Point:
			c := circleJSON{Geometry: gj, Popup: popup, Radius: minCircleRadius, Fill: "transparent"}
			if f.Value != nil {
				c.Radius = scale.Radius(*f.Value)
				c.Fill = scale.Color(*f.Value)
			}
			group.Circles = append(group.Circles, c)

		default:
			p := polygonJSON{Geometry: gj, Popup: popup, Fill: "transparent"}
			if f.Value != nil {
				p.Fill = scale.Color(*f.Value)
			}
			group.Polygons = append(group.Polygons, p)
		}
	}

	return group, nil
}

// legendEntry is one group line in the on-map legend.
type legendEntry struct {
	Name  string
	Count string
}

// legendEntries formats per-group feature counts for display.
func legendEntries(groups []overlayJSON) []legendEntry {
	p := message.NewPrinter(language.English)

	out := make([]legendEntry, 0, len(groups))
	for _, g := range groups {
		n := len(g.Markers) + len(g.Circles) + len(g.Polygons)
		out = append(out, legendEntry{Name: g.Name, Count: p.Sprintf("%d", n)})
	}
	return out
}
