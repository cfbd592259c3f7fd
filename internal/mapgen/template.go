package mapgen

import (
	"bytes"
	"html/template"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// pageData is the template input for one rendered map page.
type pageData struct {
	Title        string
	CenterLat    float64
	CenterLng    float64
	Zoom         int
	OverlaysJSON template.JS
	Legend       []legendEntry
}

const mapPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
   <meta charset="UTF-8"/>
   <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
   <title>{{ .Title }}</title>
   <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
   <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
   <style>
      html, body { margin: 0; padding: 0; height: 100%; }
      #map { width: 100%; height: 100%; }
      .legend {
         position: absolute;
         bottom: 16px;
         left: 16px;
         z-index: 1000;
         background: rgba(255, 255, 255, 0.92);
         padding: 10px 14px;
         border-radius: 4px;
         box-shadow: 0 1px 4px rgba(0, 0, 0, 0.3);
         font: 12px/1.6 sans-serif;
      }
      .legend-title { font-weight: bold; margin-bottom: 4px; }
      .legend-row { display: flex; justify-content: space-between; gap: 12px; }
      .legend-count { font-weight: bold; }
   </style>
</head>
<body>
   <div id="map"></div>
   <div class="legend">
      <div class="legend-title">{{ .Title }}</div>
      {{ range .Legend }}<div class="legend-row"><span>{{ .Name }}</span><span class="legend-count">{{ .Count }}</span></div>
      {{ end }}
   </div>
   <script>
      const overlayData = {{ .OverlaysJSON }};

      const map = L.map('map').setView([{{ .CenterLat }}, {{ .CenterLng }}], {{ .Zoom }});

      L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
         attribution: '&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>',
         subdomains: 'abcd', maxZoom: 20
      }).addTo(map);

      const overlays = {};
      for (const group of overlayData) {
         const layer = L.featureGroup();

         for (const m of (group.markers || [])) {
            const [lng, lat] = m.geometry.coordinates;
            const marker = L.marker([lat, lng], {
               icon: L.divIcon({ html: m.badge, className: '', iconSize: [16, 16], iconAnchor: [8, 8] })
            });
            if (m.popup) marker.bindPopup(m.popup, { maxWidth: 300 });
            marker.addTo(layer);
         }

         for (const c of (group.circles || [])) {
            const [lng, lat] = c.geometry.coordinates;
            const circle = L.circleMarker([lat, lng], {
               radius: c.radius, fillColor: c.fill, fillOpacity: 0.7, color: '#555', weight: 1
            });
            if (c.popup) circle.bindPopup(c.popup, { maxWidth: 300 });
            circle.addTo(layer);
         }

         for (const p of (group.polygons || [])) {
            const shape = L.geoJSON(p.geometry, {
               style: { fillColor: p.fill, fillOpacity: 0.7, color: '#555', weight: 1 }
            });
            if (p.popup) shape.bindPopup(p.popup, { maxWidth: 300 });
            shape.addTo(layer);
         }

         layer.addTo(map);
         overlays[group.name] = layer;
      }

      L.control.layers(null, overlays, { collapsed: false }).addTo(map);
   </script>
</body>
</html>
`

// writePage executes the page template, minifies the result, and writes it.
func writePage(data pageData, outPath string) error {
	tmpl, err := template.New("map").Parse(mapPageTemplate)
	if err != nil {
		return eris.Wrap(err, "mapgen: parse page template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return eris.Wrap(err, "mapgen: execute page template")
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", minhtml.Minify)
	m.AddFunc("text/javascript", js.Minify)

	page, err := m.String("text/html", buf.String())
	if err != nil {
		return eris.Wrap(err, "mapgen: minify page")
	}

	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return eris.Wrap(err, "mapgen: write output")
	}
	return nil
}
