package mapgen

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// geometryJSON encodes a geometry as a GeoJSON geometry object.
func geometryJSON(g geom.T) (json.RawMessage, error) {
	b, err := geojson.Marshal(g)
	if err != nil {
		return nil, eris.Wrap(err, "mapgen: encode geometry")
	}
	return json.RawMessage(b), nil
}
