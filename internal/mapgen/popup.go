package mapgen

import (
	"html"
	"strconv"
	"strings"

	"github.com/wildcoast/incident-map/internal/dataset"
	"github.com/wildcoast/incident-map/internal/population"
)

const popupDateLayout = "2006-01-02"

// incidentPopupHTML concatenates the incident's non-empty fields, in schema
// order, as bolded name/value lines.
func incidentPopupHTML(in *dataset.Incident) string {
	var b strings.Builder

	writePopupField(&b, "lat", formatCoord(in.Lat))
	writePopupField(&b, "long", formatCoord(in.Long))
	writePopupField(&b, "is_fatal", boolFlag(in.IsFatal))
	writePopupField(&b, "sex", in.Sex)
	if in.Date != nil {
		writePopupField(&b, "date", in.Date.Format(popupDateLayout))
	}
	writePopupField(&b, "species", in.Species)
	if in.Activity != nil {
		writePopupField(&b, "activity", *in.Activity)
	}
	if in.Provoked != nil {
		writePopupField(&b, "provoked", *in.Provoked)
	}

	return b.String()
}

// populationPopupHTML shows the feature's density value under its field name.
func populationPopupHTML(f population.Feature, fieldName string) string {
	if f.Value == nil || fieldName == "" {
		return ""
	}

	var b strings.Builder
	writePopupField(&b, strings.ToLower(fieldName), formatCoord(*f.Value))
	return b.String()
}

func writePopupField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<b>")
	b.WriteString(name)
	b.WriteString(":</b> ")
	b.WriteString(html.EscapeString(value))
	b.WriteString("<br>")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
