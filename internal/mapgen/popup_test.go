package mapgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wildcoast/incident-map/internal/dataset"
	"github.com/wildcoast/incident-map/internal/population"
)

func strPtr(s string) *string { return &s }

func TestIncidentPopupHTML_AllFieldsInSchemaOrder(t *testing.T) {
	date := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)
	in := &dataset.Incident{
		Lat:      -12.5,
		Long:     131.05,
		IsFatal:  true,
		Sex:      "M",
		Date:     &date,
		Species:  "saltwater crocodile",
		Activity: strPtr("fishing"),
		Provoked: strPtr("unprovoked"),
	}

	want := "<b>lat:</b> -12.5<br>" +
		"<b>long:</b> 131.05<br>" +
		"<b>is_fatal:</b> 1<br>" +
		"<b>sex:</b> M<br>" +
		"<b>date:</b> 2018-03-07<br>" +
		"<b>species:</b> saltwater crocodile<br>" +
		"<b>activity:</b> fishing<br>" +
		"<b>provoked:</b> unprovoked<br>"
	assert.Equal(t, want, incidentPopupHTML(in))
}

func TestIncidentPopupHTML_OmitsMissingFields(t *testing.T) {
	in := &dataset.Incident{Lat: -20, Long: 149, IsFatal: false, Species: "crocodile"}

	want := "<b>lat:</b> -20<br>" +
		"<b>long:</b> 149<br>" +
		"<b>is_fatal:</b> 0<br>" +
		"<b>species:</b> crocodile<br>"
	assert.Equal(t, want, incidentPopupHTML(in))
}

func TestIncidentPopupHTML_EscapesValues(t *testing.T) {
	in := &dataset.Incident{Lat: 1, Long: 2, Species: `tiger <shark> & "others"`}

	got := incidentPopupHTML(in)
	assert.Contains(t, got, "tiger &lt;shark&gt; &amp; &#34;others&#34;")
	assert.NotContains(t, got, "<shark>")
}

func TestPopulationPopupHTML(t *testing.T) {
	v := 407.0
	f := population.Feature{Value: &v}

	assert.Equal(t, "<b>density:</b> 407<br>", populationPopupHTML(f, "DENSITY"))
	assert.Empty(t, populationPopupHTML(population.Feature{}, "DENSITY"))
	assert.Empty(t, populationPopupHTML(f, ""))
}
