package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCrocCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "croc_attacks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCroc_UnifiedSchema(t *testing.T) {
	path := writeCrocCSV(t, `lat,long,is_fatal,sex,date
-12.46,130.84,1,male,2016-09-12
-14.92,135.57,0,female,not recorded
`)

	incidents, err := ReadCroc(path)
	require.NoError(t, err)
	require.Len(t, incidents, 2)

	first := incidents[0]
	assert.InDelta(t, -12.46, first.Lat, 1e-9)
	assert.InDelta(t, 130.84, first.Long, 1e-9)
	assert.True(t, first.IsFatal)
	assert.Equal(t, "male", first.Sex)
	require.NotNil(t, first.Date)
	assert.Equal(t, time.Date(2016, time.September, 12, 0, 0, 0, 0, time.UTC), *first.Date)
	assert.Equal(t, SpeciesCrocodile, first.Species)
	assert.Nil(t, first.Activity)
	assert.Nil(t, first.Provoked)

	// Second row's malformed date coerces to nil rather than failing the read.
	second := incidents[1]
	assert.False(t, second.IsFatal)
	assert.Nil(t, second.Date)
	assert.Equal(t, SpeciesCrocodile, second.Species)
}

func TestReadCroc_DayFirstDates(t *testing.T) {
	path := writeCrocCSV(t, `lat,long,is_fatal,sex,date
-12.0,131.0,0,male,07/03/2018
`)

	incidents, err := ReadCroc(path)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	require.NotNil(t, incidents[0].Date)
	assert.Equal(t, time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC), *incidents[0].Date)
}

func TestReadCroc_FatalityVariants(t *testing.T) {
	path := writeCrocCSV(t, `lat,long,is_fatal,sex,date
-12.0,131.0,1,male,2018-01-01
-12.1,131.1,true,male,2018-01-02
-12.2,131.2,Yes,male,2018-01-03
-12.3,131.3,0,male,2018-01-04
-12.4,131.4,,male,2018-01-05
`)

	incidents, err := ReadCroc(path)
	require.NoError(t, err)
	require.Len(t, incidents, 5)
	assert.True(t, incidents[0].IsFatal)
	assert.True(t, incidents[1].IsFatal)
	assert.True(t, incidents[2].IsFatal)
	assert.False(t, incidents[3].IsFatal)
	assert.False(t, incidents[4].IsFatal)
}

func TestReadCroc_DropsRowsMissingCoordinates(t *testing.T) {
	path := writeCrocCSV(t, `lat,long,is_fatal,sex,date
,130.84,0,male,2016-09-12
-12.46,,0,male,2016-09-12
-12.46,130.84,0,male,2016-09-12
`)

	incidents, err := ReadCroc(path)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
}

// brokenReader serves its buffered bytes, then fails every Read with the
// same error, the way a bad disk or closed pipe does.
type brokenReader struct {
	data []byte
	err  error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	return 0, r.err
}

func TestReadCroc_PersistentReadErrorTerminates(t *testing.T) {
	r := &brokenReader{
		data: []byte("lat,long,is_fatal,sex,date\n-12.46,130.84,1,male,2016-09-12\n"),
		err:  errors.New("read: input/output error"),
	}

	_, err := readCrocRows(r, "croc_attacks.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input/output error")
}

func TestReadCroc_MissingFile(t *testing.T) {
	_, err := ReadCroc(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestCombine_CrocFirstThenShark(t *testing.T) {
	croc := []Incident{{Species: SpeciesCrocodile, Lat: -12, Long: 131}}
	shark := []Incident{
		{Species: "tiger shark", Lat: -20, Long: 149},
		{Species: "white shark", Lat: -34, Long: 151},
	}

	combined := Combine(croc, shark)
	require.Len(t, combined, 3)
	assert.Equal(t, SpeciesCrocodile, combined[0].Species)
	assert.Equal(t, "tiger shark", combined[1].Species)
	assert.Equal(t, "white shark", combined[2].Species)
}

func TestIncident_IsShark(t *testing.T) {
	tests := []struct {
		species string
		want    bool
	}{
		{"tiger shark", true},
		{"Shark", true},
		{"WHITE SHARK", true},
		{"crocodile", false},
		{"", false},
	}
	for _, tt := range tests {
		in := Incident{Species: tt.species}
		assert.Equal(t, tt.want, in.IsShark(), "species %q", tt.species)
	}
}
