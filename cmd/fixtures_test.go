package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeCrocCSV writes a crocodile source fixture and returns its path.
func writeCrocCSV(t *testing.T, dir string, rows []string) string {
	t.Helper()

	content := "lat,long,is_fatal,sex,date\n"
	for _, r := range rows {
		content += r + "\n"
	}

	path := filepath.Join(dir, "croc_attacks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeSharkXLSX writes a shark source fixture and returns its path.
func writeSharkXLSX(t *testing.T, dir string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("ASZ")
	require.NoError(t, err)

	addRow := func(values []string) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	addRow([]string{
		"Incident.year", "Incident.month", "Victim.gender", "Injury.severity",
		"Latitude", "Longitude", "Shark.common.name", "Victim.activity", "Provoked/unprovoked",
	})
	for _, r := range rows {
		addRow(r)
	}

	path := filepath.Join(dir, "shark_attacks.xlsx")
	require.NoError(t, f.Save(path))
	return path
}
