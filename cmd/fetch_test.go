package main

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildcoast/incident-map/internal/config"
	"github.com/wildcoast/incident-map/internal/fetcher"
)

func TestConfiguredSources(t *testing.T) {
	c := &config.Config{}
	c.Sources.CrocURL = "https://example.org/crocs.csv"
	c.Sources.PopulationURL = "https://example.org/pop.zip"
	c.Data.CrocPath = "data/croc_attacks.csv"
	c.Data.PopulationPath = "data/population.zip"

	sources := configuredSources(c)

	require.Len(t, sources, 2)
	assert.Equal(t, "crocodile", sources[0].Name)
	assert.Equal(t, "data/croc_attacks.csv", sources[0].Dest)
	assert.Equal(t, "population", sources[1].Name)
}

func TestConfiguredSources_Empty(t *testing.T) {
	assert.Empty(t, configuredSources(&config.Config{}))
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "https://x.org/a.zip", urlPath("https://x.org/a.zip?token=1"))
	assert.Equal(t, "https://x.org/a.zip", urlPath("https://x.org/a.zip#frag"))
	assert.Equal(t, "https://x.org/a.csv", urlPath("https://x.org/a.csv"))
}

func TestFetchSource_DownloadsToDest(t *testing.T) {
	body := "lat,long,is_fatal,sex,date\n-12.4,130.9,1,male,2019-03-14\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data", "croc_attacks.csv")
	target := fetchTarget{Name: "crocodile", URL: srv.URL + "/croc_attacks.csv", Dest: dest}

	require.NoError(t, fetchSource(context.Background(), target, fetcher.HTTPOptions{MaxRetries: 1}))

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestFetchSource_ExtractsZippedSource(t *testing.T) {
	body := "lat,long,is_fatal,sex,date\n-16.9,145.7,0,female,2020-07-02\n"

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	entry, err := zw.Create("croc_attacks.csv")
	require.NoError(t, err)
	_, err = entry.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive.Bytes())
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "croc_attacks.csv")
	target := fetchTarget{Name: "crocodile", URL: srv.URL + "/source.zip", Dest: dest}

	require.NoError(t, fetchSource(context.Background(), target, fetcher.HTTPOptions{MaxRetries: 1}))

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestFetchSource_ZipWithoutWantedEntry(t *testing.T) {
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	entry, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("nothing useful"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive.Bytes())
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "croc_attacks.csv")
	target := fetchTarget{Name: "crocodile", URL: srv.URL + "/source.zip", Dest: dest}

	assert.Error(t, fetchSource(context.Background(), target, fetcher.HTTPOptions{MaxRetries: 1}))
}

func TestFetchSource_BadScheme(t *testing.T) {
	target := fetchTarget{Name: "crocodile", URL: "gopher://example.org/x.csv", Dest: filepath.Join(t.TempDir(), "x.csv")}
	assert.Error(t, fetchSource(context.Background(), target, fetcher.HTTPOptions{}))
}

func TestMovePath_CopiesAcrossDirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n"), 0o644))

	dest := filepath.Join(dir, "sub", "dest.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	require.NoError(t, movePath(src, dest))

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(raw))
}
