package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wildcoast/incident-map/internal/config"
	"github.com/wildcoast/incident-map/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the configured source files",
	Long:  "Downloads every configured source URL to its local data path. Distinct sources download in parallel; ZIP archives wrapping a differently typed target are extracted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sources := configuredSources(cfg)
		if len(sources) == 0 {
			return eris.New("fetch: no source URLs configured (sources.croc_url, sources.shark_url, sources.population_url)")
		}

		opts := fetcher.HTTPOptions{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, src := range sources {
			src := src
			g.Go(func() error {
				return fetchSource(ctx, src, opts)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("fetch: all sources downloaded", zap.Int("sources", len(sources)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

// fetchTarget pairs a remote URL with the local path build reads from.
type fetchTarget struct {
	Name string
	URL  string
	Dest string
}

func configuredSources(c *config.Config) []fetchTarget {
	var out []fetchTarget
	if c.Sources.CrocURL != "" {
		out = append(out, fetchTarget{Name: "crocodile", URL: c.Sources.CrocURL, Dest: c.Data.CrocPath})
	}
	if c.Sources.SharkURL != "" {
		out = append(out, fetchTarget{Name: "shark", URL: c.Sources.SharkURL, Dest: c.Data.SharkPath})
	}
	if c.Sources.PopulationURL != "" {
		out = append(out, fetchTarget{Name: "population", URL: c.Sources.PopulationURL, Dest: c.Data.PopulationPath})
	}
	return out
}

// fetchSource downloads one source to its destination. A ZIP archive whose
// destination expects another extension is extracted and the matching entry
// moved into place.
func fetchSource(ctx context.Context, t fetchTarget, opts fetcher.HTTPOptions) error {
	f, err := fetcher.ForURL(t.URL, opts)
	if err != nil {
		return eris.Wrapf(err, "fetch: %s", t.Name)
	}

	if err := os.MkdirAll(filepath.Dir(t.Dest), 0o755); err != nil {
		return eris.Wrapf(err, "fetch: create data dir for %s", t.Name)
	}

	destExt := filepath.Ext(t.Dest)
	urlIsZip := strings.EqualFold(filepath.Ext(urlPath(t.URL)), ".zip")
	if urlIsZip && !strings.EqualFold(destExt, ".zip") {
		return fetchZippedSource(ctx, f, t, destExt)
	}

	n, err := f.DownloadToFile(ctx, t.URL, t.Dest)
	if err != nil {
		return eris.Wrapf(err, "fetch: download %s", t.Name)
	}

	zap.L().Info("fetch: source downloaded",
		zap.String("source", t.Name),
		zap.String("path", t.Dest),
		zap.Int64("bytes", n),
	)
	return nil
}

// fetchZippedSource downloads the archive to a temp dir, extracts it, and
// moves the entry matching the destination's extension into place.
func fetchZippedSource(ctx context.Context, f fetcher.Fetcher, t fetchTarget, wantExt string) error {
	tmpDir, err := os.MkdirTemp("", "fetch-*")
	if err != nil {
		return eris.Wrapf(err, "fetch: temp dir for %s", t.Name)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	zipPath := filepath.Join(tmpDir, "source.zip")
	if _, err := f.DownloadToFile(ctx, t.URL, zipPath); err != nil {
		return eris.Wrapf(err, "fetch: download %s", t.Name)
	}

	extracted, err := fetcher.ExtractZIP(zipPath, tmpDir)
	if err != nil {
		return eris.Wrapf(err, "fetch: extract %s", t.Name)
	}
	found, ok := fetcher.FindByExt(extracted, wantExt)
	if !ok {
		return eris.Errorf("fetch: no %s entry in archive for %s", wantExt, t.Name)
	}

	if err := movePath(found, t.Dest); err != nil {
		return eris.Wrapf(err, "fetch: place %s", t.Name)
	}

	zap.L().Info("fetch: source downloaded and extracted",
		zap.String("source", t.Name),
		zap.String("path", t.Dest),
	)
	return nil
}

// movePath renames src to dest, falling back to a copy across filesystems.
func movePath(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck

	_, err = io.Copy(out, in)
	return err
}

func urlPath(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
