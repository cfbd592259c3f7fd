package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildcoast/incident-map/internal/config"
	"github.com/wildcoast/incident-map/internal/dataset"
	"github.com/wildcoast/incident-map/internal/mapgen"
	"github.com/wildcoast/incident-map/internal/population"
)

var (
	buildCrocPath       string
	buildSharkPath      string
	buildPopulationPath string
	buildOutPath        string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the incident map HTML page",
	Long:  "Reads the crocodile CSV, the shark workbook, and optionally the population-density shapefile, then renders all layers into one self-contained HTML file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyBuildFlags(cfg)
		return runBuild(cfg)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildCrocPath, "croc", "", "crocodile attack CSV path (default from config)")
	buildCmd.Flags().StringVar(&buildSharkPath, "shark", "", "shark attack XLSX path (default from config)")
	buildCmd.Flags().StringVar(&buildPopulationPath, "population", "", "population shapefile or zip path (default from config)")
	buildCmd.Flags().StringVar(&buildOutPath, "out", "", "output HTML path (default from config)")
	rootCmd.AddCommand(buildCmd)
}

// applyBuildFlags overlays non-empty command flags onto the loaded config.
func applyBuildFlags(c *config.Config) {
	if buildCrocPath != "" {
		c.Data.CrocPath = buildCrocPath
	}
	if buildSharkPath != "" {
		c.Data.SharkPath = buildSharkPath
	}
	if buildPopulationPath != "" {
		c.Data.PopulationPath = buildPopulationPath
	}
	if buildOutPath != "" {
		c.Map.Output = buildOutPath
	}
}

// runBuild executes the whole pipeline sequentially: read both incident
// sources, optionally read the population layer, combine, render.
func runBuild(c *config.Config) error {
	croc, err := dataset.ReadCroc(c.Data.CrocPath)
	if err != nil {
		return eris.Wrap(err, "build: read crocodile data")
	}

	shark, err := dataset.ReadShark(c.Data.SharkPath, dataset.SharkOptions{
		SheetName: c.Data.SharkSheet,
		MinYear:   c.Data.MinYear,
	})
	if err != nil {
		return eris.Wrap(err, "build: read shark data")
	}

	pop, err := loadPopulation(c.Data.PopulationPath)
	if err != nil {
		return eris.Wrap(err, "build: read population data")
	}

	incidents := dataset.Combine(croc, shark)
	zap.L().Info("build: sources loaded",
		zap.Int("crocodile", len(croc)),
		zap.Int("shark", len(shark)),
		zap.Bool("population", pop != nil),
	)

	err = mapgen.Render(mapgen.MapData{
		Incidents:  incidents,
		Population: pop,
		IconDir:    c.Map.IconDir,
		Title:      c.Map.Title,
	}, c.Map.Output)
	if err != nil {
		return eris.Wrap(err, "build: render map")
	}

	zap.L().Info("build: map written", zap.String("output", c.Map.Output))
	return nil
}

// loadPopulation reads the density layer when one is configured and present.
// The layer is optional; a missing file skips it with a warning.
func loadPopulation(path string) (*population.Dataset, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zap.L().Warn("build: population file not found, skipping layer", zap.String("path", path))
		return nil, nil
	}
	return population.Read(path)
}
