package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/wildcoast/incident-map/internal/config"
	"github.com/wildcoast/incident-map/internal/dataset"
	"github.com/wildcoast/incident-map/internal/fetcher"
	"github.com/wildcoast/incident-map/internal/population"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Read the configured sources and print a summary",
	Long:  "Loads every configured source the same way build does and prints record counts, fatal counts, date ranges, and dropped-row counts without rendering a map.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		summary, err := buildValidateSummary(cfg)
		if err != nil {
			return err
		}

		switch validateFormat {
		case "yaml":
			out, err := yaml.Marshal(summary)
			if err != nil {
				return eris.Wrap(err, "validate: marshal summary")
			}
			fmt.Print(string(out))
		case "text":
			formatValidateSummary(os.Stdout, summary)
		default:
			return eris.Errorf("validate: unknown format %q (want text or yaml)", validateFormat)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(validateCmd)
}

// sourceSummary describes one incident source after normalization.
type sourceSummary struct {
	Records  int    `yaml:"records"`
	Fatal    int    `yaml:"fatal"`
	Dropped  int    `yaml:"dropped"`
	DateFrom string `yaml:"date_from,omitempty"`
	DateTo   string `yaml:"date_to,omitempty"`
}

// populationSummary describes the density layer.
type populationSummary struct {
	Features int     `yaml:"features"`
	Field    string  `yaml:"field,omitempty"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
}

// validateSummary is the full validate report.
type validateSummary struct {
	Crocodile  sourceSummary      `yaml:"crocodile"`
	Shark      sourceSummary      `yaml:"shark"`
	Population *populationSummary `yaml:"population,omitempty"`
}

// buildValidateSummary loads every configured source and counts what the
// readers kept against the raw row counts.
func buildValidateSummary(c *config.Config) (*validateSummary, error) {
	croc, err := dataset.ReadCroc(c.Data.CrocPath)
	if err != nil {
		return nil, eris.Wrap(err, "validate: read crocodile data")
	}
	crocRaw, err := rawCSVRows(c.Data.CrocPath)
	if err != nil {
		return nil, err
	}

	shark, err := dataset.ReadShark(c.Data.SharkPath, dataset.SharkOptions{
		SheetName: c.Data.SharkSheet,
		MinYear:   c.Data.MinYear,
	})
	if err != nil {
		return nil, eris.Wrap(err, "validate: read shark data")
	}
	sharkRaw, err := rawXLSXRows(c.Data.SharkPath, c.Data.SharkSheet)
	if err != nil {
		return nil, err
	}

	summary := &validateSummary{
		Crocodile: summarizeSource(croc, crocRaw),
		Shark:     summarizeSource(shark, sharkRaw),
	}

	pop, err := loadPopulation(c.Data.PopulationPath)
	if err != nil {
		return nil, eris.Wrap(err, "validate: read population data")
	}
	if pop != nil {
		summary.Population = summarizePopulation(pop)
	}

	return summary, nil
}

// rawCSVRows counts the data rows (header excluded) in a delimited source.
func rawCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "validate: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := fetcher.ReadCSV(f, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return 0, eris.Wrapf(err, "validate: count rows in %s", path)
	}
	return dataRowCount(len(rows)), nil
}

// rawXLSXRows counts the data rows (header excluded) in the shark workbook.
func rawXLSXRows(path, sheet string) (int, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return 0, eris.Wrapf(err, "validate: count rows in %s", path)
	}
	return dataRowCount(len(rows)), nil
}

func dataRowCount(total int) int {
	if total <= 1 {
		return 0
	}
	return total - 1
}

func summarizeSource(records []dataset.Incident, rawRows int) sourceSummary {
	s := sourceSummary{Records: len(records)}
	if d := rawRows - len(records); d > 0 {
		s.Dropped = d
	}

	for i := range records {
		in := &records[i]
		if in.IsFatal {
			s.Fatal++
		}
		if in.Date == nil {
			continue
		}
		d := in.Date.Format("2006-01-02")
		if s.DateFrom == "" || d < s.DateFrom {
			s.DateFrom = d
		}
		if s.DateTo == "" || d > s.DateTo {
			s.DateTo = d
		}
	}
	return s
}

func summarizePopulation(ds *population.Dataset) *populationSummary {
	s := &populationSummary{
		Features: len(ds.Features),
		Field:    ds.FieldName,
	}

	values := ds.Values()
	if len(values) == 0 {
		return s
	}

	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// formatValidateSummary writes a tabular representation of the summary to w.
func formatValidateSummary(out io.Writer, s *validateSummary) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "SOURCE\tRECORDS\tFATAL\tDROPPED\tDATE RANGE")
	_, _ = fmt.Fprintln(w, "------\t-------\t-----\t-------\t----------")
	writeSourceRow(w, p, "crocodile", s.Crocodile)
	writeSourceRow(w, p, "shark", s.Shark)
	_ = w.Flush()

	if s.Population == nil {
		_, _ = fmt.Fprintln(out, "\npopulation: not configured")
		return
	}
	_, _ = p.Fprintf(out, "\npopulation: %d features", s.Population.Features)
	if s.Population.Field != "" {
		_, _ = p.Fprintf(out, ", field %s in [%v, %v]", s.Population.Field, s.Population.Min, s.Population.Max)
	}
	_, _ = fmt.Fprintln(out)
}

func writeSourceRow(w io.Writer, p *message.Printer, name string, s sourceSummary) {
	dateRange := "-"
	if s.DateFrom != "" {
		dateRange = s.DateFrom + " .. " + s.DateTo
	}
	_, _ = p.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", name, s.Records, s.Fatal, s.Dropped, dateRange)
}
