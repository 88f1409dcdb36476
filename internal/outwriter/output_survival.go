package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var survivalHeader = []string{"cohort", "weeks_elapsed", "surviving_lines"}

// WriteSurvival outputs survival curves, dispatching based on the output format configured.
func WriteSurvival(curves []schema.SurvivalCurve, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, curves)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, survivalHeader, func(cw *csv.Writer) error {
				for _, c := range curves {
					for _, s := range c.Data {
						rec := []string{c.Cohort, strconv.Itoa(s.WeeksElapsed), formatFraction(s.SurvivingLines)}
						if err := cw.Write(rec); err != nil {
							return err
						}
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteSurvivalParquet(curves, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeSurvivalTable(w, curves, cfg); err != nil {
				return err
			}
			return writeFooter(w, len(curves), "cohorts", cfg, duration)
		}, "Wrote table")
	}
}

// writeSurvivalTable renders one row per cohort and one column per sample offset.
// Offsets a curve never reached stay blank.
func writeSurvivalTable(w io.Writer, curves []schema.SurvivalCurve, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	header := []string{"Cohort"}
	for weeks := 0; weeks <= schema.SurvivalMaxWeeks; weeks += schema.SurvivalStepWeeks {
		header = append(header, fmt.Sprintf("W%d", weeks))
	}
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(curves))
	for _, c := range curves {
		row := make([]string, len(header))
		row[0] = c.Cohort
		for _, s := range c.Data {
			col := s.WeeksElapsed/schema.SurvivalStepWeeks + 1
			if col < len(row) {
				row[col] = contract.FormatFraction(s.SurvivingLines, cfg.UseColors)
			}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// formatFraction renders a fraction for machine-readable output.
func formatFraction(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
