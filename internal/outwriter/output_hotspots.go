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

// hotspotHeader is shared by the CSV writer and the analysis long format.
var hotspotHeader = []string{"rank", "path", "change_count", "directory"}

// WriteHotspots outputs hotspot entries, dispatching based on the output format configured.
func WriteHotspots(entries []schema.HotspotEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, hotspotHeader, func(cw *csv.Writer) error {
				return writeHotspotRecords(cw, entries)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteHotspotsParquet(entries, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeHotspotTable(w, entries, cfg); err != nil {
				return err
			}
			return writeFooter(w, len(entries), "files", cfg, duration)
		}, "Wrote table")
	}
}

func writeHotspotRecords(w *csv.Writer, entries []schema.HotspotEntry) error {
	for i, e := range entries {
		rec := []string{
			strconv.Itoa(i + 1),
			e.Path,
			strconv.Itoa(e.ChangeCount),
			e.Directory,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeHotspotTable generates and writes the human-readable table.
func writeHotspotTable(w io.Writer, entries []schema.HotspotEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Changes", "Directory"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg, 40) // Rank + Changes + Directory
	data := make([][]string, 0, len(entries))
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(e.Path, pathWidth),
			strconv.Itoa(e.ChangeCount),
			e.Directory,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFooter prints the summary line under a table.
func writeFooter(w io.Writer, rows int, noun string, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Showing %d %s. Completed in %v with %d workers.\n", rows, noun, duration.Round(time.Millisecond), cfg.Workers)
	return err
}
