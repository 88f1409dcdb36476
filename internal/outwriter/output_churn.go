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

var churnHeader = []string{"rank", "path", "additions", "deletions", "total"}

// jsonChurnEntry adds the derived total to the JSON view of a churn entry.
type jsonChurnEntry struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Total     int    `json:"total"`
}

// WriteChurn outputs churn entries, dispatching based on the output format configured.
func WriteChurn(entries []schema.ChurnEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			out := make([]jsonChurnEntry, len(entries))
			for i, e := range entries {
				out[i] = jsonChurnEntry{Path: e.Path, Additions: e.Additions, Deletions: e.Deletions, Total: e.Total()}
			}
			return writeJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, churnHeader, func(cw *csv.Writer) error {
				for i, e := range entries {
					rec := []string{
						strconv.Itoa(i + 1),
						e.Path,
						strconv.Itoa(e.Additions),
						strconv.Itoa(e.Deletions),
						strconv.Itoa(e.Total()),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteChurnParquet(entries, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeChurnTable(w, entries, cfg); err != nil {
				return err
			}
			return writeFooter(w, len(entries), "paths", cfg, duration)
		}, "Wrote table")
	}
}

func writeChurnTable(w io.Writer, entries []schema.ChurnEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Added", "Deleted", "Total"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg, 45) // Rank + Added + Deleted + Total
	data := make([][]string, 0, len(entries))
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(e.Path, pathWidth),
			strconv.Itoa(e.Additions),
			strconv.Itoa(e.Deletions),
			strconv.Itoa(e.Total()),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
