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

var fileTreeHeader = []string{"path", "loc", "churn"}

// WriteFileTree outputs file tree entries, dispatching based on the output format configured.
func WriteFileTree(entries []schema.FileTreeEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, fileTreeHeader, func(cw *csv.Writer) error {
				for _, e := range entries {
					if err := cw.Write([]string{e.Path, strconv.Itoa(e.LOC), strconv.Itoa(e.Churn)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteFileTreeParquet(entries, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeFileTreeTable(w, entries, cfg); err != nil {
				return err
			}
			return writeFooter(w, len(entries), "files", cfg, duration)
		}, "Wrote table")
	}
}

// writeFileTreeTable generates and writes the human-readable table with a totals line.
func writeFileTreeTable(w io.Writer, entries []schema.FileTreeEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Path", "LOC", "Churn"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg, 25) // LOC + Churn
	totalLOC, totalChurn := 0, 0
	data := make([][]string, 0, len(entries))
	for _, e := range entries {
		totalLOC += e.LOC
		totalChurn += e.Churn
		data = append(data, []string{
			contract.TruncatePath(e.Path, pathWidth),
			strconv.Itoa(e.LOC),
			strconv.Itoa(e.Churn),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total LOC: %d, total churn: %d\n", totalLOC, totalChurn)
	return err
}
