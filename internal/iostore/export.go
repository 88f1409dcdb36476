package iostore

import (
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
)

// ExecuteHistoryExport writes the recorded run history to Parquet files
// named after outputFile.
func ExecuteHistoryExport(outputFile string) error {
	return exportHistory(Manager.GetHistoryStore(), outputFile)
}

func exportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileMetricsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	metrics, err := store.GetAllFileMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve file metrics: %w", err)
	}
	samples, err := store.GetAllSurvivalSamples()
	if err != nil {
		return fmt.Errorf("failed to retrieve survival samples: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.RunsFromRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	metricsFile := outputFile + ".file_metrics.parquet"
	if err := parquet.WriteFileMetricsParquet(parquet.FileMetricsFromRecords(metrics), metricsFile); err != nil {
		return fmt.Errorf("failed to write file metrics: %w", err)
	}
	fmt.Printf("Exported %d file metric records to: %s\n", len(metrics), metricsFile)

	samplesFile := outputFile + ".survival_samples.parquet"
	if err := parquet.WriteSurvivalSamplesParquet(parquet.SurvivalSamplesFromRecords(samples), samplesFile); err != nil {
		return fmt.Errorf("failed to write survival samples: %w", err)
	}
	fmt.Printf("Exported %d survival samples to: %s\n", len(samples), samplesFile)

	return nil
}
