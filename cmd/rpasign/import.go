package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/muhamm-ad/rpasign/internal/cli"
	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/config"
	"github.com/muhamm-ad/rpasign/internal/ingest"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/service"
)

// saveRetry retries saves that hit a locked database.
var saveRetry = common.RetryOptions{MaxAttempts: 5}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Compile and store every description of an RPA export",
		Long: `Read an RPA sign export, compile every description concurrently and store
the results under a new import batch.

The file must have a header row naming the CODE_RPA and DESCRIPTION_RPA
columns; other columns are ignored. Descriptions that fail to compile are
reported and counted but do not stop the import.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().IntP("workers", "w", 0, "Number of parallel compile workers (default: number of CPUs)")
	cmd.Flags().StringP("delimiter", "d", "", `Field delimiter: a single character or "tab" (default ",")`)
	cmd.Flags().Bool("dry-run", false, "Compile and report without saving")

	_ = viper.BindPFlag(config.KeyImportWorkers, cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(config.KeyImportDelim, cmd.Flags().Lookup("delimiter"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	importCfg, err := config.LoadImportConfig(viper.GetViper())
	if err != nil {
		return err
	}
	parser, err := newParser()
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	path := config.ExpandPath(args[0])
	records, err := readRecordsFile(path, importCfg.Delimiter)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	handler := cli.NewInterruptHandler(errOut, "Import")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	slog.Info("Compiling descriptions", "file", path, "records", len(records), "workers", importCfg.Workers)

	bar := cli.NewProgressBar(errOut, len(records), "Compiling descriptions")
	results, summary, err := ingest.CompileAll(ctx, parser, records, ingest.CompileOptions{
		Workers:  importCfg.Workers,
		Progress: cli.ProgressFunc(bar),
	})
	if err != nil {
		return fmt.Errorf("compilation stopped: %w", err)
	}

	printFailures(out, results)

	if dryRun {
		fmt.Fprintln(out, cli.FormatWarning("Dry run, nothing was saved"))
		fmt.Fprintln(out, cli.RenderCompileSummary(summary))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	batch := &model.ImportBatch{ID: uuid.NewString(), Source: filepath.Base(path)}
	handler.SetHint(fmt.Sprintf("Batch %s was left unfinished; run the import again to replace it", batch.ID))

	if err := storeResults(ctx, store, batch, results); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.RenderCompileSummary(summary))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Stored %d descriptions in batch %s", summary.Compiled, batch.ID)))
	return nil
}

func readRecordsFile(path string, delimiter rune) ([]ingest.Record, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := ingest.ReadRecords(f, ingest.ReaderOptions{Delimiter: delimiter})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// storeResults saves every compiled description under batch and records the
// batch totals. The batch is created first so an interrupted run is visible
// as unfinished.
func storeResults(ctx context.Context, store service.Storage, batch *model.ImportBatch, results []ingest.CompileResult) error {
	if err := store.CreateImportBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := common.WithRetry(ctx, func() error {
			return store.SaveSignDesc(ctx, res.Desc, batch.ID)
		}, saveRetry)
		if err != nil {
			common.LogError(err, "Failed to save sign", common.Fields{
				"batch": batch.ID,
				"code":  res.Record.Code,
				"line":  res.Record.Line,
			})
			return fmt.Errorf("failed to save sign %s (line %d): %w", res.Record.Code, res.Record.Line, err)
		}
	}

	if err := store.FinishImportBatch(ctx, batch.ID, len(results), failed); err != nil {
		return fmt.Errorf("failed to finish import batch: %w", err)
	}
	batch.Total, batch.Failed = len(results), failed

	common.LogInfo("Stored import batch", common.Fields{
		"batch":  batch.ID,
		"stored": len(results) - failed,
		"failed": failed,
	})
	return nil
}

func printFailures(w io.Writer, results []ingest.CompileResult) {
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		fmt.Fprintln(w, cli.FormatError(fmt.Sprintf("%s (line %d): %v", res.Record.Code, res.Record.Line, res.Err)))
	}
}
