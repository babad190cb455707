package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/export"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	"github.com/ajitpratap0/typeinfer/pkg/store"
)

func newInferCmd(a *app) *cobra.Command {
	var apply bool
	var reportPath string

	cmd := &cobra.Command{
		Use:   "infer <file>",
		Short: "Infer column types and optionally apply them",
		Long: `Infer loads a CSV, XLS or XLSX file, classifies every column and prints a
report. With --apply the file is converted to the inferred types and, when
an export directory is set, the processed file is written.

Example:
  typeinfer infer people.csv --apply --export-dir out --compression zstd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfer(cmd.Context(), args[0], apply, reportPath)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&apply, "apply", false, "Convert the file to the inferred types")
	flags.StringVarP(&reportPath, "out", "o", "", "Write the JSON report to this file ('-' for stdout)")
	flags.String("export-dir", "", "Write processed files to this directory")
	flags.String("compression", "none", "Compression for the processed CSV (none, gzip, zstd, lz4, snappy)")
	flags.Bool("arrow", false, "Also write an Arrow IPC file")
	flags.Bool("store", false, "Record the file and its columns in the metadata store")
	return cmd
}

func (a *app) runInfer(ctx context.Context, path string, apply bool, reportPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot read input")
	}

	res, err := a.engine().Run(ctx, path, apply)
	if err != nil {
		return err
	}

	printReport(a.out, info.Name(), info.Size(), res.Report)
	printResults(a.out, res.Conversions)

	if err := a.writeReport(reportPath, res.Report); err != nil {
		return err
	}

	var paths *export.Paths
	if apply {
		if paths, err = a.export(ctx, path, res); err != nil {
			return err
		}
	} else if a.cfg.Export.Dir != "" {
		a.log.Info("export skipped, types were not applied", zap.String("file", path))
	}

	if a.cfg.Store.Enabled {
		id, err := a.record(ctx, path, info.Size(), res, paths)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "stored as %s\n", id)
	}
	return nil
}

func (a *app) writeReport(path string, report *inference.Report) error {
	switch path {
	case "":
		return nil
	case "-":
		return export.WriteReportJSON(a.out, report, "  ")
	default:
		return export.WriteReportFile(path, report)
	}
}

// export writes processed files when an export directory is configured.
// Callers only export converted frames.
func (a *app) export(ctx context.Context, path string, res *inference.Result) (*export.Paths, error) {
	if a.cfg.Export.Dir == "" {
		return nil, nil
	}
	x, err := export.New(a.cfg.Export, a.log)
	if err != nil {
		return nil, err
	}
	paths, err := x.Export(ctx, path, res.Frame, res.Report)
	if err != nil {
		return nil, err
	}
	printPaths(a.out, paths)
	return paths, nil
}

func (a *app) record(ctx context.Context, path string, size int64, res *inference.Result, paths *export.Paths) (string, error) {
	repo, err := a.openStore(ctx)
	if err != nil {
		return "", err
	}
	defer repo.Close()

	file, cols := store.RecordFromReport(path, size, res.Initial)
	if paths != nil {
		file.ProcessedPath = paths.CSV
	}
	if err := repo.SaveProcessedFile(ctx, file); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeStorage, "failed to save file record")
	}
	if err := repo.SaveColumns(ctx, cols); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeStorage, "failed to save column records")
	}
	if applied := store.AppliedTypes(res.Conversions); len(applied) > 0 {
		if err := repo.SetAppliedTypes(ctx, file.ID, applied); err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeStorage, "failed to save applied types")
		}
	}
	a.log.Info("stored processed file", zap.String("id", file.ID), zap.String("file", path))
	return file.ID, nil
}
