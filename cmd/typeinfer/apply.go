package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	"github.com/ajitpratap0/typeinfer/pkg/store"
)

func newApplyTypesCmd(a *app) *cobra.Command {
	var typeFlags []string
	var storeID string

	cmd := &cobra.Command{
		Use:   "apply-types <file>",
		Short: "Convert columns to user-chosen types",
		Long: `Apply-types converts the named columns of a file to the given types. Types
are display names ("Integer", "Date/Time") or native labels ("int64").
Unknown type names are skipped with a warning.

Example:
  typeinfer apply-types people.csv --type age=Integer --type joined=Date/Time --export-dir out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseTypeFlags(typeFlags)
			if err != nil {
				return err
			}
			return a.runApplyTypes(cmd.Context(), args[0], types, storeID)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&typeFlags, "type", "t", nil, "Column type as column=Type (repeatable)")
	flags.String("export-dir", "", "Write processed files to this directory")
	flags.StringVar(&storeID, "store-id", "", "Record applied types on this stored file")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// parseTypeFlags splits column=Type pairs. The last '=' separates the type so
// column names may contain '='.
func parseTypeFlags(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		i := strings.LastIndex(p, "=")
		if i <= 0 || i == len(p)-1 {
			return nil, errors.Newf(errors.ErrorTypeValidation, "invalid --type %q, want column=Type", p)
		}
		out[p[:i]] = p[i+1:]
	}
	return out, nil
}

func (a *app) runApplyTypes(ctx context.Context, path string, types map[string]string, storeID string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot read input")
	}

	f, report, results, err := a.engine().ApplyTypes(ctx, path, types)
	if err != nil {
		return err
	}
	printResults(a.out, results)
	printReport(a.out, info.Name(), info.Size(), report)

	paths, err := a.export(ctx, path, &inference.Result{Frame: f, Report: report, Conversions: results})
	if err != nil {
		return err
	}

	if storeID == "" {
		return nil
	}
	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if _, err := repo.GetProcessedFile(ctx, storeID); err != nil {
		return err
	}
	if err := repo.SetAppliedTypes(ctx, storeID, store.AppliedTypes(results)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, "failed to save applied types")
	}
	if paths != nil {
		if err := repo.SetProcessedPath(ctx, storeID, paths.CSV); err != nil {
			return errors.Wrap(err, errors.ErrorTypeStorage, "failed to save processed path")
		}
	}
	return nil
}
