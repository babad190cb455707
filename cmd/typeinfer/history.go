package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var id string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List processed files recorded in the metadata store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd.Context(), id, limit)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Show one file and its columns")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of files to list (0 for all)")
	return cmd
}

func (a *app) runHistory(ctx context.Context, id string, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if id != "" {
		f, err := repo.GetProcessedFile(ctx, id)
		if err != nil {
			return err
		}
		cols, err := repo.ListColumns(ctx, id)
		if err != nil {
			return err
		}
		printFile(a.out, f, cols)
		return nil
	}

	files, err := repo.ListProcessedFiles(ctx, limit)
	if err != nil {
		return err
	}
	printFiles(a.out, files, time.Now())
	return nil
}
