package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/typeinfer/pkg/inference"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type names accepted by apply-types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tw := newTable(a.out)
			fmt.Fprintln(tw, "TYPE\tLABEL")
			for _, label := range inference.Labels() {
				fmt.Fprintf(tw, "%s\t%s\n", inference.DisplayName(label), label)
			}
			_ = tw.Flush()
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "typeinfer v%s\n", version)
			fmt.Fprintf(a.out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
