package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Replay the dump into the faithful SQLite store",
		Long: `Reads the dump, rewrites SQL Server literals, and inserts every recognized
statement into a fresh faithful store. The previous store, if any, is kept as
<path>.BK. Rows that fail to insert are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := convert(cmd.Context(), opts.run, opts.log)
			return err
		},
	}
	addConvertFlags(cmd)
	return cmd
}

func newDistillCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distill",
		Short: "Build the mini store from the faithful store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := distillStores(cmd.Context(), opts.run, opts.log)
			return err
		},
	}
	addDistillFlags(cmd)
	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "convert followed by distill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := convert(cmd.Context(), opts.run, opts.log); err != nil {
				return err
			}
			_, err := distillStores(cmd.Context(), opts.run, opts.log)
			return err
		},
	}
	addConvertFlags(cmd)
	addDistillFlags(cmd)
	return cmd
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the run configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Blocking issues already failed in PersistentPreRunE.
			out := cmd.OutOrStdout()
			for _, iss := range opts.issues {
				fmt.Fprintf(out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			fmt.Fprintln(out, "configuration is valid")
			return nil
		},
	}
	addConvertFlags(cmd)
	addDistillFlags(cmd)
	return cmd
}
