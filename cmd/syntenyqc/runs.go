// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/syntenyqc/qcerr"
	"github.com/katalvlaran/syntenyqc/store"
)

func newRunsCmd() *cobra.Command {
	var dbPath string
	var detail string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List sieve runs recorded in a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				return qcerr.NewConfigurationError("--db is required.")
			}
			st, err := store.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if detail != "" {
				run, err := st.GetRun(cmd.Context(), detail)
				if errors.Is(err, store.ErrRunNotFound) {
					return fmt.Errorf("no run %s in %s", detail, dbPath)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "RECORD\tKEPT\tREMOVAL STEP")
				for _, n := range run.Nodes {
					step := "-"
					if !n.Kept {
						step = fmt.Sprint(n.Step)
					}
					fmt.Fprintf(tw, "%s\t%t\t%s\n", n.ID, n.Kept, step)
				}
				return tw.Flush()
			}

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tKEPT\tFILTER\tFOLDER")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%g\t%s\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Kept, r.Total, r.SimilarityFilter, r.GenbankFolder)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file written by sieve --db")
	cmd.Flags().StringVar(&detail, "run", "", "show the per-record outcome of one run")

	return cmd
}
