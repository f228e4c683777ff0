// SPDX-License-Identifier: MIT

// Command syntenyqc removes near-duplicate biosynthetic neighbourhoods from a
// folder of GenBank records.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/syntenyqc/sieve"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. extra is appended to the sieve options
// of every run.
func newRootCmd(extra ...sieve.Option) *cobra.Command {
	root := &cobra.Command{
		Use:   "syntenyqc",
		Short: "Quality control for collections of gene neighbourhoods",
		Long: `syntenyqc compares gene neighbourhoods by reciprocal best BLASTP hits and
prunes the collection until no two remaining neighbourhoods are more similar
than a chosen threshold.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newSieveCmd(extra...), newRunsCmd())

	return root
}
