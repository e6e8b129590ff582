// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the oorta command-line tool: a thin driver
// over go/callgraph/{rta,cha,static} for running those analyses
// against a hierarchy described in a YAML scene file, without needing
// a real compiler frontend in front of them.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "oorta",
	Short: "Rapid Type Analysis over a scene-file class hierarchy",
	Long: `oorta runs the whole-program call-graph analyses in
go/callgraph/rta, go/callgraph/cha and go/callgraph/static against a
class hierarchy you describe in a YAML scene file, instead of a
hierarchy produced by a real compiler frontend.

It exists to exercise and demonstrate those analyses directly: write a
handful of classes, methods and call sites, point oorta at the file,
and see which methods and classes the analysis proves reachable.`,
	Version: Version,

	// Errors are printed by ExitWithError instead, so they are not
	// shown twice.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log analysis events (class activations, devirtualizations) to stderr")
}

// ExitWithError prints a one-line error message and exits with status
// 1. Called by main after Execute returns an error.
func ExitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
