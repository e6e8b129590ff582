// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/sknoth/liboo-go/go/callgraph"
	"github.com/sknoth/liboo-go/go/callgraph/cha"
	"github.com/sknoth/liboo-go/go/callgraph/rta"
	"github.com/sknoth/liboo-go/go/callgraph/static"
	"github.com/sknoth/liboo-go/ooir"
	"github.com/spf13/cobra"
)

var (
	analyzeMode     string
	assumeAllLive   bool
	analyzeEntries  []string
	analyzeLiveSeed []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [scene-file]",
	Short: "Run a call-graph analysis against a scene file",
	Long: `analyze loads a YAML scene file describing a class hierarchy and
runs one of rta, cha or static against it, printing the call-graph
edges it finds. In rta mode it also prints the live classes, the live
methods and the call-site counters.

Examples:
  # Run Rapid Type Analysis
  oorta analyze scene.yaml

  # Run Class Hierarchy Analysis (ignores liveness)
  oorta analyze --mode=cha scene.yaml

  # Run the plain static-call-only pass
  oorta analyze --mode=static scene.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "rta", "analysis to run: rta, cha or static")
	analyzeCmd.Flags().BoolVar(&assumeAllLive, "assume-all-live", false, "disable the liveness gate in rta mode (equivalent to cha mode's resolver, with rta's own devirtualization pass)")
	analyzeCmd.Flags().StringSliceVar(&analyzeEntries, "entry", nil, "entry point \"Class.Method\", overriding the scene file's entryPoints; may be repeated")
	analyzeCmd.Flags().StringSliceVar(&analyzeLiveSeed, "live", nil, "class name to seed as initially live, overriding the scene file's initialLiveClasses; may be repeated")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ls, err := loadSceneFile(args[0])
	if err != nil {
		return err
	}

	entryNames := analyzeEntries
	if len(entryNames) == 0 {
		entryNames = ls.entryPointNames()
	}
	entryPoints, err := ls.resolveMethods(entryNames)
	if err != nil {
		return err
	}
	if len(entryPoints) == 0 {
		return fmt.Errorf("no entry points: pass --entry or add entryPoints to the scene file")
	}

	switch analyzeMode {
	case "rta":
		return runRTA(ls, entryPoints)
	case "cha":
		return runCHA(ls, entryPoints)
	case "static":
		return runStatic(entryPoints)
	default:
		return fmt.Errorf("unknown --mode %q: want rta, cha or static", analyzeMode)
	}
}

func runRTA(ls *loadedScene, entryPoints []ooir.Method) error {
	liveNames := analyzeLiveSeed
	if len(liveNames) == 0 {
		liveNames = ls.initialLiveClassNames()
	}
	liveSeed, err := ls.resolveClasses(liveNames)
	if err != nil {
		return err
	}

	cfg := &rta.Config{
		AssumeAllLive: assumeAllLive,
		CollectStats:  true,
	}
	if verbose {
		cfg.Logf = func(format string, args ...any) { fmt.Fprintf(os.Stderr, format+"\n", args...) }
	}

	res := rta.Analyze(cfg, ls.program, entryPoints, liveSeed)
	printLiveSet(res.LiveClasses, res.LiveMethods)
	printEdges(res.CallGraph)
	printStats(res.Stats)
	return nil
}

func runCHA(ls *loadedScene, entryPoints []ooir.Method) error {
	allClasses, err := ls.resolveClasses(ls.allClassNames())
	if err != nil {
		return err
	}
	cg := cha.CallGraph(ls.program, entryPoints, allClasses)
	printEdges(cg)
	return nil
}

func runStatic(entryPoints []ooir.Method) error {
	cg := static.CallGraph(entryPoints)
	printEdges(cg)
	return nil
}

func printLiveSet(liveClasses map[ooir.Class]bool, liveMethods map[ooir.Method]bool) {
	fmt.Println("live classes:")
	for _, name := range sortedClassNames(liveClasses) {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("live methods:")
	for _, name := range sortedMethodNames(liveMethods) {
		fmt.Printf("  %s\n", name)
	}
}

func printEdges(cg *callgraph.Graph) {
	var lines []string
	callgraph.VisitEdges(cg, func(e *callgraph.Edge) error {
		lines = append(lines, fmt.Sprintf("%s.%s --%s--> %s.%s",
			e.Caller.Func.Owner().Name(), e.Caller.Func.Name(),
			e.Kind, e.Callee.Func.Owner().Name(), e.Callee.Func.Name()))
		return nil
	})
	sort.Strings(lines)
	fmt.Println("edges:")
	for _, l := range lines {
		fmt.Printf("  %s\n", l)
	}
}

func printStats(stats *rta.Stats) {
	if stats == nil {
		return
	}
	fmt.Printf("stats: static=%d dynamic=%d interface=%d devirt-dynamic=%d devirt-interface=%d other=%d\n",
		stats.StaticCalls, stats.DynamicCalls, stats.InterfaceCalls, stats.DevirtDynamic, stats.DevirtInterface, stats.OtherCalls)
}

func sortedClassNames(set map[ooir.Class]bool) []string {
	var names []string
	for c := range set {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

func sortedMethodNames(set map[ooir.Method]bool) []string {
	var names []string
	for m := range set {
		names = append(names, m.Owner().Name()+"."+m.Name())
	}
	sort.Strings(names)
	return names
}
