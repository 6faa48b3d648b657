// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/initiative"
)

func checkCommand() *cli.Command {
	var configPath string
	var tries int
	var revert bool

	return &cli.Command{
		Name:    "check",
		Summary: "Validate uncommitted edits with a script, file by file",
		Description: `Run a validation script against every changed file in every dirty
clone, twice per file: once with the uncommitted edits stashed away
and once with them in place. A file whose exit-code sequence differs
between the two runs changed the script's verdict; with --revert such
files are restored to their committed content.

The script is invoked as: <script> <clone-path> <file> <attempt>.
Results accumulate in the workspace check-results file.`,
		Usage: "corral check <script> [flags]",
		Examples: []cli.Example{
			{
				Description: "Sample a flaky test suite three times per side",
				Command:     "corral check ./run-tests.sh --tries 3",
			},
			{
				Description: "Throw away edits that break the build",
				Command:     "corral check ./build.sh --revert",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.IntVar(&tries, "tries", 1, "script runs per file on each side of the stash")
			flagSet.BoolVar(&revert, "revert", false, "restore files whose verdict regressed")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: corral check <script> [flags]")
			}
			return runCheck(configPath, args[0], tries, revert)
		},
	}
}

func runCheck(configPath, script string, tries int, revert bool) error {
	scriptPath, err := filepath.Abs(script)
	if err != nil {
		return err
	}
	info, err := os.Stat(scriptPath)
	if err != nil || info.IsDir() {
		fmt.Println(cli.Fail("check script %s does not exist", script))
		return &cli.ExitError{Code: 1}
	}
	if tries < 1 {
		fmt.Println(cli.Fail("--tries must be at least 1, got %d", tries))
		return &cli.ExitError{Code: 1}
	}

	cfg, err := openConfig(configPath)
	if err != nil {
		return err
	}
	clones, err := loadFleet(cfg)
	if err != nil {
		return err
	}
	if len(clones) == 0 {
		return nil
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	results := initiative.LoadCheckResults(cfg.CheckResultsPath())
	// Persist whatever was collected even when the run is interrupted
	// partway through the fleet.
	defer func() {
		if err := results.Save(cfg.CheckResultsPath()); err != nil {
			fmt.Println(cli.Warn("saving check results: %v", err))
		}
	}()

	options := fleet.CheckOptions{Script: scriptPath, Tries: tries, Revert: revert}
	failingFiles := 0
	failingClones := 0
	for outcome := range fleet.Stream(ctx, clones, fleet.LocalConcurrency(),
		func(ctx context.Context, clone fleet.Clone) (map[string]initiative.CheckResult, error) {
			return fleet.Check(ctx, clone, options)
		}) {
		name := outcome.Item.Name()
		if outcome.Err != nil {
			fmt.Println(cli.Warn("%s: %v", name, outcome.Err))
		}
		if len(outcome.Value) == 0 {
			continue
		}
		results.Merge(name, outcome.Value)

		files := make([]string, 0, len(outcome.Value))
		for file, result := range outcome.Value {
			if result.Failing() {
				files = append(files, file)
			}
		}
		if len(files) == 0 {
			continue
		}
		failingClones++
		failingFiles += len(files)
		sort.Strings(files)
		fmt.Println(cli.Fail("%s: %d files changed the script's verdict", name, len(files)))
		for _, file := range files {
			result := outcome.Value[file]
			fmt.Printf("  %s: before=%v after=%v\n", file, result.Before, result.After)
		}
	}

	if failingFiles > 0 {
		fmt.Println(cli.Fail("%d files failed checks across %d clones", failingFiles, failingClones))
	} else {
		fmt.Println(cli.OK("no verdict changes"))
	}
	return nil
}
