// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
)

func resetCommand() *cli.Command {
	var configPath string
	var assumeYes bool

	return &cli.Command{
		Name:    "reset",
		Summary: "Discard local work and return every clone to its default branch",
		Description: `Hard-reset every clone, check out its default branch, and remove all
untracked and ignored files. Anything not pushed is lost. Per-clone
failures are reported as warnings; the rest of the fleet continues.`,
		Usage: "corral reset [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("reset", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.BoolVar(&assumeYes, "yes", false, "skip the confirmation prompt")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runReset(configPath, assumeYes)
		},
	}
}

func runReset(configPath string, assumeYes bool) error {
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
	if !assumeYes && !confirm(fmt.Sprintf("Discard uncommitted work in %d clones?", len(clones))) {
		return fmt.Errorf("reset declined")
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	var failed int
	for outcome := range fleet.Stream(ctx, clones, fleet.LocalConcurrency(),
		func(ctx context.Context, clone fleet.Clone) (struct{}, error) {
			return struct{}{}, fleet.Reset(ctx, clone)
		}) {
		if outcome.Err != nil {
			failed++
			fmt.Println(cli.Warn("%s: %v", outcome.Item.Name(), outcome.Err))
		}
	}
	if failed > 0 {
		fmt.Println(cli.Fail("%d of %d clones failed to reset", failed, len(clones)))
	} else {
		fmt.Println(cli.OK("%d clones reset to their default branch", len(clones)))
	}
	return nil
}
