// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
)

func statusCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "status",
		Summary: "Show fleet branch and working tree state",
		Description: `Probe every cached clone for its current branch and uncommitted
changes, and summarize whether the fleet is coherent. Read-only.`,
		Usage: "corral status [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runStatus(configPath)
		},
	}
}

func runStatus(configPath string) error {
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

	ctx := context.Background()
	distribution, err := fleet.BranchDistribution(ctx, clones)
	if err != nil {
		return err
	}

	if len(distribution) == 1 {
		for branch, group := range distribution {
			fmt.Println(cli.OK("all %d clones on branch %q", len(group), branch))
		}
	} else {
		fmt.Println(cli.Warn("clones diverge across %d branches", len(distribution)))
		branches := make([]string, 0, len(distribution))
		for branch := range distribution {
			branches = append(branches, branch)
		}
		sort.Strings(branches)
		for _, branch := range branches {
			names := make([]string, 0, len(distribution[branch]))
			for _, clone := range distribution[branch] {
				names = append(names, clone.Name())
			}
			label := branch
			if label == "" {
				label = "(detached)"
			}
			fmt.Printf("  %s: %s\n", label, strings.Join(names, ", "))
		}
		fmt.Println(cli.Tip("run 'corral reset' to move everything back to the default branch"))
	}

	_, dirty, err := fleet.Partition(ctx, clones)
	if err != nil {
		return err
	}
	if len(dirty) > 0 {
		names := make([]string, 0, len(dirty))
		for _, clone := range dirty {
			names = append(names, clone.Name())
		}
		fmt.Printf("%s uncommitted changes in: %s\n", cli.Header("dirty:"), strings.Join(names, ", "))
	}
	return nil
}
