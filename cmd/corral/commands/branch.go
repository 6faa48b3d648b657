// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/initiative"
)

func branchCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "branch",
		Summary: "Move the whole fleet onto an initiative branch",
		Description: `Create (or re-enter) the named branch on every clone and seed the
initiative's pull request template.

The fleet must be coherent first: either every clone on its default
branch, or every clone on one shared branch with nothing uncommitted.
A fleet split across branches or carrying uncommitted changes is
refused before any clone is touched.`,
		Usage: "corral branch <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Start an initiative (spaces become hyphens)",
				Command:     "corral branch \"fix typos\"",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("branch", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: corral branch <name>")
			}
			return runBranch(configPath, args[0])
		},
	}
}

func runBranch(configPath, rawName string) error {
	name := fleet.SanitizeBranchName(rawName)
	if name != rawName {
		fmt.Printf("branch name sanitized to %q\n", name)
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
		return &cli.ExitError{Code: 1}
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	plan, err := fleet.PlanBranch(ctx, clones, name)
	if err != nil {
		fmt.Println(cli.Fail("%v", err))
		return &cli.ExitError{Code: 1}
	}
	if plan.Warning != "" {
		fmt.Println(cli.Warn("%s", plan.Warning))
	}

	if plan.Action == fleet.BranchAlreadyCurrent {
		fmt.Println(cli.OK("all %d clones already on %s", len(clones), name))
		return seedTemplate(cfg.InitiativeDir(), name)
	}

	var failed int
	for outcome := range fleet.Stream(ctx, clones, fleet.LocalConcurrency(),
		func(ctx context.Context, clone fleet.Clone) (struct{}, error) {
			return struct{}{}, fleet.CreateBranch(ctx, clone, name)
		}) {
		if outcome.Err != nil {
			failed++
			fmt.Println(cli.Warn("%s: %v", outcome.Item.Name(), outcome.Err))
		}
	}
	if failed > 0 {
		fmt.Println(cli.Fail("%d of %d clones failed to branch; re-run to converge", failed, len(clones)))
	} else {
		fmt.Println(cli.OK("%d clones on %s", len(clones), name))
	}
	return seedTemplate(cfg.InitiativeDir(), name)
}

func seedTemplate(dir, branch string) error {
	path, err := initiative.SeedTemplate(dir, branch)
	if err != nil {
		return err
	}
	fmt.Println(cli.Tip("describe the initiative in %s; its first line becomes the PR title", path))
	return nil
}
