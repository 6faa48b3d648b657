// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
)

func commitCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "commit",
		Summary: "Stage and commit every clone's changes",
		Description: `Stage everything in every clone and commit with the given message.
Clones with nothing to commit are left alone.`,
		Usage: "corral commit <message> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("commit", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			return flagSet
		},
		Run: func(args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return fmt.Errorf("usage: corral commit <message>")
			}
			return runCommit(configPath, message)
		},
	}
}

func runCommit(configPath, message string) error {
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

	var failed int
	for outcome := range fleet.Stream(ctx, clones, fleet.LocalConcurrency(),
		func(ctx context.Context, clone fleet.Clone) (struct{}, error) {
			return struct{}{}, fleet.Commit(ctx, clone, message)
		}) {
		if outcome.Err != nil {
			failed++
			fmt.Println(cli.Warn("%s: %v", outcome.Item.Name(), outcome.Err))
		}
	}
	if failed > 0 {
		fmt.Println(cli.Fail("%d of %d clones failed to commit", failed, len(clones)))
	} else {
		fmt.Println(cli.OK("committed across %d clones", len(clones)))
	}
	return nil
}
