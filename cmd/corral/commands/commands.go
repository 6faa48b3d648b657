// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the corral CLI command tree: one verb per
// lifecycle stage, each loading the workspace configuration explicitly
// and driving the fleet through lib/fleet's executor.
package commands

import (
	"github.com/bureau-foundation/corral/cmd/corral/cli"
)

// Root builds and returns the complete corral command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "corral",
		Description: `Corral: coordinate one change across a fleet of forked repositories.

Fork and clone every repository of a GitHub organization, move the
whole fleet onto an initiative branch, validate uncommitted edits
with a check script, commit, push, open pull requests, and track
their fate in a per-org ledger.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			syncCommand(),
			branchCommand(),
			checkCommand(),
			commitCommand(),
			prCommand(),
			resetCommand(),
			reportCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Fork, clone and fast-forward the whole org",
				Command:     "corral sync",
			},
			{
				Description: "Start an initiative",
				Command:     "corral branch fix-typos",
			},
			{
				Description: "Open pull requests for every clone with outgoing commits",
				Command:     "corral pr",
			},
		},
	}
}
