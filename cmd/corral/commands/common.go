// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/config"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/github"
)

// addConfigFlag registers the shared --config flag. Every verb takes
// an explicit config path; there is no ambient configuration.
func addConfigFlag(flagSet *pflag.FlagSet, path *string) {
	flagSet.StringVar(path, "config", config.FileName, "workspace configuration file")
}

// openConfig loads the workspace configuration, interactively
// completes any missing required field, saves it back when something
// was filled in, and validates the result.
func openConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	changed, err := cfg.Complete(os.Stdin, os.Stdout)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGitHubClient builds the API client from the workspace token.
func newGitHubClient(cfg *config.Config, logger *slog.Logger) (*github.Client, error) {
	return github.NewClient(github.Config{
		Token:  cfg.GitHubToken,
		Logger: logger,
	})
}

// warnAPIFailure prints an operation failure and, when the GitHub rate
// limit is what went wrong, a hint that retrying before the reset is
// pointless.
func warnAPIFailure(label string, err error) {
	fmt.Println(cli.Warn("%s: %v", label, err))
	if github.IsRateLimited(err) {
		fmt.Println(cli.Tip("GitHub rate limit exhausted; wait for the reset before retrying"))
	}
}

// loadFleet scans the org's clone cache and reports the inventory
// size. Zero clones is a valid state, not a fault; the caller decides
// whether the verb can proceed without any.
func loadFleet(cfg *config.Config) ([]fleet.Clone, error) {
	clones, err := fleet.ListClones(cfg.CloneRoot())
	if err != nil {
		return nil, err
	}
	fmt.Printf("%d clones cached for %s\n", len(clones), cfg.GitHubOrg)
	if len(clones) == 0 {
		fmt.Println(cli.Tip("run 'corral sync' to fork and clone the organization"))
	}
	return clones, nil
}

// interruptibleContext returns a context cancelled by SIGINT or
// SIGTERM. Long fleet runs use it so an interrupt stops dispatching
// new clones while in-flight git subprocesses finish cleanly.
func interruptibleContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// confirm prompts on stdout and reads a yes/no answer from stdin.
// Anything other than an explicit yes is a no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
