// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/git"
	"github.com/bureau-foundation/corral/lib/github"
	"github.com/bureau-foundation/corral/lib/initiative"
)

func prCommand() *cli.Command {
	var configPath string
	var templatePath string

	return &cli.Command{
		Name:    "pr",
		Summary: "Push initiative branches and open pull requests",
		Description: `For every clone whose current branch carries commits its default
branch lacks: push the branch to the fork and open a pull request
against the source repository. Clones with nothing outgoing are
skipped silently; a pull request that already exists is a warning,
not a failure.

Title and body come from the initiative's seeded template (first line
is the title), or from --template when given. Every opened pull
request is recorded in the org's ledger immediately.`,
		Usage: "corral pr [flags]",
		Examples: []cli.Example{
			{
				Description: "Use a one-off template instead of the seeded one",
				Command:     "corral pr --template ./announcement.md",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pr", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.StringVar(&templatePath, "template", "", "markdown file overriding the initiative template")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runPullRequests(configPath, templatePath)
		},
	}
}

// pullOutcome is one clone's result: the opened pull request, or a
// marker that the clone had nothing to submit.
type pullOutcome struct {
	pull    *github.PullRequest
	head    string
	skipped bool
}

func runPullRequests(configPath, templatePath string) error {
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
	logger := cli.NewCommandLogger().With("command", "pr", "org", cfg.GitHubOrg)
	client, err := newGitHubClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	ledger := initiative.LoadLedger(cfg.LedgerPath())

	op := func(ctx context.Context, clone fleet.Clone) (pullOutcome, error) {
		base, head, outgoing, err := fleet.Outgoing(ctx, clone)
		if err != nil {
			return pullOutcome{}, err
		}
		if !outgoing {
			return pullOutcome{head: head, skipped: true}, nil
		}
		if err := clone.Repo.Push(ctx, git.OriginRemote, head); err != nil {
			return pullOutcome{head: head}, err
		}
		title, body := resolvePullTemplate(cfg.InitiativeDir(), head, templatePath)
		pull, err := client.CreatePullRequest(ctx, cfg.GitHubOrg, clone.Name(), github.CreatePullRequestRequest{
			Title: title,
			Body:  body,
			Head:  cfg.GitHubUser + ":" + head,
			Base:  base,
		})
		if err != nil {
			return pullOutcome{head: head}, err
		}
		return pullOutcome{pull: pull, head: head}, nil
	}

	var opened, skipped, failed int
	for outcome := range fleet.Stream(ctx, clones, fleet.NetworkConcurrency, op) {
		name := outcome.Item.Name()
		switch {
		case github.IsValidationFailed(outcome.Err):
			fmt.Println(cli.Warn("%s: pull request already exists", name))
		case outcome.Err != nil:
			failed++
			warnAPIFailure(name, outcome.Err)
		case outcome.Value.skipped:
			skipped++
		default:
			opened++
			fmt.Println(cli.OK("%s: opened %s", name, outcome.Value.pull.HTMLURL))
			ledger.MergePullRequest(outcome.Value.head, initiative.RecordFromPull(outcome.Value.pull), time.Now())
			// Persist after every opened PR: an interrupt must not
			// lose a pull request that already exists remotely.
			if err := ledger.Save(cfg.LedgerPath()); err != nil {
				fmt.Println(cli.Warn("saving ledger: %v", err))
			}
		}
	}

	fmt.Printf("%d opened, %d skipped (nothing outgoing), %d failed\n", opened, skipped, failed)
	return nil
}

// resolvePullTemplate produces the pull request title and body. An
// explicit template file wins; otherwise the initiative's seeded
// template is used; a clone on a branch with neither gets the branch
// name as title and no body.
func resolvePullTemplate(initiativeDir, branch, templatePath string) (title, body string) {
	path := templatePath
	if path == "" {
		path = initiative.TemplatePath(initiativeDir, branch)
	}
	if _, err := os.Stat(path); err != nil {
		return branch, ""
	}
	title, body, err := initiative.LoadTemplate(path)
	if err != nil || title == "" {
		return branch, ""
	}
	return title, body
}
