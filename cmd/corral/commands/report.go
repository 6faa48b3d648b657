// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/github"
	"github.com/bureau-foundation/corral/lib/initiative"
)

func reportCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "report",
		Summary: "Refresh pull request status and regenerate the org report",
		Description: `Query every source repository for pull requests belonging to each
initiative branch, refresh their mutable fields (state, merge status,
size) in the ledger, and regenerate the markdown report.

The ledger is saved after every repository, so interrupting a long
report keeps everything fetched so far; re-running continues without
duplicating records.`,
		Usage: "corral report [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("report", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runReport(configPath)
		},
	}
}

func runReport(configPath string) error {
	cfg, err := openConfig(configPath)
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger().With("command", "report", "org", cfg.GitHubOrg)
	client, err := newGitHubClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	ledger := initiative.LoadLedger(cfg.LedgerPath())
	branches, err := initiativeBranches(cfg.InitiativeDir(), ledger)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		fmt.Println("no initiatives yet")
		fmt.Println(cli.Tip("run 'corral branch <name>' to start one"))
		return nil
	}

	// Initiatives known only from the ledger get a template stub so
	// the report has a section body for them.
	for _, branch := range ledger.Branches() {
		if _, err := initiative.SeedTemplate(cfg.InitiativeDir(), branch); err != nil {
			fmt.Println(cli.Warn("seeding template for %s: %v", branch, err))
		}
	}

	sources, err := client.ListOrgRepositories(ctx, cfg.GitHubOrg, github.ListRepositoriesOptions{
		Type:    "sources",
		PerPage: 100,
	}).Collect(ctx)
	if err != nil {
		return fmt.Errorf("listing %s repositories: %w", cfg.GitHubOrg, err)
	}
	var repos []github.Repository
	for _, repo := range sources {
		if !cfg.IsExcluded(repo.Name) {
			repos = append(repos, repo)
		}
	}

	// The report reflects whatever was collected, interrupted or not.
	defer func() {
		if err := initiative.WriteReport(cfg.ReportPath(), cfg.GitHubOrg, ledger, cfg.InitiativeDir(), time.Now()); err != nil {
			fmt.Println(cli.Warn("writing report: %v", err))
			return
		}
		fmt.Printf("report written to %s (%d initiatives, %d pull requests)\n",
			cfg.ReportPath(), len(ledger.Branches()), ledger.PullRequestCount())
	}()

	op := func(ctx context.Context, repo github.Repository) (map[string][]initiative.PullRequestRecord, error) {
		return collectRepoPulls(ctx, client, cfg.GitHubOrg, cfg.GitHubUser, repo.Name, branches)
	}
	for outcome := range fleet.Stream(ctx, repos, fleet.NetworkConcurrency, op) {
		if outcome.Err != nil {
			warnAPIFailure(outcome.Item.Name, outcome.Err)
			continue
		}
		if len(outcome.Value) == 0 {
			continue
		}
		observedAt := time.Now()
		for branch, records := range outcome.Value {
			for _, record := range records {
				ledger.MergePullRequest(branch, record, observedAt)
			}
		}
		// Persist per repository so an interrupt keeps earlier repos.
		if err := ledger.Save(cfg.LedgerPath()); err != nil {
			fmt.Println(cli.Warn("saving ledger: %v", err))
		}
	}
	return nil
}

// initiativeBranches is the union of seeded templates and ledger keys,
// sorted.
func initiativeBranches(templateDir string, ledger *initiative.Ledger) ([]string, error) {
	seen := make(map[string]bool)
	fromTemplates, err := initiative.ListTemplateBranches(templateDir)
	if err != nil {
		return nil, err
	}
	for _, branch := range fromTemplates {
		seen[branch] = true
	}
	for _, branch := range ledger.Branches() {
		seen[branch] = true
	}
	branches := make([]string, 0, len(seen))
	for branch := range seen {
		branches = append(branches, branch)
	}
	sort.Strings(branches)
	return branches, nil
}

// collectRepoPulls fetches every pull request the user opened from an
// initiative branch against one repository. List responses omit merge
// status and size metrics, so each pull is re-fetched individually.
func collectRepoPulls(ctx context.Context, client *github.Client, org, user, repo string, branches []string) (map[string][]initiative.PullRequestRecord, error) {
	records := make(map[string][]initiative.PullRequestRecord)
	for _, branch := range branches {
		pulls, err := client.ListPullRequests(ctx, org, repo, github.ListPullRequestsOptions{
			State:   "all",
			Head:    user + ":" + branch,
			PerPage: 100,
		}).Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing pulls for %s: %w", branch, err)
		}
		for _, pull := range pulls {
			full, err := client.GetPullRequest(ctx, org, repo, pull.Number)
			if err != nil {
				return nil, fmt.Errorf("fetching pull #%d: %w", pull.Number, err)
			}
			records[branch] = append(records[branch], initiative.RecordFromPull(full))
		}
	}
	return records, nil
}
