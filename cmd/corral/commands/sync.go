// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/corral/cmd/corral/cli"
	"github.com/bureau-foundation/corral/lib/config"
	"github.com/bureau-foundation/corral/lib/fleet"
	"github.com/bureau-foundation/corral/lib/git"
	"github.com/bureau-foundation/corral/lib/github"
)

func syncCommand() *cli.Command {
	var configPath string
	var assumeYes bool

	return &cli.Command{
		Name:    "sync",
		Summary: "Fork, clone and fast-forward the organization's repositories",
		Description: `Bring the local fleet in line with the organization: fork any source
repository not yet forked, clone any fork not yet cached (shallow,
with an upstream remote pointing at the source), then fetch every
clone and fast-forward clones sitting on their default branch.

Archived and private repositories are skipped, as is anything listed
under excluded_repos in the workspace configuration.`,
		Usage: "corral sync [flags]",
		Examples: []cli.Example{
			{
				Description: "Sync without confirmation prompts",
				Command:     "corral sync --yes",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("sync", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.BoolVar(&assumeYes, "yes", false, "skip confirmation prompts")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runSync(configPath, assumeYes)
		},
	}
}

func runSync(configPath string, assumeYes bool) error {
	cfg, err := openConfig(configPath)
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger().With("command", "sync", "org", cfg.GitHubOrg)
	client, err := newGitHubClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	// Forks land under the token's account, not the configured user's;
	// a mismatch would scatter forks into the wrong namespace.
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("verifying token: %w", err)
	}
	if user.Login != cfg.GitHubUser {
		return fmt.Errorf("token belongs to %s but the workspace is configured for %s", user.Login, cfg.GitHubUser)
	}

	sources, err := client.ListOrgRepositories(ctx, cfg.GitHubOrg, github.ListRepositoriesOptions{
		Type:    "sources",
		PerPage: 100,
	}).Collect(ctx)
	if err != nil {
		return fmt.Errorf("listing %s repositories: %w", cfg.GitHubOrg, err)
	}

	var eligible []github.Repository
	for _, repo := range sources {
		if repo.Archived || repo.Private || cfg.IsExcluded(repo.Name) {
			continue
		}
		eligible = append(eligible, repo)
	}
	fmt.Printf("%d repositories in %s, %d eligible\n", len(sources), cfg.GitHubOrg, len(eligible))

	if err := createMissingForks(ctx, client, cfg, eligible, assumeYes); err != nil {
		return err
	}
	if err := cloneMissingForks(ctx, cfg, eligible, assumeYes); err != nil {
		return err
	}

	clones, err := loadFleet(cfg)
	if err != nil {
		return err
	}
	if len(clones) == 0 {
		return nil
	}

	fmt.Println(cli.Header("syncing %d clones", len(clones)))
	var failed int
	for outcome := range fleet.Stream(ctx, clones, fleet.NetworkConcurrency,
		func(ctx context.Context, clone fleet.Clone) (struct{}, error) {
			return struct{}{}, fleet.Sync(ctx, clone)
		}) {
		if outcome.Err != nil {
			failed++
			fmt.Println(cli.Warn("%s: %v", outcome.Item.Name(), outcome.Err))
		}
	}
	if failed > 0 {
		fmt.Println(cli.Fail("%d of %d clones failed to sync", failed, len(clones)))
	} else {
		fmt.Println(cli.OK("all %d clones synced", len(clones)))
	}
	return nil
}

// createMissingForks forks every eligible source repository the user
// has not forked yet. Fork creation is asynchronous on GitHub's side,
// so a fork may not be cloneable in the same run that created it.
func createMissingForks(ctx context.Context, client *github.Client, cfg *config.Config, eligible []github.Repository, assumeYes bool) error {
	forks, err := client.ListUserRepositories(ctx, github.ListRepositoriesOptions{
		Type:    "forks",
		PerPage: 100,
	}).Collect(ctx)
	if err != nil {
		return fmt.Errorf("listing forks: %w", err)
	}
	forked := make(map[string]bool, len(forks))
	for _, fork := range forks {
		forked[fork.Name] = true
	}

	var missing []github.Repository
	for _, repo := range eligible {
		if forked[repo.Name] {
			continue
		}
		// The fork listing matches on name alone. A same-named
		// repository under the user that is not a fork of this source
		// must not receive a fork request on top of it.
		existing, err := client.GetRepository(ctx, cfg.GitHubUser, repo.Name)
		switch {
		case github.IsNotFound(err):
			missing = append(missing, repo)
		case err != nil:
			return fmt.Errorf("checking %s/%s: %w", cfg.GitHubUser, repo.Name, err)
		case existing.Parent == nil || existing.Parent.FullName != repo.FullName:
			fmt.Println(cli.Warn("%s/%s exists but is not a fork of %s; skipping",
				cfg.GitHubUser, repo.Name, repo.FullName))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for _, repo := range missing {
		names = append(names, repo.Name)
	}
	fmt.Printf("missing forks: %s\n", strings.Join(names, ", "))
	if !assumeYes && !confirm(fmt.Sprintf("Create %d forks under %s?", len(missing), cfg.GitHubUser)) {
		return fmt.Errorf("fork creation declined")
	}

	for _, repo := range missing {
		if ctx.Err() != nil {
			break
		}
		if _, err := client.CreateFork(ctx, cfg.GitHubOrg, repo.Name); err != nil {
			warnAPIFailure("forking "+repo.Name, err)
			continue
		}
		fmt.Printf("forked %s\n", repo.FullName)
	}
	return nil
}

// cloneMissingForks shallow-clones every eligible repository whose
// clone directory is absent and wires up the upstream remote.
func cloneMissingForks(ctx context.Context, cfg *config.Config, eligible []github.Repository, assumeYes bool) error {
	var missing []github.Repository
	for _, repo := range eligible {
		if _, err := os.Stat(filepath.Join(cfg.CloneRoot(), repo.Name)); os.IsNotExist(err) {
			missing = append(missing, repo)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !assumeYes && !confirm(fmt.Sprintf("Clone %d repositories into %s?", len(missing), cfg.CloneRoot())) {
		return fmt.Errorf("cloning declined")
	}
	if err := os.MkdirAll(cfg.CloneRoot(), 0o755); err != nil {
		return err
	}

	var failed int
	for outcome := range fleet.Stream(ctx, missing, fleet.NetworkConcurrency,
		func(ctx context.Context, repo github.Repository) (struct{}, error) {
			path := filepath.Join(cfg.CloneRoot(), repo.Name)
			forkURL := fmt.Sprintf("git@github.com:%s/%s.git", cfg.GitHubUser, repo.Name)
			if err := git.CloneDepth1(ctx, forkURL, path); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, git.NewRepository(path).AddRemote(ctx, git.UpstreamRemote, repo.SSHURL)
		}) {
		if outcome.Err != nil {
			failed++
			fmt.Println(cli.Warn("cloning %s: %v", outcome.Item.Name, outcome.Err))
			continue
		}
		fmt.Printf("cloned %s\n", outcome.Item.Name)
	}
	if failed > 0 {
		fmt.Println(cli.Warn("%d of %d clones failed; freshly created forks may still be provisioning", failed, len(missing)))
	}
	return nil
}
