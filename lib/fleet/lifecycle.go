// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/corral/lib/git"
)

// Reset forces the clone back to a pristine default branch: discard
// uncommitted work, check out the branch upstream's HEAD points at,
// discard again in case the checkout surfaced older local commits'
// conflicts, and remove every untracked and ignored file. Anything
// not pushed is gone afterwards.
func Reset(ctx context.Context, clone Clone) error {
	if err := clone.Repo.ResetHard(ctx); err != nil {
		return err
	}
	defaultBranch, err := clone.Repo.DefaultBranch(ctx)
	if err != nil {
		return err
	}
	if err := clone.Repo.Checkout(ctx, defaultBranch); err != nil {
		return err
	}
	if err := clone.Repo.ResetHard(ctx); err != nil {
		return err
	}
	return clone.Repo.Clean(ctx)
}

// Commit stages everything in the clone and commits with message. A
// clone with nothing to commit is not an error: a fleet-wide change
// script frequently leaves some repositories untouched.
func Commit(ctx context.Context, clone Clone, message string) error {
	if err := clone.Repo.AddAll(ctx); err != nil {
		return err
	}
	if err := clone.Repo.Commit(ctx, message); err != nil {
		if git.IsNothingToCommit(err) {
			return nil
		}
		return err
	}
	return nil
}

// Sync refreshes the clone from both remotes. When the clone sits on
// its default branch it is additionally fast-forwarded to upstream
// and the result pushed to the fork, keeping the fork's default
// branch from drifting behind the parent. On any other branch only
// the fetch happens; initiative branches are pushed by the pr verb.
func Sync(ctx context.Context, clone Clone) error {
	if err := clone.Repo.FetchAll(ctx); err != nil {
		return err
	}
	defaultBranch, err := clone.Repo.DefaultBranch(ctx)
	if err != nil {
		return err
	}
	current, err := clone.Repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current != defaultBranch {
		return nil
	}
	if err := clone.Repo.PullFastForward(ctx, git.UpstreamRemote, defaultBranch); err != nil {
		return err
	}
	return clone.Repo.Push(ctx, git.OriginRemote, defaultBranch)
}

// Outgoing reports whether the clone's current branch carries commits
// its default branch does not have, returning the base and head
// branch names used for the comparison. A clone with no outgoing
// commits has nothing to open a pull request for.
func Outgoing(ctx context.Context, clone Clone) (base, head string, outgoing bool, err error) {
	base, err = clone.Repo.DefaultBranch(ctx)
	if err != nil {
		return "", "", false, err
	}
	head, err = clone.Repo.CurrentBranch(ctx)
	if err != nil {
		return "", "", false, err
	}
	if head == "" {
		return base, head, false, fmt.Errorf("%s: detached HEAD", clone.Name())
	}
	outgoing, err = clone.Repo.HasOutgoing(ctx, base, head)
	if err != nil {
		return "", "", false, err
	}
	return base, head, outgoing, nil
}
