// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"strings"
)

// ResetHard discards all staged and unstaged changes to tracked files
// on the current branch.
func (r *Repository) ResetHard(ctx context.Context) error {
	_, err := r.Run(ctx, "reset", "--hard")
	return err
}

// Checkout switches to an existing branch.
func (r *Repository) Checkout(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, "checkout", branch)
	return err
}

// CheckoutNewBranch creates a branch and switches to it.
func (r *Repository) CheckoutNewBranch(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, "checkout", "-b", branch)
	return err
}

// CheckoutFile discards uncommitted changes to a single file, leaving
// the rest of the working tree untouched. Used by check --revert to
// drop just the files whose validation results regressed.
func (r *Repository) CheckoutFile(ctx context.Context, path string) error {
	_, err := r.Run(ctx, "checkout", "--", path)
	return err
}

// Clean removes untracked and ignored files and directories.
func (r *Repository) Clean(ctx context.Context) error {
	_, err := r.Run(ctx, "clean", "-xdf")
	return err
}

// Stash saves the working tree's uncommitted tracked changes, restoring
// the tree to HEAD, and reports whether an entry was created. git exits
// zero without stashing anything when there are no tracked changes, as
// with a clone whose only edits are untracked files; popping in that
// case would fail, or worse, pop somebody else's entry. Pair a true
// result with StashPop.
func (r *Repository) Stash(ctx context.Context) (bool, error) {
	before, err := r.stashCount(ctx)
	if err != nil {
		return false, err
	}
	if _, err := r.Run(ctx, "stash"); err != nil {
		return false, err
	}
	after, err := r.stashCount(ctx)
	if err != nil {
		return false, err
	}
	return after > before, nil
}

// stashCount returns the number of entries on the stash stack.
func (r *Repository) stashCount(ctx context.Context) (int, error) {
	out, err := r.Run(ctx, "stash", "list")
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return 0, nil
	}
	return strings.Count(trimmed, "\n") + 1, nil
}

// StashPop reapplies the most recently stashed changes.
func (r *Repository) StashPop(ctx context.Context) error {
	_, err := r.Run(ctx, "stash", "pop")
	return err
}

// AddAll stages every change in the working tree.
func (r *Repository) AddAll(ctx context.Context) error {
	_, err := r.Run(ctx, "add", "--all")
	return err
}

// Commit records staged changes with the given message. Committing with
// nothing staged is an error from git; callers that treat an empty
// commit as a no-op should check IsNothingToCommit on the result.
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.Run(ctx, "commit", "--message", message)
	return err
}

// IsNothingToCommit reports whether err is git's refusal to create an
// empty commit. A clone with no changes on the initiative branch is not
// a failure.
func IsNothingToCommit(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "nothing to commit") ||
		strings.Contains(message, "nothing added to commit")
}

// Push pushes a branch to a remote.
func (r *Repository) Push(ctx context.Context, remote, branch string) error {
	_, err := r.Run(ctx, "push", remote, branch)
	return err
}

// FetchAll fetches from every configured remote.
func (r *Repository) FetchAll(ctx context.Context) error {
	_, err := r.Run(ctx, "fetch", "--all")
	return err
}

// PullFastForward pulls a branch from a remote, refusing to create a
// merge commit. Corral never merges — a clone that cannot fast-forward
// needs a reset, not an automatic merge.
func (r *Repository) PullFastForward(ctx context.Context, remote, branch string) error {
	_, err := r.Run(ctx, "pull", "--ff-only", remote, branch)
	return err
}

// AddRemote configures a named remote.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	_, err := r.Run(ctx, "remote", "add", name, url)
	return err
}
