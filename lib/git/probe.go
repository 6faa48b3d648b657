// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UpstreamRemote is the remote name corral installs on every clone,
// pointing at the original (non-fork) repository. The default branch is
// always resolved against this remote, never guessed from local branch
// names.
const UpstreamRemote = "upstream"

// OriginRemote is the remote pointing at the operator's fork, which is
// where initiative branches are pushed.
const OriginRemote = "origin"

// NoUpstreamError indicates that a clone has no upstream remote, or
// that the upstream's HEAD could not be resolved to a branch. Clones in
// this state cannot participate in default-branch operations until
// re-synced.
type NoUpstreamError struct {
	// Dir is the clone directory.
	Dir string

	// Reason describes what was missing.
	Reason string
}

func (e *NoUpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Dir, e.Reason)
}

// IsNoUpstream reports whether err indicates a missing or unresolvable
// upstream remote.
func IsNoUpstream(err error) bool {
	var noUpstream *NoUpstreamError
	return errors.As(err, &noUpstream)
}

// CurrentBranch returns the branch currently checked out, or the empty
// string when HEAD is detached.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	output, err := r.Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// IsDirty reports whether the working tree has uncommitted changes
// (staged, unstaged, or untracked). Any short-status output means dirty.
func (r *Repository) IsDirty(ctx context.Context) (bool, error) {
	output, err := r.Run(ctx, "status", "--short")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// ChangedFiles returns the paths of all files with uncommitted changes,
// parsed from porcelain short status. Returns an empty slice for a
// clean tree.
func (r *Repository) ChangedFiles(ctx context.Context) ([]string, error) {
	output, err := r.Run(ctx, "status", "--short", "--porcelain")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		// Porcelain format: two status columns, a space, then the path.
		if len(line) <= 3 {
			continue
		}
		files = append(files, strings.TrimSpace(line[3:]))
	}
	return files, nil
}

// LocalBranches returns the names of all local branches.
func (r *Repository) LocalBranches(ctx context.Context) ([]string, error) {
	output, err := r.Run(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// DefaultBranch resolves the upstream remote's symbolic HEAD and
// returns the branch name it points at (the segment after the final
// slash). This is the authoritative default branch for the clone's
// source repository — "main" vs "master" is never guessed from local
// branch listings.
//
// Returns a *NoUpstreamError when the upstream remote is not configured
// or its HEAD is not a symbolic ref.
func (r *Repository) DefaultBranch(ctx context.Context) (string, error) {
	remotes, err := r.Run(ctx, "remote")
	if err != nil {
		return "", err
	}
	if !containsLine(remotes, UpstreamRemote) {
		return "", &NoUpstreamError{Dir: r.dir, Reason: "no upstream remote configured"}
	}

	output, err := r.Run(ctx, "ls-remote", "--symref", UpstreamRemote, "HEAD")
	if err != nil {
		return "", err
	}

	// The symref line has the form "ref: refs/heads/main\tHEAD".
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "ref:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ref := fields[1]
		return ref[strings.LastIndex(ref, "/")+1:], nil
	}
	return "", &NoUpstreamError{Dir: r.dir, Reason: "upstream HEAD is not a symbolic ref"}
}

// HasOutgoing reports whether head has commits that base does not
// ("git log base..head"). Used to decide whether a clone participates
// in the current initiative before pushing and opening a pull request.
func (r *Repository) HasOutgoing(ctx context.Context, base, head string) (bool, error) {
	output, err := r.Run(ctx, "log", base+".."+head, "--oneline")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

func containsLine(output, want string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}
