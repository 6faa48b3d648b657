// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for clone
// operations. Corral uses git for everything it does to a working
// copy: probing branch and index state, resetting, branching,
// stashing around validation runs, committing, and pushing. All
// commands target a specific repository directory via the -C flag,
// which is automatically injected by all Repository methods.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Repository represents a git working copy at a specific directory.
// All operations target this directory via "git -C <dir>". There is no
// default directory — callers must always specify which clone they
// mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. On failure the captured output is included in the error
// message, preferring stderr; some commands, commit among them, report
// their refusal on stdout instead.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s in %s: %w (%s)",
			strings.Join(args, " "), r.dir, err, detail)
	}
	return stdout.String(), nil
}

// Command returns an *exec.Cmd for a git command without running it.
// The caller gets full control over Stdin, Stdout, and Stderr before
// starting the process. The -C flag targeting this repository is
// automatically prepended.
func (r *Repository) Command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{"-C", r.dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...)
}

// CloneDepth1 creates a shallow clone of url at path. Used by sync when
// materializing a freshly forked repository; the fleet only ever needs
// the tip of each branch.
func CloneDepth1(ctx context.Context, url, path string) error {
	var stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", "clone", "--depth=1", url, path)
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("git clone %s: %w (stderr: %s)",
			url, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
