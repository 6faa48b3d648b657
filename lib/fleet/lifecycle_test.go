// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/corral/lib/git"
)

// runGit runs a git command in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	fullArgs := append([]string{"-C", dir,
		"-c", "user.name=Test", "-c", "user.email=test@test.local"}, args...)
	command := exec.Command("git", fullArgs...)
	if output, err := command.CombinedOutput(); err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, output)
	}
}

// gitOutput runs a git command in dir and returns its trimmed output.
func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()

	command := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := command.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// initUpstream creates a repository with one commit on main, playing
// the role of the original (non-fork) repository.
func initUpstream(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "upstream")
	command := exec.Command("git", "init", "-b", "main", dir)
	if output, err := command.CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, output)
	}

	readmePath := filepath.Join(dir, "README")
	if err := os.WriteFile(readmePath, []byte("test\n"), 0644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	runGit(t, dir, "add", "README")
	runGit(t, dir, "commit", "-m", "initial")

	return dir
}

// testClone creates an upstream repository, a bare fork of it, and a
// clone of the fork with the upstream remote configured: the exact
// layout sync produces for one repository. It returns the clone and
// the upstream directory.
func testClone(t *testing.T, name string) (Clone, string) {
	t.Helper()

	upstreamDir := initUpstream(t)
	forkDir := filepath.Join(t.TempDir(), name+".git")
	command := exec.Command("git", "clone", "--bare", upstreamDir, forkDir)
	if output, err := command.CombinedOutput(); err != nil {
		t.Fatalf("git clone --bare: %v\n%s", err, output)
	}

	cloneDir := filepath.Join(t.TempDir(), name)
	command = exec.Command("git", "clone", forkDir, cloneDir)
	if output, err := command.CombinedOutput(); err != nil {
		t.Fatalf("git clone: %v\n%s", err, output)
	}
	runGit(t, cloneDir, "remote", "add", git.UpstreamRemote, upstreamDir)

	return Clone{Path: cloneDir, Repo: git.NewRepository(cloneDir)}, upstreamDir
}

func TestReset(t *testing.T) {
	t.Parallel()

	clone, _ := testClone(t, "anvil")
	ctx := context.Background()

	runGit(t, clone.Path, "checkout", "-b", "wip")
	if err := os.WriteFile(filepath.Join(clone.Path, "README"), []byte("edited\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(clone.Path, "stray.txt"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Reset(ctx, clone); err != nil {
		t.Fatal(err)
	}

	branch, err := clone.Repo.CurrentBranch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if branch != "main" {
		t.Errorf("branch after reset = %q, want main", branch)
	}
	dirty, err := clone.Repo.IsDirty(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("clone still dirty after reset")
	}
	if _, err := os.Stat(filepath.Join(clone.Path, "stray.txt")); !os.IsNotExist(err) {
		t.Error("untracked file survived reset")
	}
}

func TestCommit(t *testing.T) {
	t.Parallel()

	clone, _ := testClone(t, "anvil")
	ctx := context.Background()

	// A clean clone is not an error: fleet-wide change scripts leave
	// some repositories untouched.
	if err := Commit(ctx, clone, "no-op"); err != nil {
		t.Fatalf("commit on clean clone: %v", err)
	}

	if err := os.WriteFile(filepath.Join(clone.Path, "new.txt"), []byte("content\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Commit(ctx, clone, "add new.txt"); err != nil {
		t.Fatal(err)
	}
	subject := gitOutput(t, clone.Path, "log", "-1", "--format=%s")
	if subject != "add new.txt" {
		t.Errorf("commit subject = %q", subject)
	}
	dirty, err := clone.Repo.IsDirty(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("clone dirty after commit")
	}
}

func TestSyncFastForwardsDefaultBranch(t *testing.T) {
	t.Parallel()

	clone, upstreamDir := testClone(t, "anvil")
	ctx := context.Background()

	// Advance upstream past both the fork and the clone.
	if err := os.WriteFile(filepath.Join(upstreamDir, "CHANGES"), []byte("v2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, upstreamDir, "add", "CHANGES")
	runGit(t, upstreamDir, "commit", "-m", "second")

	if err := Sync(ctx, clone); err != nil {
		t.Fatal(err)
	}

	upstreamHead := gitOutput(t, upstreamDir, "rev-parse", "main")
	cloneHead := gitOutput(t, clone.Path, "rev-parse", "main")
	if cloneHead != upstreamHead {
		t.Errorf("clone head = %s, want upstream head %s", cloneHead, upstreamHead)
	}
	forkDir := gitOutput(t, clone.Path, "remote", "get-url", git.OriginRemote)
	forkHead := gitOutput(t, forkDir, "rev-parse", "main")
	if forkHead != upstreamHead {
		t.Errorf("fork head = %s, want upstream head %s", forkHead, upstreamHead)
	}
}

func TestSyncLeavesInitiativeBranchAlone(t *testing.T) {
	t.Parallel()

	clone, upstreamDir := testClone(t, "anvil")
	ctx := context.Background()

	runGit(t, clone.Path, "checkout", "-b", "fix-typos")
	before := gitOutput(t, clone.Path, "rev-parse", "HEAD")

	if err := os.WriteFile(filepath.Join(upstreamDir, "CHANGES"), []byte("v2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, upstreamDir, "add", "CHANGES")
	runGit(t, upstreamDir, "commit", "-m", "second")

	if err := Sync(ctx, clone); err != nil {
		t.Fatal(err)
	}
	if head := gitOutput(t, clone.Path, "rev-parse", "HEAD"); head != before {
		t.Errorf("sync moved an initiative branch: %s -> %s", before, head)
	}
}

func TestOutgoing(t *testing.T) {
	t.Parallel()

	clone, _ := testClone(t, "anvil")
	ctx := context.Background()

	runGit(t, clone.Path, "checkout", "-b", "fix-typos")
	base, head, outgoing, err := Outgoing(ctx, clone)
	if err != nil {
		t.Fatal(err)
	}
	if outgoing {
		t.Error("fresh branch reported as having outgoing commits")
	}
	if base != "main" || head != "fix-typos" {
		t.Errorf("base/head = %q/%q", base, head)
	}

	if err := os.WriteFile(filepath.Join(clone.Path, "fix.txt"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, clone.Path, "add", "fix.txt")
	runGit(t, clone.Path, "commit", "-m", "fix")

	_, _, outgoing, err = Outgoing(ctx, clone)
	if err != nil {
		t.Fatal(err)
	}
	if !outgoing {
		t.Error("branch with a commit reported as having nothing outgoing")
	}
}
