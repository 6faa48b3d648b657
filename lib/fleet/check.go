// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/bureau-foundation/corral/lib/initiative"
)

// CheckOptions configures a fleet check pass.
type CheckOptions struct {
	// Script is the path of the executable run for every changed
	// file. It is invoked as: script <clone-path> <file> <attempt>.
	Script string

	// Tries is how many times the script runs per file on each side
	// of the stash. Flaky checks need more than one sample before a
	// before/after difference means anything.
	Tries int

	// Revert restores any file whose check regressed back to its
	// committed content.
	Revert bool
}

// Check compares the check script's verdict on each changed file with
// and without the clone's uncommitted changes. For every changed
// file, the working tree modifications are stashed, the script runs
// Tries times against the committed content, the stash is popped, and
// the script runs Tries times again. A file whose exit-code sequence
// differs between the two sides is a behavioral change worth a look;
// with Revert set, such files are checked out back to their committed
// state on the spot.
//
// Untracked files are reported as changed by git but survive the
// stash, so their before and after runs see the same content and they
// can never register as failing.
//
// A clone with no changed files returns a nil map.
func Check(ctx context.Context, clone Clone, options CheckOptions) (map[string]initiative.CheckResult, error) {
	if options.Tries < 1 {
		return nil, fmt.Errorf("tries must be at least 1, got %d", options.Tries)
	}
	files, err := clone.Repo.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// The script receives the clone path relative to the working
	// directory, so invocations read the same on any machine however
	// deeply the workspace is nested.
	clonePath := clone.Path
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, clone.Path); err == nil {
			clonePath = rel
		}
	}

	results := make(map[string]initiative.CheckResult, len(files))
	for _, file := range files {
		result, err := checkFile(ctx, clone, clonePath, file, options)
		if err != nil {
			return results, fmt.Errorf("checking %s: %w", file, err)
		}
		results[file] = result
		if options.Revert && result.Failing() {
			if err := clone.Repo.CheckoutFile(ctx, file); err != nil {
				return results, fmt.Errorf("reverting %s: %w", file, err)
			}
		}
	}
	return results, nil
}

func checkFile(ctx context.Context, clone Clone, clonePath, file string, options CheckOptions) (initiative.CheckResult, error) {
	// Stash reports false when there were no tracked changes to save,
	// which is the untracked-only case: the script sees identical
	// content on both sides and there is nothing to pop.
	stashed, err := clone.Repo.Stash(ctx)
	if err != nil {
		return initiative.CheckResult{}, err
	}
	before, beforeErr := runAttempts(ctx, clonePath, file, options)
	// The pop must happen even when the committed-side runs failed;
	// leaving the clone's changes stranded in the stash would corrupt
	// every later lifecycle step.
	if stashed {
		if err := clone.Repo.StashPop(ctx); err != nil {
			return initiative.CheckResult{}, errors.Join(beforeErr, err)
		}
	}
	if beforeErr != nil {
		return initiative.CheckResult{}, beforeErr
	}
	after, err := runAttempts(ctx, clonePath, file, options)
	if err != nil {
		return initiative.CheckResult{}, err
	}
	return initiative.CheckResult{Before: before, After: after}, nil
}

// runAttempts runs the check script Tries times and collects the exit
// codes. A non-zero exit is a verdict, not an error; only a script
// that cannot be started at all fails the clone.
func runAttempts(ctx context.Context, clonePath, file string, options CheckOptions) ([]int, error) {
	codes := make([]int, 0, options.Tries)
	for attempt := range options.Tries {
		cmd := exec.CommandContext(ctx, options.Script, clonePath, file, strconv.Itoa(attempt))
		err := cmd.Run()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			codes = append(codes, 0)
		case errors.As(err, &exitErr):
			codes = append(codes, exitErr.ExitCode())
		default:
			return nil, fmt.Errorf("running %s: %w", options.Script, err)
		}
	}
	return codes, nil
}
