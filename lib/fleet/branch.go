// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// BranchAction classifies what the branch verb will do to the fleet.
type BranchAction int

const (
	// BranchFromDefault creates the initiative branch on top of each
	// clone's default branch. The normal starting point.
	BranchFromDefault BranchAction = iota

	// BranchAlreadyCurrent means every clone already sits on the
	// requested branch; the verb is a no-op.
	BranchAlreadyCurrent

	// BranchFromExisting stacks the new branch on top of another
	// initiative branch the whole fleet is currently on.
	BranchFromExisting
)

// BranchPlan is the fleet-wide decision for a branch request. The
// decision is made once for the whole fleet, never per clone: a fleet
// that is split across branches gets no plan at all.
type BranchPlan struct {
	Action BranchAction

	// Basis is the branch the fleet currently sits on. For
	// BranchFromDefault it is empty because each clone resolves its
	// own default branch name.
	Basis string

	// Warning is a non-empty advisory for plans that are legal but
	// unusual, such as stacking one initiative on another.
	Warning string
}

// SanitizeBranchName maps an initiative title to a usable git branch
// name: spaces, slashes and colons become hyphens. Everything else is
// passed through, matching what the forge accepts in branch refs.
func SanitizeBranchName(name string) string {
	replacer := strings.NewReplacer(" ", "-", "/", "-", ":", "-")
	return replacer.Replace(name)
}

// PlanBranch decides how to move the whole fleet onto branch name.
// The fleet must be in a coherent state: either every clone on its
// own default branch, or every clone on one shared branch with a
// clean index. Anything else returns an error describing the split so
// the operator can reset or finish the divergent clones first.
func PlanBranch(ctx context.Context, clones []Clone, name string) (BranchPlan, error) {
	if len(clones) == 0 {
		return BranchPlan{}, fmt.Errorf("no clones to branch; run sync first")
	}

	onDefault := true
	for _, clone := range clones {
		defaultBranch, err := clone.Repo.DefaultBranch(ctx)
		if err != nil {
			return BranchPlan{}, fmt.Errorf("probing %s: %w", clone.Name(), err)
		}
		current, err := clone.Repo.CurrentBranch(ctx)
		if err != nil {
			return BranchPlan{}, fmt.Errorf("probing %s: %w", clone.Name(), err)
		}
		if current != defaultBranch {
			onDefault = false
			break
		}
	}
	if onDefault {
		return BranchPlan{Action: BranchFromDefault}, nil
	}

	distribution, err := BranchDistribution(ctx, clones)
	if err != nil {
		return BranchPlan{}, err
	}
	if len(distribution) != 1 {
		return BranchPlan{}, fmt.Errorf("clones are split across branches (%s); reset or finish the divergent clones first", describeDistribution(distribution))
	}
	var basis string
	for branch := range distribution {
		basis = branch
	}

	_, dirty, err := Partition(ctx, clones)
	if err != nil {
		return BranchPlan{}, err
	}
	if len(dirty) > 0 {
		names := make([]string, 0, len(dirty))
		for _, clone := range dirty {
			names = append(names, clone.Name())
		}
		return BranchPlan{}, fmt.Errorf("clones on %s have uncommitted changes (%s); commit or reset before branching", basis, strings.Join(names, ", "))
	}

	if basis == name {
		return BranchPlan{Action: BranchAlreadyCurrent, Basis: basis}, nil
	}
	return BranchPlan{
		Action:  BranchFromExisting,
		Basis:   basis,
		Warning: fmt.Sprintf("branching %s on top of %s, not the default branch", name, basis),
	}, nil
}

// CreateBranch moves one clone onto the named branch, reusing a local
// branch of that name when one exists so a re-run after a partial
// failure converges instead of erroring.
func CreateBranch(ctx context.Context, clone Clone, name string) error {
	branches, err := clone.Repo.LocalBranches(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(branches, name) {
		return clone.Repo.Checkout(ctx, name)
	}
	return clone.Repo.CheckoutNewBranch(ctx, name)
}

func describeDistribution(distribution map[string][]Clone) string {
	branches := make([]string, 0, len(distribution))
	for branch := range distribution {
		branches = append(branches, branch)
	}
	sort.Strings(branches)
	parts := make([]string, 0, len(branches))
	for _, branch := range branches {
		label := branch
		if label == "" {
			label = "detached"
		}
		parts = append(parts, fmt.Sprintf("%s: %d", label, len(distribution[branch])))
	}
	return strings.Join(parts, ", ")
}
