// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
)

// BranchDistribution groups the fleet by current branch name. Clones
// in detached-HEAD state are grouped under the empty string. Probes
// run freshly; nothing is cached from earlier passes.
func BranchDistribution(ctx context.Context, clones []Clone) (map[string][]Clone, error) {
	distribution := make(map[string][]Clone)
	for _, clone := range clones {
		branch, err := clone.Repo.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", clone.Name(), err)
		}
		distribution[branch] = append(distribution[branch], clone)
	}
	return distribution, nil
}

// Partition splits the fleet into clones with a clean index and
// clones carrying uncommitted changes. Both partitions preserve
// inventory order.
func Partition(ctx context.Context, clones []Clone) (clean, dirty []Clone, err error) {
	for _, clone := range clones {
		isDirty, err := clone.Repo.IsDirty(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("probing %s: %w", clone.Name(), err)
		}
		if isDirty {
			dirty = append(dirty, clone)
		} else {
			clean = append(clean, clone)
		}
	}
	return clean, dirty, nil
}
