// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/corral/lib/git"
)

// Clone is one fork repository on disk, identified by the directory
// it was cloned into. The directory name matches the repository name
// on the forge.
type Clone struct {
	// Path is the clone directory. It may be relative to the working
	// directory; it is passed to git via -C and to check scripts as
	// their first argument unchanged.
	Path string

	// Repo runs git commands inside the clone.
	Repo *git.Repository
}

// Name returns the repository name, the final path element of the
// clone directory.
func (c Clone) Name() string {
	return filepath.Base(c.Path)
}

// ListClones enumerates the clone directories under root, the per-org
// cache directory. A directory counts as a clone when it contains a
// .git entry; anything else (stray files, partially deleted clones)
// is skipped. A missing root means the org has never been synced and
// yields an empty inventory, not an error. The result is sorted by
// name so every fleet pass walks repositories in a stable order.
func ListClones(root string) ([]Clone, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading clone root %s: %w", root, err)
	}
	var clones []Clone
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			continue
		}
		clones = append(clones, Clone{
			Path: path,
			Repo: git.NewRepository(path),
		})
	}
	return clones, nil
}
