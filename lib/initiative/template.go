// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TemplatePath returns the path of the pull request template for an
// initiative branch: <dir>/<branch>.md.
func TemplatePath(dir, branch string) string {
	return filepath.Join(dir, branch+".md")
}

// SeedTemplate creates a pull request template stub for an initiative
// branch if one does not already exist. The first line becomes the PR
// title, the remainder the body; the operator edits the stub before
// running pr. Existing templates are never overwritten, so re-running
// branch on a resumed initiative is safe.
func SeedTemplate(dir, branch string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating initiative directory: %w", err)
	}

	path := TemplatePath(dir, branch)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	stub := fmt.Sprintf("# %s\n\n(Describe the changes in this pull request.)\n", branch)
	if err := os.WriteFile(path, []byte(stub), 0644); err != nil {
		return "", fmt.Errorf("seeding template for %s: %w", branch, err)
	}
	return path, nil
}

// LoadTemplate reads a pull request template: the first line (minus
// its "# " heading marker) is the title, everything after it the body.
func LoadTemplate(path string) (title, body string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading template: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	title = strings.TrimSpace(strings.TrimPrefix(lines[0], "#"))
	if len(lines) > 1 {
		body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return title, body, nil
}

// ListTemplateBranches returns the initiative branch names that have a
// seeded template in dir, derived from the markdown file names.
func ListTemplateBranches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing initiative templates: %w", err)
	}

	var branches []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		branches = append(branches, strings.TrimSuffix(name, ".md"))
	}
	return branches, nil
}
