// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// CheckResult holds the validator exit codes observed for one changed
// file: one sequence from runs against the clean tree (edits stashed)
// and one from runs against the edited tree. Both sequences have
// exactly `tries` entries.
type CheckResult struct {
	Before []int `json:"before"`
	After  []int `json:"after"`
}

// Failing reports whether the exit-code sequences differ — behavioral
// drift attributable to the uncommitted change rather than flakiness.
func (result CheckResult) Failing() bool {
	return !slices.Equal(result.Before, result.After)
}

// CheckResults maps clone name → changed file → result. The latest
// check run overwrites per (clone, file); results for other clones and
// files are preserved.
type CheckResults map[string]map[string]CheckResult

// LoadCheckResults reads the check-results file at path. Missing or
// unparseable files yield an empty result set, never an error.
func LoadCheckResults(path string) CheckResults {
	results := CheckResults{}

	data, err := os.ReadFile(path)
	if err != nil {
		return results
	}
	var loaded CheckResults
	if err := json.Unmarshal(data, &loaded); err != nil {
		return results
	}
	for clone, files := range loaded {
		if files == nil {
			continue
		}
		results[clone] = files
	}
	return results
}

// Save writes the check results to path as indented JSON, atomically.
func (results CheckResults) Save(path string) error {
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding check results: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// Merge overwrites the results for one clone's files with the latest
// run, leaving other clones and the clone's unchecked files untouched.
func (results CheckResults) Merge(clone string, files map[string]CheckResult) {
	if len(files) == 0 {
		return
	}
	existing, ok := results[clone]
	if !ok {
		existing = map[string]CheckResult{}
		results[clone] = existing
	}
	for file, result := range files {
		existing[file] = result
	}
}

// FailingFiles returns clone → files whose check results regressed.
func (results CheckResults) FailingFiles() map[string][]string {
	failing := map[string][]string{}
	for clone, files := range results {
		for file, result := range files {
			if result.Failing() {
				failing[clone] = append(failing[clone], file)
			}
		}
	}
	for _, files := range failing {
		slices.Sort(files)
	}
	return failing
}
