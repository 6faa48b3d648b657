// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/corral/lib/github"
)

// Ledger is the accumulated record of an organization's initiatives
// and their pull requests. One ledger file exists per organization;
// the initiative branch name is the key.
type Ledger struct {
	Initiatives map[string]*Initiative
}

// Initiative is one named unit of cross-repository change, identified
// by its branch name.
type Initiative struct {
	// CreatedAt is when the initiative was first recorded. Never
	// changed by later merges.
	CreatedAt time.Time `json:"created_date"`

	// PullRequests are the pull requests opened for this initiative,
	// one per contributing repository, deduplicated by URL.
	PullRequests []PullRequestRecord `json:"pull_requests"`
}

// PullRequestRecord is the persisted projection of one pull request.
// The URL is the identity key: merging the same URL twice refreshes
// the mutable fields without duplicating the record.
type PullRequestRecord struct {
	URL          string     `json:"html_url"`
	State        string     `json:"state"` // "open" or "closed"
	Merged       bool       `json:"merged"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`

	// Mergeable is nil while GitHub's merge check is pending.
	Mergeable *bool `json:"mergeable"`
}

// RecordFromPull converts an API pull request into its ledger
// projection.
func RecordFromPull(pull *github.PullRequest) PullRequestRecord {
	return PullRequestRecord{
		URL:          pull.HTMLURL,
		State:        pull.State,
		Merged:       pull.Merged,
		CreatedAt:    pull.CreatedAt,
		UpdatedAt:    pull.UpdatedAt,
		ClosedAt:     pull.ClosedAt,
		MergedAt:     pull.MergedAt,
		Additions:    pull.Additions,
		Deletions:    pull.Deletions,
		ChangedFiles: pull.ChangedFiles,
		Mergeable:    pull.Mergeable,
	}
}

// LoadLedger reads the ledger file at path. A missing or unparseable
// file yields an empty ledger, never an error — the ledger is rebuilt
// by re-running report, and refusing to start over a corrupt file
// would block every verb that appends to it.
func LoadLedger(path string) *Ledger {
	ledger := &Ledger{Initiatives: map[string]*Initiative{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return ledger
	}
	var initiatives map[string]*Initiative
	if err := json.Unmarshal(data, &initiatives); err != nil {
		return ledger
	}
	for branch, entry := range initiatives {
		if entry == nil {
			continue
		}
		ledger.Initiatives[branch] = entry
	}
	return ledger
}

// Save writes the ledger to path as indented JSON. The write goes to a
// temp file in the same directory followed by a rename, so a crash
// mid-write never truncates the previous ledger.
func (ledger *Ledger) Save(path string) error {
	data, err := json.MarshalIndent(ledger.Initiatives, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// MergePullRequest upserts a pull request record into an initiative,
// keyed by URL. A new URL is appended; an existing one keeps its
// original creation timestamp and has its mutable fields (state,
// merged flag, timestamps, size metrics, mergeability) refreshed.
// Creates the initiative if this is the first record for the branch,
// stamping it with observedAt.
func (ledger *Ledger) MergePullRequest(branch string, record PullRequestRecord, observedAt time.Time) {
	if ledger.Initiatives == nil {
		ledger.Initiatives = map[string]*Initiative{}
	}
	entry, ok := ledger.Initiatives[branch]
	if !ok {
		entry = &Initiative{CreatedAt: observedAt}
		ledger.Initiatives[branch] = entry
	}

	for i := range entry.PullRequests {
		if entry.PullRequests[i].URL != record.URL {
			continue
		}
		created := entry.PullRequests[i].CreatedAt
		entry.PullRequests[i] = record
		entry.PullRequests[i].CreatedAt = created
		return
	}
	entry.PullRequests = append(entry.PullRequests, record)
}

// Branches returns the initiative branch names present in the ledger.
func (ledger *Ledger) Branches() []string {
	branches := make([]string, 0, len(ledger.Initiatives))
	for branch := range ledger.Initiatives {
		branches = append(branches, branch)
	}
	return branches
}

// PullRequestCount returns the total number of recorded pull requests
// across all initiatives.
func (ledger *Ledger) PullRequestCount() int {
	count := 0
	for _, entry := range ledger.Initiatives {
		count += len(entry.PullRequests)
	}
	return count
}

// writeFileAtomic writes data to path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".corral-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
