// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import "time"

// User is a GitHub user reference. Appears as repository owner and pull
// request author.
type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// Repository is a GitHub repository as returned by the repository and
// fork listing endpoints.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"` // "owner/name"
	Owner    User   `json:"owner"`
	HTMLURL  string `json:"html_url"`
	SSHURL   string `json:"ssh_url"`
	CloneURL string `json:"clone_url"`

	Private  bool `json:"private"`
	Archived bool `json:"archived"`
	Fork     bool `json:"fork"`

	DefaultBranch string `json:"default_branch"`

	// Parent is the repository this one was forked from. Populated on
	// single-repository and fork-creation responses; nil elsewhere.
	Parent *Repository `json:"parent,omitempty"`
}

// Branch is a git branch reference on a pull request.
type Branch struct {
	Ref string `json:"ref"` // branch name
	SHA string `json:"sha"` // head commit SHA
}

// PullRequest is a GitHub pull request.
//
// Additions, Deletions, ChangedFiles, Merged, and Mergeable are only
// populated by the single-PR endpoint, not by list responses.
// Mergeable is a pointer because GitHub reports null while the merge
// check is still running.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"` // "open" or "closed"
	HTMLURL   string     `json:"html_url"`
	User      User       `json:"user"`
	Head      Branch     `json:"head"`
	Base      Branch     `json:"base"`
	Merged    bool       `json:"merged"`
	Mergeable *bool      `json:"mergeable"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`

	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	ChangedFiles int `json:"changed_files"`
}
