// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// CreatePullRequestRequest contains the fields for opening a pull
// request.
type CreatePullRequestRequest struct {
	// Title is the pull request title.
	Title string `json:"title"`

	// Body is the pull request description. May be empty.
	Body string `json:"body"`

	// Head is the branch the changes live on, in "user:branch" form
	// for cross-fork pull requests.
	Head string `json:"head"`

	// Base is the branch the changes should merge into — the upstream
	// repository's default branch.
	Base string `json:"base"`
}

// CreatePullRequest opens a pull request against owner/repo. A 422
// response usually means a pull request already exists for the head
// branch; check with IsValidationFailed.
func (client *Client) CreatePullRequest(ctx context.Context, owner, repo string, request CreatePullRequestRequest) (*PullRequest, error) {
	var pullRequest PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	if err := client.post(ctx, path, request, &pullRequest); err != nil {
		return nil, fmt.Errorf("creating PR in %s/%s: %w", owner, repo, err)
	}
	return &pullRequest, nil
}

// GetPullRequest retrieves a single pull request by number. Unlike the
// list endpoint, the response includes change-size metrics and the
// mergeability flag.
func (client *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pullRequest PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	if err := client.get(ctx, path, &pullRequest); err != nil {
		return nil, fmt.Errorf("getting PR %s/%s#%d: %w", owner, repo, number, err)
	}
	return &pullRequest, nil
}

// ListPullRequestsOptions controls filtering and pagination for
// ListPullRequests.
type ListPullRequestsOptions struct {
	State   string // "open", "closed", "all" (default: "open")
	Sort    string // "created", "updated", "popularity", "long-running"
	Head    string // filter by head in "user:branch" form
	PerPage int    // results per page (max 100, default 30)
}

func (options ListPullRequestsOptions) queryParams() string {
	query := ""
	if options.State != "" {
		query += "state=" + options.State + "&"
	}
	if options.Sort != "" {
		query += "sort=" + options.Sort + "&"
	}
	if options.Head != "" {
		query += "head=" + url.QueryEscape(options.Head) + "&"
	}
	if options.PerPage > 0 {
		query += fmt.Sprintf("per_page=%d&", options.PerPage)
	}
	if query != "" {
		return query[:len(query)-1]
	}
	return ""
}

// ListPullRequests returns a paginated iterator over pull requests in
// a repository.
func (client *Client) ListPullRequests(ctx context.Context, owner, repo string, options ListPullRequestsOptions) *PageIterator[PullRequest] {
	basePath := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	return list[PullRequest](client, buildListPath(basePath, options))
}
