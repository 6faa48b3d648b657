// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// AuthenticatedUser returns the user the client's token belongs to.
// The login is used to build "user:branch" head references for pull
// requests.
func (client *Client) AuthenticatedUser(ctx context.Context) (*User, error) {
	var user User
	if err := client.get(ctx, "/user", &user); err != nil {
		return nil, fmt.Errorf("getting authenticated user: %w", err)
	}
	return &user, nil
}

// ListRepositoriesOptions controls filtering and pagination for
// repository listing endpoints.
type ListRepositoriesOptions struct {
	Type    string // "sources", "forks", "all" (endpoint-dependent default)
	PerPage int    // results per page (max 100, default 30)
}

func (options ListRepositoriesOptions) queryParams() string {
	query := ""
	if options.Type != "" {
		query += "type=" + url.QueryEscape(options.Type) + "&"
	}
	if options.PerPage > 0 {
		query += fmt.Sprintf("per_page=%d&", options.PerPage)
	}
	if query != "" {
		return query[:len(query)-1]
	}
	return ""
}

// ListOrgRepositories returns a paginated iterator over an
// organization's repositories. Callers filter archived, private, and
// excluded repositories themselves — the API's type filter only
// distinguishes sources from forks.
func (client *Client) ListOrgRepositories(ctx context.Context, org string, options ListRepositoriesOptions) *PageIterator[Repository] {
	basePath := fmt.Sprintf("/orgs/%s/repos", org)
	return list[Repository](client, buildListPath(basePath, options))
}

// ListUserRepositories returns a paginated iterator over the
// authenticated user's repositories. With Type "forks" this lists the
// operator's forks; note that list responses do not populate Parent,
// so fork parentage requires GetRepository per fork.
func (client *Client) ListUserRepositories(ctx context.Context, options ListRepositoriesOptions) *PageIterator[Repository] {
	return list[Repository](client, buildListPath("/user/repos", options))
}

// GetRepository retrieves a single repository, including its Parent
// when the repository is a fork.
func (client *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var repository Repository
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := client.get(ctx, path, &repository); err != nil {
		return nil, fmt.Errorf("getting repository %s/%s: %w", owner, repo, err)
	}
	return &repository, nil
}

// CreateFork forks a repository into the authenticated user's account.
// GitHub performs the fork asynchronously — the returned Repository
// describes the fork-to-be, and cloning it immediately can race with
// fork completion on very large repositories.
func (client *Client) CreateFork(ctx context.Context, owner, repo string) (*Repository, error) {
	var fork Repository
	path := fmt.Sprintf("/repos/%s/%s/forks", owner, repo)
	if err := client.post(ctx, path, nil, &fork); err != nil {
		return nil, fmt.Errorf("forking %s/%s: %w", owner, repo, err)
	}
	return &fork, nil
}
