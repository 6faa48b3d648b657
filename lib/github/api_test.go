// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePullRequest(t *testing.T) {
	var receivedBody CreatePullRequestRequest
	var receivedPath, receivedMethod string

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		receivedMethod = request.Method
		json.NewDecoder(request.Body).Decode(&receivedBody)

		writer.WriteHeader(http.StatusCreated)
		json.NewEncoder(writer).Encode(PullRequest{
			Number:  42,
			Title:   "Fix logo",
			State:   "open",
			HTMLURL: "https://github.com/acme/widgets/pull/42",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	pullRequest, err := client.CreatePullRequest(context.Background(), "acme", "widgets", CreatePullRequestRequest{
		Title: "Fix logo",
		Body:  "Updates the logo.",
		Head:  "operator:fix-logo",
		Base:  "main",
	})
	if err != nil {
		t.Fatalf("CreatePullRequest: %v", err)
	}

	if receivedMethod != "POST" {
		t.Errorf("method = %s, want POST", receivedMethod)
	}
	if receivedPath != "/repos/acme/widgets/pulls" {
		t.Errorf("path = %s, want /repos/acme/widgets/pulls", receivedPath)
	}
	if receivedBody.Head != "operator:fix-logo" {
		t.Errorf("request.Head = %q, want %q", receivedBody.Head, "operator:fix-logo")
	}
	if pullRequest.HTMLURL != "https://github.com/acme/widgets/pull/42" {
		t.Errorf("HTMLURL = %q", pullRequest.HTMLURL)
	}
}

func TestCreatePullRequest_AlreadyExists(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnprocessableEntity)
		writer.Write([]byte(`{
			"message": "Validation Failed",
			"errors": [{"resource": "PullRequest", "code": "custom", "message": "A pull request already exists."}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreatePullRequest(context.Background(), "acme", "widgets", CreatePullRequestRequest{
		Title: "Fix logo",
		Head:  "operator:fix-logo",
		Base:  "main",
	})
	if err == nil {
		t.Fatal("expected 422 error")
	}
	if !IsValidationFailed(err) {
		t.Errorf("IsValidationFailed(%v) = false, want true", err)
	}
}

func TestGetPullRequest_MergeableAndMetrics(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/repos/acme/widgets/pulls/7" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writer.Write([]byte(`{
			"number": 7,
			"state": "open",
			"merged": false,
			"mergeable": false,
			"additions": 12,
			"deletions": 3,
			"changed_files": 2,
			"html_url": "https://github.com/acme/widgets/pull/7"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	pullRequest, err := client.GetPullRequest(context.Background(), "acme", "widgets", 7)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}

	if pullRequest.Mergeable == nil || *pullRequest.Mergeable {
		t.Errorf("Mergeable = %v, want false", pullRequest.Mergeable)
	}
	if pullRequest.Additions != 12 || pullRequest.Deletions != 3 || pullRequest.ChangedFiles != 2 {
		t.Errorf("metrics = %d/%d/%d, want 12/3/2",
			pullRequest.Additions, pullRequest.Deletions, pullRequest.ChangedFiles)
	}
}

func TestGetPullRequest_MergeableNull(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"number": 7, "state": "open", "mergeable": null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	pullRequest, err := client.GetPullRequest(context.Background(), "acme", "widgets", 7)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}

	// GitHub reports null while the merge check is still running.
	if pullRequest.Mergeable != nil {
		t.Errorf("Mergeable = %v, want nil", *pullRequest.Mergeable)
	}
}

func TestListOrgRepositories_Pagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Query().Get("type") != "sources" {
			t.Errorf("type = %q, want sources", request.URL.Query().Get("type"))
		}
		switch request.URL.Query().Get("page") {
		case "", "1":
			writer.Header().Set("Link", fmt.Sprintf(`<%s/orgs/acme/repos?type=sources&page=2>; rel="next"`, server.URL))
			json.NewEncoder(writer).Encode([]Repository{
				{Name: "widgets", FullName: "acme/widgets"},
			})
		case "2":
			json.NewEncoder(writer).Encode([]Repository{
				{Name: "gadgets", FullName: "acme/gadgets"},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	repos, err := client.ListOrgRepositories(context.Background(), "acme", ListRepositoriesOptions{
		Type: "sources",
	}).Collect(context.Background())
	if err != nil {
		t.Fatalf("ListOrgRepositories: %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("repos = %d, want 2", len(repos))
	}
	if repos[0].Name != "widgets" || repos[1].Name != "gadgets" {
		t.Errorf("repos = %v", repos)
	}
}

func TestListPullRequests_HeadFilter(t *testing.T) {
	var receivedHead string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedHead = request.URL.Query().Get("head")
		json.NewEncoder(writer).Encode([]PullRequest{
			{Number: 1, Head: Branch{Ref: "fix-logo"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	pulls, err := client.ListPullRequests(context.Background(), "acme", "widgets", ListPullRequestsOptions{
		State: "all",
		Head:  "operator:fix-logo",
	}).Collect(context.Background())
	if err != nil {
		t.Fatalf("ListPullRequests: %v", err)
	}

	if receivedHead != "operator:fix-logo" {
		t.Errorf("head param = %q, want %q", receivedHead, "operator:fix-logo")
	}
	if len(pulls) != 1 || pulls[0].Head.Ref != "fix-logo" {
		t.Errorf("pulls = %v", pulls)
	}
}

func TestCreateFork(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/repos/acme/widgets/forks" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		// GitHub answers 202 — the fork is created asynchronously.
		writer.WriteHeader(http.StatusAccepted)
		json.NewEncoder(writer).Encode(Repository{
			Name:     "widgets",
			FullName: "operator/widgets",
			Fork:     true,
			Parent:   &Repository{FullName: "acme/widgets"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	fork, err := client.CreateFork(context.Background(), "acme", "widgets")
	if err != nil {
		t.Fatalf("CreateFork: %v", err)
	}

	if fork.FullName != "operator/widgets" {
		t.Errorf("FullName = %q, want operator/widgets", fork.FullName)
	}
	if fork.Parent == nil || fork.Parent.FullName != "acme/widgets" {
		t.Errorf("Parent = %v, want acme/widgets", fork.Parent)
	}
}

func TestAuthenticatedUser(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/user" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		json.NewEncoder(writer).Encode(User{Login: "operator", ID: 7})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	user, err := client.AuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("AuthenticatedUser: %v", err)
	}
	if user.Login != "operator" {
		t.Errorf("Login = %q, want operator", user.Login)
	}
}

func TestGetRepository_ForkParent(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/repos/operator/widgets" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		json.NewEncoder(writer).Encode(Repository{
			Name:     "widgets",
			FullName: "operator/widgets",
			Fork:     true,
			Parent:   &Repository{FullName: "acme/widgets"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	repo, err := client.GetRepository(context.Background(), "operator", "widgets")
	if err != nil {
		t.Fatalf("GetRepository: %v", err)
	}
	if repo.Parent == nil || repo.Parent.FullName != "acme/widgets" {
		t.Errorf("Parent = %v, want acme/widgets", repo.Parent)
	}
}

func TestGetRepository_NotFound(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetRepository(context.Background(), "operator", "missing")
	if err == nil {
		t.Fatal("expected error for missing repository")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}
