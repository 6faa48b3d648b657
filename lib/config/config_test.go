// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	original := &Config{
		GitHubUser:    "octocat",
		GitHubToken:   "ghp_secret",
		GitHubOrg:     "acme",
		ExcludedRepos: []string{"acme/legacy", "scratch"},
		workspace:     dir,
	}
	if err := original.Save(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.GitHubUser != "octocat" || loaded.GitHubOrg != "acme" || loaded.GitHubToken != "ghp_secret" {
		t.Errorf("loaded config = %+v", loaded)
	}
	if loaded.Workspace() != dir {
		t.Errorf("workspace = %q, want %q", loaded.Workspace(), dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitHubUser != "" || cfg.GitHubOrg != "" {
		t.Errorf("fresh workspace config not empty: %+v", cfg)
	}
	if cfg.Workspace() != dir {
		t.Errorf("workspace = %q, want %q", cfg.Workspace(), dir)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("empty config passed validation")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("github_user: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config did not error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{GitHubUser: "octocat", GitHubToken: "t", GitHubOrg: "acme"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("complete config failed validation: %v", err)
	}

	cfg.GitHubToken = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("missing token passed validation")
	}
	if !strings.Contains(err.Error(), "github_token") {
		t.Errorf("error %v does not name the missing field", err)
	}
}

func TestIsExcluded(t *testing.T) {
	t.Parallel()

	cfg := &Config{ExcludedRepos: []string{"acme/legacy", "scratch"}}
	for name, want := range map[string]bool{
		"legacy":  true,
		"scratch": true,
		"widgets": false,
		"acme":    false,
	} {
		if got := cfg.IsExcluded(name); got != want {
			t.Errorf("IsExcluded(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWorkspacePaths(t *testing.T) {
	t.Parallel()

	cfg := &Config{GitHubOrg: "acme", workspace: "/work"}
	if got := cfg.CloneRoot(); got != "/work/acme" {
		t.Errorf("CloneRoot = %q", got)
	}
	if got := cfg.InitiativeDir(); got != "/work/initiatives" {
		t.Errorf("InitiativeDir = %q", got)
	}
	if got := cfg.LedgerPath(); got != "/work/acme.ledger.json" {
		t.Errorf("LedgerPath = %q", got)
	}
	if got := cfg.CheckResultsPath(); got != "/work/acme.checks.json" {
		t.Errorf("CheckResultsPath = %q", got)
	}
	if got := cfg.ReportPath(); got != "/work/acme.report.md" {
		t.Errorf("ReportPath = %q", got)
	}
}

func TestCompleteFillsMissingFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inPath := filepath.Join(dir, "answers")
	if err := os.WriteFile(inPath, []byte("octocat\nacme\nghp_secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(inPath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	cfg := &Config{workspace: dir}
	var prompts strings.Builder
	changed, err := cfg.Complete(in, &prompts)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("Complete reported no changes")
	}
	if cfg.GitHubUser != "octocat" || cfg.GitHubOrg != "acme" || cfg.GitHubToken != "ghp_secret" {
		t.Errorf("completed config = %+v", cfg)
	}
	if !strings.Contains(prompts.String(), "GitHub username") {
		t.Errorf("prompts = %q", prompts.String())
	}
}

func TestCompleteSkipsPresentFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inPath := filepath.Join(dir, "answers")
	if err := os.WriteFile(inPath, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(inPath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	cfg := &Config{GitHubUser: "octocat", GitHubToken: "t", GitHubOrg: "acme", workspace: dir}
	changed, err := cfg.Complete(in, &strings.Builder{})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("Complete changed an already complete config")
	}
}
