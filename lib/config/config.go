// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads and stores the corral workspace configuration.
//
// A workspace is a directory holding one corral.yaml plus everything
// corral writes: the per-org clone cache, the initiatives directory,
// the ledger and the generated report. Configuration is loaded from an
// explicit path and threaded as a value into every command; there is
// no ambient global state, so fleet workers can run in parallel
// without sharing mutable configuration.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file corral looks for in the
// workspace directory.
const FileName = "corral.yaml"

// Config is the workspace configuration.
type Config struct {
	// GitHubUser is the account owning the forks.
	GitHubUser string `yaml:"github_user"`

	// GitHubToken authenticates API calls. Stored in the workspace
	// config file, which is written with owner-only permissions.
	GitHubToken string `yaml:"github_token"`

	// GitHubOrg is the organization whose repositories are forked
	// and cloned.
	GitHubOrg string `yaml:"github_org"`

	// ExcludedRepos lists repository names to leave out of the
	// fleet. Entries may be written as "name" or "org/name"; the org
	// prefix is ignored.
	ExcludedRepos []string `yaml:"excluded_repos,omitempty"`

	// workspace is the directory containing the config file. Not
	// serialized; derived from the load path.
	workspace string
}

// Load reads the configuration from path. A missing file yields an
// empty configuration rooted at the path's directory, so a fresh
// workspace can be completed interactively and saved; any other read
// or parse failure is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{workspace: filepath.Dir(path)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to the workspace config file
// with owner-only permissions, since it carries the API token.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(c.workspace, FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks that every field a verb needs is present.
func (c *Config) Validate() error {
	var errs []error
	if c.GitHubUser == "" {
		errs = append(errs, fmt.Errorf("github_user is required"))
	}
	if c.GitHubToken == "" {
		errs = append(errs, fmt.Errorf("github_token is required"))
	}
	if c.GitHubOrg == "" {
		errs = append(errs, fmt.Errorf("github_org is required"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Workspace returns the directory containing the config file.
func (c *Config) Workspace() string {
	return c.workspace
}

// CloneRoot is the directory holding the org's clones, one
// subdirectory per repository.
func (c *Config) CloneRoot() string {
	return filepath.Join(c.workspace, c.GitHubOrg)
}

// InitiativeDir holds the per-initiative pull request templates.
func (c *Config) InitiativeDir() string {
	return filepath.Join(c.workspace, "initiatives")
}

// LedgerPath is the org's pull request ledger file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.workspace, c.GitHubOrg+".ledger.json")
}

// CheckResultsPath is the org's check results file.
func (c *Config) CheckResultsPath() string {
	return filepath.Join(c.workspace, c.GitHubOrg+".checks.json")
}

// ReportPath is the org's generated markdown report.
func (c *Config) ReportPath() string {
	return filepath.Join(c.workspace, c.GitHubOrg+".report.md")
}

// IsExcluded reports whether the repository name is configured out of
// the fleet. Excluded entries written as "org/name" match on the name
// alone.
func (c *Config) IsExcluded(name string) bool {
	for _, entry := range c.ExcludedRepos {
		if trimOrgPrefix(entry) == name {
			return true
		}
	}
	return false
}

func trimOrgPrefix(entry string) string {
	if _, name, found := strings.Cut(entry, "/"); found {
		return name
	}
	return entry
}

// Complete fills in any missing required field by prompting on out
// and reading answers from in. The token is read with echo disabled
// when in is a terminal. It returns true when anything was filled
// in, so the caller knows to save.
func (c *Config) Complete(in *os.File, out io.Writer) (bool, error) {
	reader := bufio.NewReader(in)
	changed := false

	prompt := func(label string, target *string) error {
		if *target != "" {
			return nil
		}
		fmt.Fprintf(out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("reading %s: %w", label, err)
		}
		*target = strings.TrimSpace(line)
		if *target == "" {
			return fmt.Errorf("%s must not be empty", label)
		}
		changed = true
		return nil
	}

	if err := prompt("GitHub username", &c.GitHubUser); err != nil {
		return changed, err
	}
	if err := prompt("GitHub organization", &c.GitHubOrg); err != nil {
		return changed, err
	}

	if c.GitHubToken == "" {
		if term.IsTerminal(int(in.Fd())) {
			fmt.Fprintf(out, "GitHub token (input hidden): ")
			secret, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return changed, fmt.Errorf("reading token: %w", err)
			}
			c.GitHubToken = strings.TrimSpace(string(secret))
			if c.GitHubToken == "" {
				return changed, fmt.Errorf("GitHub token must not be empty")
			}
			changed = true
		} else {
			if err := prompt("GitHub token", &c.GitHubToken); err != nil {
				return changed, err
			}
		}
	}

	return changed, nil
}
