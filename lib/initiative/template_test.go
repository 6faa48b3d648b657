// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSeedTemplate(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "initiatives")

	path, err := SeedTemplate(dir, "fix-logo")
	if err != nil {
		t.Fatalf("SeedTemplate: %v", err)
	}
	if path != filepath.Join(dir, "fix-logo.md") {
		t.Errorf("path = %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(content), "# fix-logo\n") {
		t.Errorf("template = %q, want title heading first", content)
	}
}

func TestSeedTemplate_NeverOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fix-logo.md")
	edited := "# Fix the logo\n\nDetailed description.\n"
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := SeedTemplate(dir, "fix-logo"); err != nil {
		t.Fatalf("SeedTemplate: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != edited {
		t.Errorf("template overwritten: %q", content)
	}
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fix-logo.md")
	content := "# Fix the logo\n\nFirst paragraph.\n\nSecond paragraph.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	title, body, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if title != "Fix the logo" {
		t.Errorf("title = %q, want %q", title, "Fix the logo")
	}
	if body != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("body = %q", body)
	}
}

func TestLoadTemplate_Missing(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestListTemplateBranches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"fix-logo.md", "fix-typo.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	branches, err := ListTemplateBranches(dir)
	if err != nil {
		t.Fatalf("ListTemplateBranches: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("branches = %v, want 2 entries", branches)
	}

	// A directory that does not exist yet is simply empty.
	branches, err = ListTemplateBranches(filepath.Join(dir, "missing"))
	if err != nil || branches != nil {
		t.Errorf("missing dir: branches = %v, err = %v, want nil, nil", branches, err)
	}
}
