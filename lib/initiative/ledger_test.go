// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testObserved = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func testRecord(url string) PullRequestRecord {
	return PullRequestRecord{
		URL:       url,
		State:     "open",
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestLoadLedger_MissingFile(t *testing.T) {
	t.Parallel()

	ledger := LoadLedger(filepath.Join(t.TempDir(), "nope.json"))
	if len(ledger.Initiatives) != 0 {
		t.Errorf("missing file should load as empty ledger, got %v", ledger.Initiatives)
	}
}

func TestLoadLedger_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ledger := LoadLedger(path)
	if len(ledger.Initiatives) != 0 {
		t.Errorf("corrupt file should load as empty ledger, got %v", ledger.Initiatives)
	}
}

func TestMergePullRequest_AppendAndDedup(t *testing.T) {
	t.Parallel()

	ledger := LoadLedger(filepath.Join(t.TempDir(), "none.json"))

	record := testRecord("https://github.com/acme/widgets/pull/1")
	ledger.MergePullRequest("fix-logo", record, testObserved)

	if got := ledger.Initiatives["fix-logo"]; got == nil || !got.CreatedAt.Equal(testObserved) {
		t.Fatalf("initiative = %+v, want created at %v", got, testObserved)
	}

	// Merging the same URL again with refreshed mutable fields must not
	// duplicate the record, and must keep the original creation time.
	refreshed := record
	refreshed.State = "closed"
	refreshed.Merged = true
	refreshed.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) // later observation, ignored
	refreshed.Additions = 10
	ledger.MergePullRequest("fix-logo", refreshed, testObserved.Add(time.Hour))

	pulls := ledger.Initiatives["fix-logo"].PullRequests
	if len(pulls) != 1 {
		t.Fatalf("pull requests = %d, want 1", len(pulls))
	}
	if !pulls[0].Merged || pulls[0].State != "closed" || pulls[0].Additions != 10 {
		t.Errorf("mutable fields not refreshed: %+v", pulls[0])
	}
	if !pulls[0].CreatedAt.Equal(record.CreatedAt) {
		t.Errorf("CreatedAt = %v, want original %v", pulls[0].CreatedAt, record.CreatedAt)
	}
}

func TestMergePullRequest_DistinctURLs(t *testing.T) {
	t.Parallel()

	ledger := LoadLedger(filepath.Join(t.TempDir(), "none.json"))
	ledger.MergePullRequest("fix-logo", testRecord("https://github.com/acme/widgets/pull/1"), testObserved)
	ledger.MergePullRequest("fix-logo", testRecord("https://github.com/acme/gadgets/pull/2"), testObserved)

	if got := len(ledger.Initiatives["fix-logo"].PullRequests); got != 2 {
		t.Errorf("pull requests = %d, want 2", got)
	}
}

func TestLedger_SaveAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.json")

	ledger := LoadLedger(path)
	ledger.MergePullRequest("fix-logo", testRecord("https://github.com/acme/widgets/pull/1"), testObserved)
	if err := ledger.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A later run loads the file and accretes without losing the
	// earlier record — the on-disk ledger is always a superset.
	reloaded := LoadLedger(path)
	reloaded.MergePullRequest("fix-typo", testRecord("https://github.com/acme/widgets/pull/9"), testObserved)
	if err := reloaded.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	final := LoadLedger(path)
	if len(final.Initiatives) != 2 {
		t.Fatalf("initiatives = %d, want 2", len(final.Initiatives))
	}
	if final.PullRequestCount() != 2 {
		t.Errorf("PullRequestCount = %d, want 2", final.PullRequestCount())
	}
	if final.Initiatives["fix-logo"].PullRequests[0].URL != "https://github.com/acme/widgets/pull/1" {
		t.Errorf("fix-logo record lost: %+v", final.Initiatives["fix-logo"])
	}
}

func TestLedger_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")

	ledger := LoadLedger(path)
	ledger.MergePullRequest("fix-logo", testRecord("https://github.com/acme/widgets/pull/1"), testObserved)
	if err := ledger.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "ledger.json" {
		t.Errorf("directory contents = %v, want only ledger.json", entries)
	}
}
