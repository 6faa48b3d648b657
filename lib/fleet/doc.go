// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleet drives a set of cloned fork repositories through a
// shared change lifecycle. It discovers the clone inventory for an
// organization, probes each clone's branch and index state (always
// fresh — clone state is never cached between operations), applies
// lifecycle transitions (reset, branch, check, commit) via the git
// CLI, and fans per-clone operations out across a bounded worker pool
// that isolates failures.
//
// The executor is the only concurrency primitive in corral: every
// fleet-wide verb runs its per-clone operation through Run or Stream.
// Workers return results; they never write shared files themselves —
// ledger updates happen on the coordinating goroutine that consumes
// the outcomes.
package fleet
