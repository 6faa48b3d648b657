// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package initiative tracks cross-repository change initiatives: the
// durable ledger of pull requests opened per initiative branch, the
// per-(clone, file) check results recorded by the check verb, the pull
// request template seeded when a branch is created, and the generated
// markdown report.
//
// All persistence in this package is accretive: loading tolerates
// missing or unparseable files by starting empty, merging never
// discards previously recorded facts, and every save goes through a
// temp-file rename so an interrupted run leaves the previous contents
// intact rather than a torn write.
package initiative
