// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the corral command tree: nested commands
// with pflag flag sets, structured help output, typo suggestions for
// unknown commands and flags, exit-code plumbing, the command logger,
// and the styled console output helpers the verbs print progress with.
package cli
