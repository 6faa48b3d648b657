// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Console styling for the human-facing progress output the verbs
// print to stdout. lipgloss degrades to plain text when stdout is not
// a terminal, so piped output stays clean.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tipStyle     = lipgloss.NewStyle().Faint(true)
)

// Header renders a bold section heading.
func Header(format string, args ...any) string {
	return headerStyle.Render(fmt.Sprintf(format, args...))
}

// Warn renders an advisory the user should read but that does not
// stop the run.
func Warn(format string, args ...any) string {
	return warningStyle.Render("warning: " + fmt.Sprintf(format, args...))
}

// Fail renders a per-item failure line.
func Fail(format string, args ...any) string {
	return failureStyle.Render(fmt.Sprintf(format, args...))
}

// OK renders a success line.
func OK(format string, args ...any) string {
	return successStyle.Render(fmt.Sprintf(format, args...))
}

// Tip renders a faint hint suggesting the next command to run.
func Tip(format string, args ...any) string {
	return tipStyle.Render("tip: " + fmt.Sprintf(format, args...))
}
