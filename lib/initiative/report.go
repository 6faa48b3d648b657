// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package initiative

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// StatusGlyph renders a pull request's state as the report's status
// column: merged wins, then closed, then a failed mergeability check,
// and anything else is simply open.
func StatusGlyph(record PullRequestRecord) string {
	switch {
	case record.Merged:
		return "🟢 merged"
	case record.State == "closed":
		return "🔴 closed"
	case record.Mergeable != nil && !*record.Mergeable:
		return "⛔️ conflict"
	default:
		return "🔵 open"
	}
}

// WriteReport regenerates the human-readable markdown report for an
// organization from the ledger: one section per initiative quoting its
// PR template, followed by a table of that initiative's pull requests
// with status glyphs. The report is a full projection of the ledger —
// regenerating it is always safe.
func WriteReport(path, org string, ledger *Ledger, templateDir string, generatedAt time.Time) error {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# Corral report for `%s` org\n", org)
	fmt.Fprintf(&builder, "\nGenerated %s.\n", generatedAt.Format(time.RFC3339))
	fmt.Fprintf(&builder, "\nFound %d pull requests across %d initiatives.\n",
		ledger.PullRequestCount(), len(ledger.Initiatives))

	branches := ledger.Branches()
	slices.Sort(branches)

	for _, branch := range branches {
		entry := ledger.Initiatives[branch]
		fmt.Fprintf(&builder, "\n## %s\n", branch)

		if quoted := quotedTemplate(TemplatePath(templateDir, branch)); quoted != "" {
			builder.WriteString("\n" + quoted + "\n")
		}

		builder.WriteString("\n| PR  | Created | Status |\n")
		builder.WriteString("| --- | ------- | ------ |\n")
		for _, record := range entry.PullRequests {
			fmt.Fprintf(&builder, "| [%s](%s) | %s | %s |\n",
				shortenPullURL(record.URL), record.URL,
				record.CreatedAt.Format(time.RFC3339), StatusGlyph(record))
		}

		builder.WriteString("\n---\n")
	}

	return writeFileAtomic(path, []byte(builder.String()))
}

// quotedTemplate renders an initiative's PR template as a markdown
// blockquote with its headings demoted two levels, so the report's own
// structure stays intact. Returns "" when the template is missing.
func quotedTemplate(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(string(data))
	text = strings.ReplaceAll(text, "\n#", "\n###")
	if strings.HasPrefix(text, "#") {
		text = "##" + text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

// shortenPullURL turns a PR URL into its conventional short form,
// e.g. https://github.com/acme/widgets/pull/7 → acme/widgets#7.
func shortenPullURL(url string) string {
	short := strings.TrimPrefix(url, "https://github.com/")
	return strings.Replace(short, "/pull/", "#", 1)
}
