package stlc

import (
	"fmt"
	"strings"
	"time"

	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/pipeline"
)

// FormatReviews renders each review under the files it covers. Reviews that
// name no files fall back to the names of the files that were sent.
func FormatReviews(reviews []backend.Review, sent []pipeline.File) string {
	names := make([]string, 0, len(sent))
	for _, f := range sent {
		names = append(names, f.Name)
	}
	fallback := strings.Join(names, "\n")

	parts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		files := r.Files
		if files == "" {
			files = fallback
		}
		parts = append(parts, fmt.Sprintf("## Files Analyzed\n%s\n\n## Review\n%s", files, r.Review))
	}
	return strings.Join(parts, "\n\n")
}

func FormatAnalysis(res *backend.RequirementAnalysisResult) string {
	if len(res.Analysis) == 0 {
		return res.Raw
	}
	parts := make([]string, 0, len(res.Analysis))
	for _, a := range res.Analysis {
		parts = append(parts, fmt.Sprintf("## Files Analyzed\n%s\n\n## Analysis\n%s", a.Files, a.Result))
	}
	return strings.Join(parts, "\n\n")
}

func FormatSetups(setups []string) string {
	var b strings.Builder
	b.WriteString("# Environment Setup\n")
	for i, s := range setups {
		fmt.Fprintf(&b, "\n## Setup %d\n%s\n", i+1, s)
	}
	return b.String()
}

func FormatScenarios(scenarios []backend.Scenario) string {
	var b strings.Builder
	b.WriteString("# Generated Test Scenarios\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "\n## %s\n%s\n", s.Title, s.Description)

		b.WriteString("\n### Prerequisites\n")
		for _, p := range s.Prerequisites {
			fmt.Fprintf(&b, "- %s\n", p)
		}

		b.WriteString("\n### Steps\n")
		for i, step := range s.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return b.String()
}

func FormatPlaceholder(processID string, at time.Time, fileCount int) string {
	return fmt.Sprintf("# %s Process Output\n\n"+
		"Successfully completed the %s process.\n\n"+
		"## Details\n"+
		"- Process ID: %s\n"+
		"- Timestamp: %s\n"+
		"- Files processed: %d\n\n"+
		"## Summary\n"+
		"All operations completed successfully with no errors.",
		processID, processID, processID, pipeline.Timestamp(at), fileCount)
}
