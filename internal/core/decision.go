package core

import (
	"fmt"
	"sort"
	"strings"

	"depfresh/internal/types"
)

// BuildDecision aggregates per-dependency verdicts for one manifest into
// a single outcome with a human-readable report. Verdicts are reported
// in declaration order regardless of resolution order.
func BuildDecision(path string, eco types.Ecosystem, verdicts []types.StalenessVerdict) types.Decision {
	ordered := make([]types.StalenessVerdict, len(verdicts))
	copy(ordered, verdicts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Declaration.Index < ordered[j].Declaration.Index
	})

	decision := types.Decision{
		Outcome:  types.OutcomeAllow,
		Verdicts: ordered,
	}
	for _, verdict := range ordered {
		if severity := verdict.Diff.Severity(); severity > decision.Severity {
			decision.Severity = severity
		}
		switch verdict.Diff {
		case types.DiffUnknown:
			decision.Unknown = append(decision.Unknown, verdict.Declaration.Name)
		case types.DiffSame:
		default:
			decision.ReportLines = append(decision.ReportLines, reportLine(verdict))
		}
	}
	switch {
	case decision.Severity >= types.DiffMajor.Severity():
		decision.Outcome = types.OutcomeBlock
	case decision.Severity > 0:
		decision.Outcome = types.OutcomeWarn
	}
	decision.Report = renderReport(path, eco, decision, ordered)
	return decision
}

// reportLine names the package, its declared constraint, the latest
// published version, and flags major bumps.
func reportLine(verdict types.StalenessVerdict) string {
	decl := verdict.Declaration
	line := fmt.Sprintf("%s (%s): %s -> %s", decl.Name, decl.Group, decl.RawConstraint, verdict.Latest)
	if verdict.Diff == types.DiffMajor {
		line += " (MAJOR VERSION - check breaking changes!)"
	}
	return line
}

// renderReport assembles the full report text: outdated lines, update
// suggestions, and an advisory list of packages whose registry could
// not be reached.
func renderReport(path string, eco types.Ecosystem, decision types.Decision, ordered []types.StalenessVerdict) string {
	var lines []string
	if len(decision.ReportLines) > 0 {
		lines = append(lines, fmt.Sprintf("Found outdated dependencies in %s:", path), "")
		lines = append(lines, decision.ReportLines...)
		lines = append(lines, "", "To fix, update the versions:")
		for _, verdict := range ordered {
			if verdict.Diff == types.DiffSame || verdict.Diff == types.DiffUnknown {
				continue
			}
			suggestion := fmt.Sprintf("- Update to %s", updateSnippet(path, verdict.Declaration.Name, verdict.Latest))
			if verdict.Diff == types.DiffMajor {
				suggestion += fmt.Sprintf(" (review %s)", RegistryURL(eco, verdict.Declaration.Name))
			}
			lines = append(lines, suggestion)
		}
	}
	if len(decision.Unknown) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("Could not resolve latest version for: %s", strings.Join(decision.Unknown, ", ")))
	}
	return strings.Join(lines, "\n")
}

// updateSnippet renders a copy-pasteable fix in the manifest's own
// syntax.
func updateSnippet(path string, name string, latest string) string {
	switch {
	case strings.HasSuffix(path, "package.json"):
		return fmt.Sprintf("%s: %q", name, latest)
	case strings.HasSuffix(path, "requirements.txt"):
		return fmt.Sprintf("%s==%s", name, latest)
	case strings.HasSuffix(path, ".py"):
		return fmt.Sprintf("%s>=%s", name, latest)
	default:
		return fmt.Sprintf("%s = %q", name, latest)
	}
}

// RegistryURL points a reviewer at the package's registry page.
func RegistryURL(eco types.Ecosystem, name string) string {
	switch eco {
	case types.EcosystemCargo:
		return fmt.Sprintf("https://crates.io/crates/%s/versions", name)
	case types.EcosystemPip:
		return fmt.Sprintf("https://pypi.org/project/%s/", name)
	default:
		return fmt.Sprintf("https://www.npmjs.com/package/%s", name)
	}
}
