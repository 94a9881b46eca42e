package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"depfresh/internal/types"
)

func verdict(name string, raw string, index int, latest string, diff types.DiffClass) types.StalenessVerdict {
	return types.StalenessVerdict{
		Declaration: types.DependencyDeclaration{
			Name:          name,
			RawConstraint: raw,
			Group:         types.GroupDependencies,
			Index:         index,
		},
		Latest: latest,
		Diff:   diff,
	}
}

func TestBuildDecisionBlocksOnMajor(t *testing.T) {
	decision := BuildDecision("Cargo.toml", types.EcosystemCargo, []types.StalenessVerdict{
		verdict("serde", "1.0.100", 0, "2.0.0", types.DiffMajor),
	})
	require.Equal(t, types.OutcomeBlock, decision.Outcome)
	require.Len(t, decision.ReportLines, 1)
	require.Contains(t, decision.ReportLines[0], "serde")
	require.Contains(t, decision.ReportLines[0], "MAJOR VERSION")
	require.Contains(t, decision.Report, "https://crates.io/crates/serde/versions")
}

func TestBuildDecisionWarnsOnMinorOrPatch(t *testing.T) {
	decision := BuildDecision("requirements.txt", types.EcosystemPip, []types.StalenessVerdict{
		verdict("requests", "==2.25.0", 0, "2.31.0", types.DiffMinor),
		verdict("flask", "==2.0.0", 1, "2.0.1", types.DiffPatch),
	})
	require.Equal(t, types.OutcomeWarn, decision.Outcome)
	require.Len(t, decision.ReportLines, 2)
	require.Contains(t, decision.Report, "requests==2.31.0")
}

func TestBuildDecisionAllowsWhenSame(t *testing.T) {
	decision := BuildDecision("package.json", types.EcosystemNode, []types.StalenessVerdict{
		verdict("lodash", "4.17.21", 0, "4.17.21", types.DiffSame),
	})
	require.Equal(t, types.OutcomeAllow, decision.Outcome)
	require.Empty(t, decision.ReportLines)
	require.Empty(t, decision.Report)
}

// Unknown verdicts never escalate the outcome; they only show up as an
// advisory.
func TestBuildDecisionUnknownIsAdvisory(t *testing.T) {
	decision := BuildDecision("package.json", types.EcosystemNode, []types.StalenessVerdict{
		verdict("lodash", "4.17.21", 0, "4.17.21", types.DiffSame),
		verdict("left-pad", "^1.3.0", 1, "", types.DiffUnknown),
	})
	require.Equal(t, types.OutcomeAllow, decision.Outcome)
	require.Empty(t, decision.ReportLines)
	require.Equal(t, []string{"left-pad"}, decision.Unknown)
	require.Contains(t, decision.Report, "Could not resolve latest version for: left-pad")
}

// Report lines follow declaration order even when verdicts arrive
// shuffled by concurrent resolution.
func TestBuildDecisionOrdersByDeclaration(t *testing.T) {
	decision := BuildDecision("requirements.txt", types.EcosystemPip, []types.StalenessVerdict{
		verdict("zulu", "==1.0.0", 2, "1.1.0", types.DiffMinor),
		verdict("alpha", "==1.0.0", 0, "1.1.0", types.DiffMinor),
		verdict("mike", "==1.0.0", 1, "1.1.0", types.DiffMinor),
	})
	require.Equal(t, 3, len(decision.ReportLines))
	require.True(t, strings.HasPrefix(decision.ReportLines[0], "alpha"))
	require.True(t, strings.HasPrefix(decision.ReportLines[1], "mike"))
	require.True(t, strings.HasPrefix(decision.ReportLines[2], "zulu"))
}
