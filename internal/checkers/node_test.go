package checkers

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"depfresh/internal/types"
)

const packageJSON = `{
  "name": "demo",
  "version": "0.1.0",
  "scripts": {"build": "tsc"},
  "dependencies": {
    "lodash": "4.17.21",
    "express": "^4.18.0",
    "local-lib": "file:../local-lib",
    "forked": "git+https://github.com/acme/forked.git",
    "anything": "*"
  },
  "devDependencies": {
    "typescript": "~5.4.0"
  },
  "peerDependencies": {
    "react": ">=18"
  }
}`

func TestNodeExtractDependencies(t *testing.T) {
	checker := NewNodeChecker()
	declarations, err := checker.ExtractDependencies("package.json", packageJSON)
	require.NoError(t, err)

	want := []types.DependencyDeclaration{
		{Name: "lodash", RawConstraint: "4.17.21", Group: types.GroupDependencies, Index: 0},
		{Name: "express", RawConstraint: "^4.18.0", Group: types.GroupDependencies, Index: 1},
		{Name: "typescript", RawConstraint: "~5.4.0", Group: types.GroupDevDependencies, Index: 2},
		{Name: "react", RawConstraint: ">=18", Group: types.GroupPeerDependencies, Index: 3},
	}
	if diff := cmp.Diff(want, declarations); diff != "" {
		t.Fatalf("unexpected declarations (-want +got):\n%s", diff)
	}
}

func TestNodeExtractFragment(t *testing.T) {
	checker := NewNodeChecker()
	declarations, err := checker.ExtractDependencies("package.json", `"express": "4.17.1",`)
	require.NoError(t, err)
	require.Len(t, declarations, 1)
	require.Equal(t, "express", declarations[0].Name)
	require.Equal(t, "4.17.1", declarations[0].RawConstraint)
	require.Equal(t, types.GroupUnknown, declarations[0].Group)
}

func TestNodeExtractMalformed(t *testing.T) {
	checker := NewNodeChecker()
	_, err := checker.ExtractDependencies("package.json", `{"dependencies": {"a": `)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNodeCanHandle(t *testing.T) {
	checker := NewNodeChecker()
	require.True(t, checker.CanHandle("frontend/package.json"))
	require.False(t, checker.CanHandle("Cargo.toml"))
	require.False(t, checker.CanHandle("package-lock.json"))
}
