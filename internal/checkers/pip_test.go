package checkers

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"depfresh/internal/types"
)

const requirementsTxt = `# pinned runtime deps
requests==2.25.0
flask>=2.0,<3.0
uvicorn[standard]>=0.29.0

https://example.com/wheels/custom-1.0.0.whl
-e ./local
`

func TestPipExtractRequirements(t *testing.T) {
	checker := NewPipChecker()
	declarations, err := checker.ExtractDependencies("requirements.txt", requirementsTxt)
	require.NoError(t, err)

	want := []types.DependencyDeclaration{
		{Name: "requests", RawConstraint: "==2.25.0", Group: types.GroupRequirements, Index: 0},
		{Name: "flask", RawConstraint: ">=2.0,<3.0", Group: types.GroupRequirements, Index: 1},
		{Name: "uvicorn", RawConstraint: ">=0.29.0", Group: types.GroupRequirements, Index: 2},
	}
	if diff := cmp.Diff(want, declarations); diff != "" {
		t.Fatalf("unexpected declarations (-want +got):\n%s", diff)
	}
}

const pyprojectToml = `[project]
name = "demo"
dependencies = [
    "requests>=2.28",
    "pydantic==2.7.0",
    "plainname",
]

[project.optional-dependencies]
docs = ["sphinx>=7.0"]
test = ["pytest>=8.0"]
`

func TestPipExtractPyproject(t *testing.T) {
	checker := NewPipChecker()
	declarations, err := checker.ExtractDependencies("pyproject.toml", pyprojectToml)
	require.NoError(t, err)

	want := []types.DependencyDeclaration{
		{Name: "requests", RawConstraint: ">=2.28", Group: types.GroupProject, Index: 0},
		{Name: "pydantic", RawConstraint: "==2.7.0", Group: types.GroupProject, Index: 1},
		{Name: "sphinx", RawConstraint: ">=7.0", Group: types.DependencyGroup("optional[docs]"), Index: 2},
		{Name: "pytest", RawConstraint: ">=8.0", Group: types.DependencyGroup("optional[test]"), Index: 3},
	}
	if diff := cmp.Diff(want, declarations); diff != "" {
		t.Fatalf("unexpected declarations (-want +got):\n%s", diff)
	}
}

const inlineScript = `#!/usr/bin/env python3
# /// script
# dependencies = [
#     "httpx>=0.27.0",
#     "tomli>=2.2.1; python_version < '3.11'",
# ]
# ///
import httpx
`

func TestPipExtractInlineScript(t *testing.T) {
	checker := NewPipChecker()
	declarations, err := checker.ExtractDependencies("fetch.py", inlineScript)
	require.NoError(t, err)

	want := []types.DependencyDeclaration{
		{Name: "httpx", RawConstraint: ">=0.27.0", Group: types.GroupInline, Index: 0},
		{Name: "tomli", RawConstraint: ">=2.2.1", Group: types.GroupInline, Index: 1},
	}
	if diff := cmp.Diff(want, declarations); diff != "" {
		t.Fatalf("unexpected declarations (-want +got):\n%s", diff)
	}
}

func TestPipExtractScriptWithoutBlock(t *testing.T) {
	checker := NewPipChecker()
	declarations, err := checker.ExtractDependencies("plain.py", "import os\nprint(os.getcwd())\n")
	require.NoError(t, err)
	require.Empty(t, declarations)
}

func TestPipExtractMalformedPyproject(t *testing.T) {
	checker := NewPipChecker()
	_, err := checker.ExtractDependencies("pyproject.toml", "[project\ndependencies = ")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestPipCanHandle(t *testing.T) {
	checker := NewPipChecker()
	require.True(t, checker.CanHandle("requirements.txt"))
	require.True(t, checker.CanHandle("pyproject.toml"))
	require.True(t, checker.CanHandle("scripts/fetch.py"))
	require.False(t, checker.CanHandle("package.json"))
}
