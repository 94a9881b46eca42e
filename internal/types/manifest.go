package types

// Manifest is a dependency-declaring file as delivered by the hook
// event. It lives for one invocation only.
type Manifest struct {
	Path      string
	Content   string
	Ecosystem Ecosystem
}

// DependencyDeclaration is one declared dependency extracted from a
// manifest. Index records the source-order position across the whole
// manifest so reports stay deterministic.
type DependencyDeclaration struct {
	Name          string
	RawConstraint string
	Group         DependencyGroup
	Index         int
}

// DependencyGroup labels where in the manifest a declaration was found
// (e.g. devDependencies, optional[docs]). Preserved for reporting; it
// never influences the decision policy.
type DependencyGroup string

const (
	GroupDependencies     DependencyGroup = "dependencies"
	GroupDevDependencies  DependencyGroup = "devDependencies"
	GroupPeerDependencies DependencyGroup = "peerDependencies"
	GroupOptionalDeps     DependencyGroup = "optionalDependencies"
	GroupCargoDev         DependencyGroup = "dev-dependencies"
	GroupCargoBuild       DependencyGroup = "build-dependencies"
	GroupCargoWorkspace   DependencyGroup = "workspace.dependencies"
	GroupRequirements     DependencyGroup = "requirements"
	GroupProject          DependencyGroup = "project"
	GroupInline           DependencyGroup = "inline"
	GroupUnknown          DependencyGroup = "unknown"
)
