package ports

import "depfresh/internal/types"

// ManifestChecker is the per-ecosystem plugin contract. Implementations
// are pure parsers: they claim manifest paths and extract declarations,
// never touching the network.
type ManifestChecker interface {
	Ecosystem() types.Ecosystem
	CanHandle(path string) bool
	ExtractDependencies(path string, content string) ([]types.DependencyDeclaration, error)
}
