package types

import "time"

// ResolvedVersion is the latest published version of a package as
// reported by its registry.
type ResolvedVersion struct {
	Ecosystem Ecosystem
	Name      string
	Version   string
	FetchedAt time.Time
}

// StalenessVerdict classifies one declaration against the registry's
// latest version. Latest is empty when Diff is DiffUnknown.
type StalenessVerdict struct {
	Declaration DependencyDeclaration
	Latest      string
	Diff        DiffClass
}

// Decision is the aggregated result for one manifest. It is computed
// once per invocation and never mutated afterwards.
type Decision struct {
	Outcome     Outcome
	Severity    int
	Verdicts    []StalenessVerdict
	ReportLines []string
	Unknown     []string
	Report      string
}
