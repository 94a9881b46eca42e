package types

type Ecosystem string

const (
	EcosystemNode  Ecosystem = "node"
	EcosystemCargo Ecosystem = "cargo"
	EcosystemPip   Ecosystem = "pip"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpCaret  ConstraintOp = "^"
	ConstraintOpTilde  ConstraintOp = "~"
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
	ConstraintOpRange  ConstraintOp = "-"
)

// DiffClass ranks how far a declared base version lags the registry's
// latest. Unknown means the latest version could not be determined.
type DiffClass string

const (
	DiffUnknown DiffClass = "unknown"
	DiffSame    DiffClass = "same"
	DiffPatch   DiffClass = "patch"
	DiffMinor   DiffClass = "minor"
	DiffMajor   DiffClass = "major"
)

// Severity orders diff classes for aggregation. Unknown carries no
// severity so unreachable registries never escalate the outcome.
func (d DiffClass) Severity() int {
	switch d {
	case DiffPatch:
		return 1
	case DiffMinor:
		return 2
	case DiffMajor:
		return 3
	default:
		return 0
	}
}

type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeWarn  Outcome = "warn"
	OutcomeBlock Outcome = "block"
)
