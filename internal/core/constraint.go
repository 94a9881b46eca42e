package core

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"depfresh/internal/types"
)

// Constraint is a parsed version constraint: an operator plus the base
// version it anchors on. Upper is set only for hyphen ranges.
type Constraint struct {
	Op      types.ConstraintOp
	Version string
	Upper   string
}

// String re-serializes the constraint into a form the same parser
// accepts.
func (c Constraint) String() string {
	switch c.Op {
	case types.ConstraintOpNone:
		return c.Version
	case types.ConstraintOpRange:
		return fmt.Sprintf("%s - %s", c.Version, c.Upper)
	default:
		return string(c.Op) + c.Version
	}
}

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. ">=" before ">", "~=" before "~").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpEq2,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq,
	types.ConstraintOpCaret,
	types.ConstraintOpTilde,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// splitOp strips a leading operator token from the expression.
func splitOp(raw string) (types.ConstraintOp, string) {
	for _, op := range opTokens {
		if strings.HasPrefix(raw, string(op)) {
			return op, strings.TrimSpace(strings.TrimPrefix(raw, string(op)))
		}
	}
	return types.ConstraintOpNone, raw
}

// normalizeWildcard rewrites trailing .x / .* placeholders to .0 so the
// base version stays numerically comparable (1.2.x -> 1.2.0).
func normalizeWildcard(value string) string {
	for strings.HasSuffix(value, ".x") || strings.HasSuffix(value, ".X") || strings.HasSuffix(value, ".*") {
		value = value[:len(value)-2] + ".0"
	}
	return value
}

func constraintParseError(raw string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

// ParseConstraint dispatches to the grammar-specific parser for the
// ecosystem.
func ParseConstraint(eco types.Ecosystem, raw string) (Constraint, error) {
	switch eco {
	case types.EcosystemNode:
		return ParseNodeConstraint(raw)
	case types.EcosystemCargo:
		return ParseCargoConstraint(raw)
	case types.EcosystemPip:
		return ParsePipConstraint(raw)
	default:
		return Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported ecosystem: %s", eco))
	}
}

// ParseNodeConstraint parses an npm-style range expression. Bare
// wildcards yield ConstraintOpNone with an empty base version; callers
// treat those as unpinned and skip them.
func ParseNodeConstraint(raw string) (Constraint, error) {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "", "*", "x", "X", "latest":
		return Constraint{Op: types.ConstraintOpNone}, nil
	}
	if strings.Contains(trimmed, " - ") {
		parts := strings.SplitN(trimmed, " - ", 2)
		lower := normalizeWildcard(strings.TrimSpace(parts[0]))
		upper := normalizeWildcard(strings.TrimSpace(parts[1]))
		if _, err := semver.NewConstraint(trimmed); err != nil {
			return Constraint{}, constraintParseError(raw, err)
		}
		return Constraint{Op: types.ConstraintOpRange, Version: lower, Upper: upper}, nil
	}
	op, rest := splitOp(trimmed)
	base := normalizeWildcard(rest)
	if _, err := semver.NewVersion(base); err != nil {
		return Constraint{}, constraintParseError(raw, err)
	}
	if _, err := semver.NewConstraint(trimmed); err != nil {
		return Constraint{}, constraintParseError(raw, err)
	}
	if op == types.ConstraintOpNone {
		op = types.ConstraintOpEq
	}
	return Constraint{Op: op, Version: base}, nil
}

// ParseCargoConstraint parses a Cargo requirement. A bare version
// implies caret semantics; comma-joined requirements anchor on the
// first member.
func ParseCargoConstraint(raw string) (Constraint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "*" {
		return Constraint{Op: types.ConstraintOpNone}, nil
	}
	members := strings.Split(trimmed, ",")
	first := Constraint{}
	for i, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			return Constraint{}, constraintParseError(raw, nil)
		}
		op, rest := splitOp(member)
		base := normalizeWildcard(rest)
		if _, err := semver.NewVersion(base); err != nil {
			return Constraint{}, constraintParseError(raw, err)
		}
		if op == types.ConstraintOpNone {
			op = types.ConstraintOpCaret
		}
		if i == 0 {
			first = Constraint{Op: op, Version: base}
		}
	}
	return first, nil
}

// ParsePipConstraint parses a PEP 440 specifier set. All members are
// validated; the base version comes from the first specifier.
func ParsePipConstraint(raw string) (Constraint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Constraint{Op: types.ConstraintOpNone}, nil
	}
	if _, err := pep440.NewSpecifiers(trimmed); err != nil {
		return Constraint{}, constraintParseError(raw, err)
	}
	first := strings.TrimSpace(strings.Split(trimmed, ",")[0])
	op, rest := splitOp(first)
	base := strings.TrimSuffix(rest, ".*")
	if op == types.ConstraintOpNone {
		return Constraint{Op: types.ConstraintOpNone, Version: base}, nil
	}
	return Constraint{Op: op, Version: base}, nil
}
