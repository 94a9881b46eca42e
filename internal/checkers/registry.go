// Package checkers holds the per-ecosystem manifest checkers and the
// ordered registry that dispatches files to them. Adding an ecosystem
// means implementing ports.ManifestChecker and appending it to the
// default registration list; nothing else changes.
package checkers

import (
	"depfresh/internal/ports"
)

// Registry is the fixed, ordered set of available checkers. The first
// checker to claim a path wins, so registration order is part of the
// observable behavior.
type Registry struct {
	checkers []ports.ManifestChecker
}

// NewRegistry builds a registry with the given checkers in dispatch
// order.
func NewRegistry(registered ...ports.ManifestChecker) Registry {
	return Registry{checkers: registered}
}

// DefaultRegistry returns the stock registration list: Cargo, Node,
// Pip. Pip goes last because its .py claim is the broadest.
func DefaultRegistry() Registry {
	return NewRegistry(
		NewCargoChecker(),
		NewNodeChecker(),
		NewPipChecker(),
	)
}

// Dispatch returns the first checker claiming the path, or nil when no
// ecosystem owns it.
func (r Registry) Dispatch(path string) ports.ManifestChecker {
	for _, checker := range r.checkers {
		if checker.CanHandle(path) {
			return checker
		}
	}
	return nil
}

// Checkers exposes the registration list in dispatch order.
func (r Registry) Checkers() []ports.ManifestChecker {
	return r.checkers
}
