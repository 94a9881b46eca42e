package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"depfresh/internal/core"
	"depfresh/internal/types"
)

type CheckRequest struct {
	FilePath string
	Content  string
}

type CheckResult struct {
	Claimed   bool
	Ecosystem types.Ecosystem
	Decision  types.Decision
}

// Check runs the full pipeline for one written file: dispatch to an
// ecosystem checker, extract declarations, resolve latest versions with
// bounded parallelism, classify staleness, and aggregate the decision.
// Every failure mode inside the pipeline fails open: the worst case is
// an Allow with no verdicts.
func (s Service) Check(ctx context.Context, request CheckRequest) CheckResult {
	allow := CheckResult{Decision: types.Decision{Outcome: types.OutcomeAllow}}
	checker := s.Checkers.Dispatch(request.FilePath)
	if checker == nil {
		log.Debug().Str("path", request.FilePath).Msg("no checker claims file")
		return allow
	}
	eco := checker.Ecosystem()
	declarations, err := checker.ExtractDependencies(request.FilePath, request.Content)
	if err != nil {
		log.Warn().Err(err).Str("path", request.FilePath).Msg("manifest parse failed, allowing")
		return allow
	}
	if len(declarations) == 0 {
		return CheckResult{Claimed: true, Ecosystem: eco, Decision: allow.Decision}
	}

	verdicts := s.classify(ctx, eco, declarations)
	if err := s.Resolver.Flush(); err != nil {
		log.Warn().Err(err).Msg("failed to persist registry cache")
	}
	decision := core.BuildDecision(request.FilePath, eco, verdicts)
	return CheckResult{Claimed: true, Ecosystem: eco, Decision: decision}
}

// classify resolves and classifies each declaration. Lookups run in
// parallel up to the worker limit; each verdict lands in its
// declaration's slot so scheduling never changes the result.
func (s Service) classify(ctx context.Context, eco types.Ecosystem, declarations []types.DependencyDeclaration) []types.StalenessVerdict {
	verdicts := make([]types.StalenessVerdict, 0, len(declarations))
	targets := make([]int, 0, len(declarations))
	bases := make([]string, 0, len(declarations))
	for _, decl := range declarations {
		constraint, err := core.ParseConstraint(eco, decl.RawConstraint)
		if err != nil {
			log.Warn().Err(err).Str("package", decl.Name).Msg("unparseable constraint")
			verdicts = append(verdicts, types.StalenessVerdict{Declaration: decl, Diff: types.DiffUnknown})
			continue
		}
		if constraint.Version == "" {
			// Unpinned declarations have no base version to compare.
			continue
		}
		verdicts = append(verdicts, types.StalenessVerdict{Declaration: decl})
		targets = append(targets, len(verdicts)-1)
		bases = append(bases, constraint.Version)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.Workers)
	for i, slot := range targets {
		i, slot := i, slot
		group.Go(func() error {
			decl := verdicts[slot].Declaration
			latest, err := s.Resolver.Latest(groupCtx, eco, decl.Name)
			if err != nil {
				log.Warn().Err(err).Str("package", decl.Name).Msg("registry lookup failed")
				verdicts[slot].Diff = types.DiffUnknown
				return nil
			}
			diff, err := core.DiffClass(bases[i], latest)
			if err != nil {
				log.Warn().Err(err).Str("package", decl.Name).Msg("unparseable registry version")
				verdicts[slot].Diff = types.DiffUnknown
				return nil
			}
			verdicts[slot].Latest = latest
			verdicts[slot].Diff = diff
			return nil
		})
	}
	_ = group.Wait()
	return verdicts
}
