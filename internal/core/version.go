package core

import (
	"fmt"
	"regexp"
	"strconv"

	semver "github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"depfresh/internal/types"
)

// versionCache memoizes parsed version objects to avoid repeated parsing
// during comparison and classification.
type versionCache struct {
	eco types.Ecosystem
	sem map[string]*semver.Version
	pep map[string]pep440.Version
}

// newVersionCache creates an empty cache for the given ecosystem grammar.
func newVersionCache(eco types.Ecosystem) *versionCache {
	return &versionCache{
		eco: eco,
		sem: map[string]*semver.Version{},
		pep: map[string]pep440.Version{},
	}
}

// semVersion returns a parsed semantic version, caching the result.
func (c *versionCache) semVersion(value string) (*semver.Version, error) {
	if parsed, ok := c.sem[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version: %s", value)).
			WithCause(err)
	}
	c.sem[value] = parsed
	return parsed, nil
}

// pepVersion returns a parsed PEP 440 version, caching the result.
func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version: %s", value)).
			WithCause(err)
	}
	c.pep[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1 comparing two version strings using the
// cache's ecosystem grammar.
func (c *versionCache) compare(a string, b string) (int, error) {
	switch c.eco {
	case types.EcosystemPip:
		v1, err := c.pepVersion(a)
		if err != nil {
			return 0, err
		}
		v2, err := c.pepVersion(b)
		if err != nil {
			return 0, err
		}
		return v1.Compare(v2), nil
	default:
		v1, err := c.semVersion(a)
		if err != nil {
			return 0, err
		}
		v2, err := c.semVersion(b)
		if err != nil {
			return 0, err
		}
		return v1.Compare(v2), nil
	}
}

// CompareVersions returns -1, 0, or 1 ordering a against b under the
// ecosystem's versioning grammar (semver for node and cargo, PEP 440
// for pip).
func CompareVersions(eco types.Ecosystem, a string, b string) (int, error) {
	return newVersionCache(eco).compare(a, b)
}

// releasePattern captures the leading numeric release fields of a
// version string. Pre-release and build suffixes are ignored for
// classification; they still participate in grammar-level comparison.
var releasePattern = regexp.MustCompile(`^[vV]?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// numericRelease extracts (major, minor, patch) from a version string.
// Missing fields compare as 0.
func numericRelease(value string) ([3]uint64, error) {
	match := releasePattern.FindStringSubmatch(value)
	if match == nil {
		return [3]uint64{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version: %s", value))
	}
	var fields [3]uint64
	for i := 0; i < 3; i++ {
		if match[i+1] == "" {
			continue
		}
		parsed, err := strconv.ParseUint(match[i+1], 10, 64)
		if err != nil {
			return [3]uint64{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version: %s", value)).
				WithCause(err)
		}
		fields[i] = parsed
	}
	return fields, nil
}

// DiffClass returns the most significant numeric position at which the
// declared base version differs from the registry's latest. It is
// deliberately grammar independent: the policy compares current against
// latest, not whether the declared constraint is still satisfied.
func DiffClass(base string, latest string) (types.DiffClass, error) {
	baseFields, err := numericRelease(base)
	if err != nil {
		return types.DiffUnknown, err
	}
	latestFields, err := numericRelease(latest)
	if err != nil {
		return types.DiffUnknown, err
	}
	switch {
	case baseFields[0] != latestFields[0]:
		return types.DiffMajor, nil
	case baseFields[1] != latestFields[1]:
		return types.DiffMinor, nil
	case baseFields[2] != latestFields[2]:
		return types.DiffPatch, nil
	default:
		return types.DiffSame, nil
	}
}
