package checkers

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"depfresh/internal/types"
)

// PipChecker extracts declarations from requirements.txt,
// pyproject.toml, and Python scripts carrying a PEP 723 inline
// metadata block.
type PipChecker struct{}

func NewPipChecker() PipChecker {
	return PipChecker{}
}

func (PipChecker) Ecosystem() types.Ecosystem {
	return types.EcosystemPip
}

func (PipChecker) CanHandle(path string) bool {
	return strings.HasSuffix(path, "requirements.txt") ||
		strings.HasSuffix(path, "pyproject.toml") ||
		strings.HasSuffix(path, ".py")
}

func (c PipChecker) ExtractDependencies(path string, content string) ([]types.DependencyDeclaration, error) {
	switch {
	case strings.HasSuffix(path, "requirements.txt"):
		return c.extractRequirements(content), nil
	case strings.HasSuffix(path, "pyproject.toml"):
		return c.extractPyproject(path, content)
	default:
		return c.extractInlineScript(path, content)
	}
}

// requirementPattern splits "name[extras] specifiers" requirement lines.
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)(?:\[[^\]]+\])?\s*([><=~!].*)$`)

// requirementConstraint drops an environment marker from a specifier
// ("{specs}; python_version < '3.11'" keeps only the specs).
func requirementConstraint(spec string) string {
	return strings.TrimSpace(strings.Split(spec, ";")[0])
}

// skipPipRequirement filters lines and entries that do not name a
// registry package: URLs, local paths, editable installs, direct
// references.
func skipPipRequirement(value string) bool {
	for _, marker := range []string{"http://", "https://", "git+", "file://", "@", "/", "\\"} {
		if strings.Contains(value, marker) {
			return true
		}
	}
	return strings.HasPrefix(value, "-e ")
}

func (PipChecker) extractRequirements(content string) []types.DependencyDeclaration {
	var declarations []types.DependencyDeclaration
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || skipPipRequirement(line) {
			continue
		}
		match := requirementPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		declarations = append(declarations, types.DependencyDeclaration{
			Name:          match[1],
			RawConstraint: requirementConstraint(match[2]),
			Group:         types.GroupRequirements,
			Index:         len(declarations),
		})
	}
	return declarations
}

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

func (PipChecker) extractPyproject(path string, content string) ([]types.DependencyDeclaration, error) {
	var document pyprojectFile
	meta, err := toml.Decode(content, &document)
	if err != nil {
		return nil, manifestParseError(path, err)
	}
	var declarations []types.DependencyDeclaration
	appendRequirement := func(entry string, group types.DependencyGroup) {
		if skipPipRequirement(entry) {
			return
		}
		match := requirementPattern.FindStringSubmatch(strings.TrimSpace(entry))
		if match == nil {
			// Bare names carry no base version to classify against.
			return
		}
		declarations = append(declarations, types.DependencyDeclaration{
			Name:          match[1],
			RawConstraint: requirementConstraint(match[2]),
			Group:         group,
			Index:         len(declarations),
		})
	}
	for _, entry := range document.Project.Dependencies {
		appendRequirement(entry, types.GroupProject)
	}
	for _, groupName := range optionalGroupOrder(meta) {
		for _, entry := range document.Project.OptionalDependencies[groupName] {
			appendRequirement(entry, types.DependencyGroup("optional["+groupName+"]"))
		}
	}
	return declarations, nil
}

// optionalGroupOrder returns the optional-dependency group names in
// source order.
func optionalGroupOrder(meta toml.MetaData) []string {
	var order []string
	seen := map[string]struct{}{}
	for _, key := range meta.Keys() {
		parts := []string(key)
		if len(parts) != 3 || parts[0] != "project" || parts[1] != "optional-dependencies" {
			continue
		}
		if _, dup := seen[parts[2]]; dup {
			continue
		}
		seen[parts[2]] = struct{}{}
		order = append(order, parts[2])
	}
	return order
}

const (
	inlineBlockOpen  = "# /// script"
	inlineBlockClose = "# ///"
)

type inlineMetadata struct {
	Dependencies []string `toml:"dependencies"`
}

// extractInlineScript reads a PEP 723 metadata block embedded as a
// comment inside a Python script. A script without a block yields no
// declarations; a block with invalid TOML is a manifest parse error.
func (PipChecker) extractInlineScript(path string, content string) ([]types.DependencyDeclaration, error) {
	var blockLines []string
	inBlock := false
	closed := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == inlineBlockOpen && !inBlock:
			inBlock = true
		case trimmed == inlineBlockClose && inBlock:
			closed = true
		case inBlock && !closed && strings.HasPrefix(trimmed, "#"):
			blockLines = append(blockLines, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
		}
		if closed {
			break
		}
	}
	if !closed || len(blockLines) == 0 {
		return nil, nil
	}
	var metadata inlineMetadata
	if _, err := toml.Decode(strings.Join(blockLines, "\n"), &metadata); err != nil {
		return nil, manifestParseError(path, err)
	}
	var declarations []types.DependencyDeclaration
	for _, entry := range metadata.Dependencies {
		if skipPipRequirement(entry) {
			continue
		}
		match := requirementPattern.FindStringSubmatch(strings.TrimSpace(entry))
		if match == nil {
			continue
		}
		declarations = append(declarations, types.DependencyDeclaration{
			Name:          match[1],
			RawConstraint: requirementConstraint(match[2]),
			Group:         types.GroupInline,
			Index:         len(declarations),
		})
	}
	return declarations, nil
}
