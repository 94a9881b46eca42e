package checkers

import (
	"strings"

	"github.com/BurntSushi/toml"

	"depfresh/internal/types"
)

// CargoChecker extracts declarations from Cargo.toml manifests.
type CargoChecker struct{}

func NewCargoChecker() CargoChecker {
	return CargoChecker{}
}

func (CargoChecker) Ecosystem() types.Ecosystem {
	return types.EcosystemCargo
}

func (CargoChecker) CanHandle(path string) bool {
	return strings.HasSuffix(path, "Cargo.toml")
}

// cargoGroups maps dependency table names to reporting groups.
var cargoGroups = map[string]types.DependencyGroup{
	"dependencies":       types.GroupDependencies,
	"dev-dependencies":   types.GroupCargoDev,
	"build-dependencies": types.GroupCargoBuild,
}

func (CargoChecker) ExtractDependencies(path string, content string) ([]types.DependencyDeclaration, error) {
	var document map[string]interface{}
	meta, err := toml.Decode(content, &document)
	if err != nil {
		return nil, manifestParseError(path, err)
	}
	var declarations []types.DependencyDeclaration
	seen := map[string]struct{}{}
	// meta.Keys() yields keys in source order, which keeps the report
	// deterministic for a given manifest.
	for _, key := range meta.Keys() {
		parts := []string(key)
		var group types.DependencyGroup
		var table string
		var name string
		switch {
		case len(parts) == 2:
			table, name = parts[0], parts[1]
			mapped, ok := cargoGroups[table]
			if !ok {
				continue
			}
			group = mapped
		case len(parts) == 3 && parts[0] == "workspace" && parts[1] == "dependencies":
			table, name = "workspace", parts[2]
			group = types.GroupCargoWorkspace
		default:
			continue
		}
		dedupeKey := table + "/" + name
		if _, dup := seen[dedupeKey]; dup {
			continue
		}
		seen[dedupeKey] = struct{}{}
		requirement, ok := cargoRequirement(document, parts)
		if !ok {
			continue
		}
		declarations = append(declarations, types.DependencyDeclaration{
			Name:          name,
			RawConstraint: requirement,
			Group:         group,
			Index:         len(declarations),
		})
	}
	return declarations, nil
}

// cargoRequirement digs the version requirement out of a dependency
// value, which is either a bare string or a table with a version key.
// Path, git, and workspace-inherited dependencies carry no registry
// version and are skipped.
func cargoRequirement(document map[string]interface{}, keyPath []string) (string, bool) {
	var value interface{} = document
	for _, part := range keyPath {
		table, ok := value.(map[string]interface{})
		if !ok {
			return "", false
		}
		value, ok = table[part]
		if !ok {
			return "", false
		}
	}
	switch typed := value.(type) {
	case string:
		return typed, typed != ""
	case map[string]interface{}:
		if inherits, ok := typed["workspace"].(bool); ok && inherits {
			return "", false
		}
		if _, ok := typed["path"]; ok {
			return "", false
		}
		if _, ok := typed["git"]; ok {
			return "", false
		}
		version, ok := typed["version"].(string)
		return version, ok && version != ""
	default:
		return "", false
	}
}
