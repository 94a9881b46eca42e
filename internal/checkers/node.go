package checkers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depfresh/internal/types"
)

// NodeChecker extracts declarations from package.json manifests.
type NodeChecker struct{}

func NewNodeChecker() NodeChecker {
	return NodeChecker{}
}

func (NodeChecker) Ecosystem() types.Ecosystem {
	return types.EcosystemNode
}

func (NodeChecker) CanHandle(path string) bool {
	return strings.HasSuffix(path, "package.json")
}

// nodeGroups maps the package.json sections that declare dependencies,
// in the order they are commonly written. Section order in the manifest
// itself wins; this map only classifies.
var nodeGroups = map[string]types.DependencyGroup{
	"dependencies":         types.GroupDependencies,
	"devDependencies":      types.GroupDevDependencies,
	"peerDependencies":     types.GroupPeerDependencies,
	"optionalDependencies": types.GroupOptionalDeps,
}

// fragmentPattern recognizes a single `"name": "spec"` line, the shape
// an edit event delivers when only one dependency line changed.
var fragmentPattern = regexp.MustCompile(`^"([^"]+)":\s*"([^"]+)"`)

func (NodeChecker) ExtractDependencies(path string, content string) ([]types.DependencyDeclaration, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		if match := fragmentPattern.FindStringSubmatch(trimmed); match != nil && !skipNodeSpec(match[2]) {
			return []types.DependencyDeclaration{{
				Name:          match[1],
				RawConstraint: match[2],
				Group:         types.GroupUnknown,
				Index:         0,
			}}, nil
		}
		return nil, nil
	}

	decoder := json.NewDecoder(strings.NewReader(content))
	decoder.UseNumber()
	if err := expectDelim(decoder, '{'); err != nil {
		return nil, manifestParseError(path, err)
	}
	var declarations []types.DependencyDeclaration
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, manifestParseError(path, err)
		}
		key, _ := keyToken.(string)
		group, isGroup := nodeGroups[key]
		if !isGroup {
			if err := skipJSONValue(decoder); err != nil {
				return nil, manifestParseError(path, err)
			}
			continue
		}
		entries, err := decodeNodeGroup(decoder)
		if err != nil {
			return nil, manifestParseError(path, err)
		}
		for _, entry := range entries {
			if skipNodeSpec(entry.spec) {
				continue
			}
			declarations = append(declarations, types.DependencyDeclaration{
				Name:          entry.name,
				RawConstraint: entry.spec,
				Group:         group,
				Index:         len(declarations),
			})
		}
	}
	if _, err := decoder.Token(); err != nil {
		return nil, manifestParseError(path, err)
	}
	return declarations, nil
}

type nodeEntry struct {
	name string
	spec string
}

// decodeNodeGroup reads one dependency object, preserving key order.
func decodeNodeGroup(decoder *json.Decoder) ([]nodeEntry, error) {
	if err := expectDelim(decoder, '{'); err != nil {
		return nil, err
	}
	var entries []nodeEntry
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyToken.(string)
		valueToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		if spec, ok := valueToken.(string); ok {
			entries = append(entries, nodeEntry{name: name, spec: spec})
			continue
		}
		if delim, ok := valueToken.(json.Delim); ok && (delim == '{' || delim == '[') {
			if err := skipJSONContainer(decoder, delim); err != nil {
				return nil, err
			}
		}
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

// skipNodeSpec filters specs that name no registry version: local
// paths, git references, workspace links, and bare wildcards.
func skipNodeSpec(spec string) bool {
	switch {
	case spec == "*" || spec == "":
		return true
	case strings.HasPrefix(spec, "file:") || strings.HasPrefix(spec, "link:"):
		return true
	case strings.HasPrefix(spec, "git") || strings.Contains(spec, "github.com"):
		return true
	case strings.HasPrefix(spec, "workspace:"):
		return true
	default:
		return false
	}
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != want {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unexpected JSON structure")
	}
	return nil
}

// skipJSONValue consumes one JSON value of any shape.
func skipJSONValue(decoder *json.Decoder) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); ok && (delim == '{' || delim == '[') {
		return skipJSONContainer(decoder, delim)
	}
	return nil
}

// skipJSONContainer consumes the remainder of an already-opened object
// or array.
func skipJSONContainer(decoder *json.Decoder, open json.Delim) error {
	for decoder.More() {
		if open == '{' {
			if _, err := decoder.Token(); err != nil {
				return err
			}
		}
		if err := skipJSONValue(decoder); err != nil {
			return err
		}
	}
	_, err := decoder.Token()
	return err
}

func manifestParseError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to parse manifest: " + path).
		WithCause(cause)
}
