package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depfresh/internal/ports"
	"depfresh/internal/shared"
	"depfresh/internal/types"
)

const (
	defaultNpmEndpoint     = "https://registry.npmjs.org"
	defaultCratesEndpoint  = "https://crates.io"
	defaultPypiEndpoint    = "https://pypi.org"
	defaultRegistryTimeout = 5 * time.Second
	registryUserAgent      = "depfresh (dependency freshness checker)"
)

// HTTPRegistryAdapter resolves the latest published version of a
// package by name lookup against the ecosystem's public registry. One
// bounded-timeout request per lookup; callers handle caching and
// de-duplication.
type HTTPRegistryAdapter struct {
	NpmEndpoint    string
	CratesEndpoint string
	PypiEndpoint   string
	client         *http.Client
}

func NewHTTPRegistryAdapter(npmEndpoint string, cratesEndpoint string, pypiEndpoint string, timeoutSec int) *HTTPRegistryAdapter {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultRegistryTimeout
	}
	return &HTTPRegistryAdapter{
		NpmEndpoint:    normalizeEndpoint(npmEndpoint, defaultNpmEndpoint),
		CratesEndpoint: normalizeEndpoint(cratesEndpoint, defaultCratesEndpoint),
		PypiEndpoint:   normalizeEndpoint(pypiEndpoint, defaultPypiEndpoint),
		client:         &http.Client{Timeout: timeout},
	}
}

func normalizeEndpoint(value string, fallback string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func (a *HTTPRegistryAdapter) Latest(ctx context.Context, eco types.Ecosystem, name string) (string, error) {
	lookupURL, err := a.lookupURL(eco, name)
	if err != nil {
		return "", err
	}
	body, err := a.fetch(ctx, lookupURL)
	if err != nil {
		return "", err
	}
	version, err := decodeLatest(eco, body)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("malformed registry response for %s", name)).
			WithCause(err)
	}
	return version, nil
}

func (a *HTTPRegistryAdapter) lookupURL(eco types.Ecosystem, name string) (string, error) {
	switch eco {
	case types.EcosystemNode:
		return fmt.Sprintf("%s/%s/latest", a.NpmEndpoint, url.PathEscape(name)), nil
	case types.EcosystemCargo:
		return fmt.Sprintf("%s/api/v1/crates/%s", a.CratesEndpoint, url.PathEscape(name)), nil
	case types.EcosystemPip:
		normalized := shared.NormalizePipName(name)
		return fmt.Sprintf("%s/pypi/%s/json", a.PypiEndpoint, url.PathEscape(normalized)), nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported ecosystem: %s", eco))
	}
}

func (a *HTTPRegistryAdapter) fetch(ctx context.Context, lookupURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", registryUserAgent)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry unavailable").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found").
			WithCause(shared.HTTPStatusError(resp.StatusCode, lookupURL))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry unavailable").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, lookupURL, strings.TrimSpace(string(body))))
	}
	return body, nil
}

// decodeLatest extracts the latest-version field from the registry's
// JSON payload.
func decodeLatest(eco types.Ecosystem, body []byte) (string, error) {
	switch eco {
	case types.EcosystemNode:
		var payload struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", err
		}
		return nonEmptyVersion(payload.Version)
	case types.EcosystemCargo:
		var payload struct {
			Crate struct {
				MaxStableVersion string `json:"max_stable_version"`
				NewestVersion    string `json:"newest_version"`
			} `json:"crate"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", err
		}
		if payload.Crate.MaxStableVersion != "" {
			return payload.Crate.MaxStableVersion, nil
		}
		return nonEmptyVersion(payload.Crate.NewestVersion)
	case types.EcosystemPip:
		var payload struct {
			Info struct {
				Version string `json:"version"`
			} `json:"info"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", err
		}
		return nonEmptyVersion(payload.Info.Version)
	default:
		return "", fmt.Errorf("unsupported ecosystem: %s", eco)
	}
}

func nonEmptyVersion(version string) (string, error) {
	if strings.TrimSpace(version) == "" {
		return "", fmt.Errorf("empty version field")
	}
	return version, nil
}

var _ ports.VersionSource = (*HTTPRegistryAdapter)(nil)
