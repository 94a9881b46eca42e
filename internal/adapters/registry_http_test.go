package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"depfresh/internal/types"
)

func TestLatestNpm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lodash/latest", r.URL.Path)
		w.Write([]byte(`{"name": "lodash", "version": "4.17.21"}`))
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter(server.URL, "", "", 5)
	version, err := adapter.Latest(context.Background(), types.EcosystemNode, "lodash")
	require.NoError(t, err)
	require.Equal(t, "4.17.21", version)
}

func TestLatestCratesPrefersMaxStable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/crates/serde", r.URL.Path)
		w.Write([]byte(`{"crate": {"max_stable_version": "1.0.200", "newest_version": "2.0.0-beta.1"}}`))
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter("", server.URL, "", 5)
	version, err := adapter.Latest(context.Background(), types.EcosystemCargo, "serde")
	require.NoError(t, err)
	require.Equal(t, "1.0.200", version)
}

func TestLatestCratesFallsBackToNewest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"crate": {"newest_version": "0.3.0"}}`))
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter("", server.URL, "", 5)
	version, err := adapter.Latest(context.Background(), types.EcosystemCargo, "nursery")
	require.NoError(t, err)
	require.Equal(t, "0.3.0", version)
}

// PyPI lookups use the PEP 503 normalized name in the request path.
func TestLatestPypiNormalizesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pypi/my-package/json", r.URL.Path)
		w.Write([]byte(`{"info": {"version": "2.7.0"}}`))
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter("", "", server.URL, 5)
	version, err := adapter.Latest(context.Background(), types.EcosystemPip, "My.Package")
	require.NoError(t, err)
	require.Equal(t, "2.7.0", version)
}

func TestLatestNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter(server.URL, "", "", 5)
	_, err := adapter.Latest(context.Background(), types.EcosystemNode, "no-such-package")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLatestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter(server.URL, "", "", 5)
	_, err := adapter.Latest(context.Background(), types.EcosystemNode, "lodash")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestLatestMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version": ""}`))
	}))
	defer server.Close()

	adapter := NewHTTPRegistryAdapter(server.URL, "", "", 5)
	_, err := adapter.Latest(context.Background(), types.EcosystemNode, "lodash")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestLatestUnreachableRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	adapter := NewHTTPRegistryAdapter(server.URL, "", "", 1)
	_, err := adapter.Latest(context.Background(), types.EcosystemNode, "lodash")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}
