// cmd/subharvest/main_test.go
package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"subharvest/internal/platform/config"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources"
)

func TestReadHosts(t *testing.T) {
	in := strings.NewReader("example.com\n\n  # comentario\n example.org \n")

	hosts, err := readHosts(in)
	assert.NilError(t, err)
	assert.DeepEqual(t, hosts, []string{"example.com", "example.org"})
}

func TestCollectHosts_ArgsAndList(t *testing.T) {
	list := filepath.Join(t.TempDir(), "hosts.txt")
	assert.NilError(t, os.WriteFile(list, []byte("example.net\nexample.io\n"), 0o600))

	hosts, err := collectHosts([]string{"example.com"}, list, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, hosts, []string{"example.com", "example.net", "example.io"})

	_, err = collectHosts(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.ErrorContains(t, err, "open host list")
}

func TestCatalogOf(t *testing.T) {
	reg := registry.NewSourceRegistry(nil)
	assert.NilError(t, sources.RegisterAll(reg))

	catalog := catalogOf(reg)
	assert.Check(t, is.Len(catalog.Sources, 12))
	assert.Check(t, is.Contains(catalog.CredentialEnv, "BINARYEDGE_TOKEN"))
	assert.Check(t, is.Contains(catalog.CredentialEnv, "PASSIVETOTAL_KEY"))
	assert.Check(t, is.Len(catalog.CredentialEnv, 4))
}

func TestBuildOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources["crtsh"] = config.SourceConfig{Disabled: true, RateLimit: 3}
	cfg.Cache.Enabled = false
	cfg.Credentials["C99_API_KEY"] = "k"
	cfg.Network.ProxyURL = "http://proxy:8080"

	opts := buildOptions(cfg, logx.NewSilent())
	assert.Check(t, opts.Settings["crtsh"].Disabled)
	assert.Check(t, is.Equal(opts.Settings["crtsh"].RateLimit, 3.0))
	assert.Check(t, is.Equal(opts.CacheCapacity, 0))
	assert.Check(t, is.Equal(opts.Credentials["C99_API_KEY"], "k"))
	assert.Check(t, is.Equal(opts.HTTP.ProxyURL, "http://proxy:8080"))
	assert.Check(t, is.Equal(opts.HTTP.Timeout, 30*time.Second))
	assert.Check(t, is.Equal(opts.MaxPages, 50))
	assert.Check(t, is.Equal(opts.Guard.BreakerThreshold, 0))
}

func TestRootCmd_ListSources(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--list-sources"})

	assert.NilError(t, cmd.Execute())
	assert.Check(t, is.Contains(out.String(), "binaryedge"))
	assert.Check(t, is.Contains(out.String(), "BINARYEDGE_TOKEN"))
}

func TestRootCmd_NoHosts(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--quiet", "not a host"})

	err := cmd.Execute()
	var ee *exitError
	assert.Assert(t, errors.As(err, &ee))
	assert.Check(t, is.Equal(ee.code, 2))
}

func TestRootCmd_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/anubis/subdomains/example.com":
			_, _ = w.Write([]byte(`["www.example.com","api.example.com","other.net"]`))
		case "/anubis/subdomains/example.org":
			_, _ = w.Write([]byte(`["www.example.org"]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Setenv("SUBHARVEST_SOURCES_ANUBISDB_BASEURL", srv.URL)
	outFile := filepath.Join(t.TempDir(), "subs.txt")

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--quiet", "--no-cache",
		"--exclude", "alienvault,certspotter,crtsh,urlscan,threatminer,sublister,wayback,hackertarget",
		"-o", outFile,
		"example.com", "example.org", "bad host",
	})
	assert.NilError(t, cmd.Execute())

	data, err := os.ReadFile(outFile)
	assert.NilError(t, err)
	lines := strings.Fields(string(data))
	assert.Check(t, is.Len(lines, 3))
	assert.Check(t, is.Contains(lines, "www.example.com"))
	assert.Check(t, is.Contains(lines, "api.example.com"))
	assert.Check(t, is.Contains(lines, "www.example.org"))
}
