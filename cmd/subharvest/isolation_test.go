// cmd/subharvest/isolation_test.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/core/usecases"
	"subharvest/internal/platform/config"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/anubisdb"
	"subharvest/internal/sources/sublister"
)

// flakySource falla como no disponible para los hosts en down y responde al resto.
type flakySource struct {
	down  map[domain.Host]bool
	calls atomic.Int32
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Fetch(_ context.Context, host domain.Host) (domain.SubdomainSet, error) {
	f.calls.Add(1)
	if f.down[host] {
		return nil, errors.Unavailable(errors.New("connection refused"), "dial")
	}
	return domain.NewSubdomainSet("z." + host.String()), nil
}

// harvestWith construye las fuentes con las mismas opciones que run y procesa
// los hosts de uno en uno, en orden.
func harvestWith(t *testing.T, reg *registry.SourceRegistry, opts registry.BuildOptions, hosts []domain.Host) []string {
	t.Helper()
	h := usecases.NewHarvester(usecases.HarvesterOptions{
		Builder: usecases.SourceBuilderFunc(func(m domain.RunMode) ([]ports.Source, error) {
			return reg.Build(m, opts)
		}),
		Concurrency: 1,
	})
	got, err := h.Run(context.Background(), hosts, domain.RunModeFree)
	assert.NilError(t, err)
	return got
}

func TestDefaultResilience_FailingHostsDoNotSilenceLaterHosts(t *testing.T) {
	var hosts []domain.Host
	down := make(map[domain.Host]bool)
	for i := 0; i < 8; i++ {
		h := domain.Host(fmt.Sprintf("x%d.com", i))
		hosts = append(hosts, h)
		down[h] = true
	}
	hosts = append(hosts, "y.com")

	src := &flakySource{down: down}
	reg := registry.NewSourceRegistry(nil)
	assert.NilError(t, reg.Register("flaky", func(ports.SourceOptions) (ports.Source, error) {
		return src, nil
	}, ports.SourceMetadata{Tier: domain.TierFree}))

	got := harvestWith(t, reg, buildOptions(config.DefaultConfig(), logx.NewSilent()), hosts)

	assert.DeepEqual(t, got, []string{"z.y.com"})
	assert.Equal(t, int(src.calls.Load()), len(hosts), "every host reaches the provider")
}

func TestHTTPStack_UnavailableProviderIsolatedPerHost(t *testing.T) {
	var anubisCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/anubis/subdomains/"):
			anubisCalls.Add(1)
			host := strings.TrimPrefix(r.URL.Path, "/anubis/subdomains/")
			if strings.HasPrefix(host, "down") {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = fmt.Fprintf(w, `["anubis.%s"]`, host)
		case r.URL.Path == "/search.php":
			_, _ = fmt.Fprintf(w, `["sublister.%s"]`, r.URL.Query().Get("domain"))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "not found")
		}
	}))
	defer server.Close()

	reg := registry.NewSourceRegistry(nil)
	assert.NilError(t, anubisdb.Register(reg))
	assert.NilError(t, sublister.Register(reg))

	cfg := config.DefaultConfig()
	cfg.Sources["anubisdb"] = config.SourceConfig{BaseURL: server.URL}
	cfg.Sources["sublister"] = config.SourceConfig{BaseURL: server.URL}
	opts := buildOptions(cfg, logx.NewSilent())
	opts.HTTP.RetryBackoff = 5 * time.Millisecond

	var hosts []domain.Host
	for i := 0; i < 6; i++ {
		hosts = append(hosts, domain.Host(fmt.Sprintf("down%d.com", i)))
	}
	hosts = append(hosts, "up.com")

	got := harvestWith(t, reg, opts, hosts)

	assert.Check(t, is.Contains(got, "anubis.up.com"))
	for _, h := range hosts {
		assert.Check(t, is.Contains(got, "sublister."+h.String()))
		if h != "up.com" {
			assert.Check(t, !lo.Contains(got, "anubis."+h.String()), "unexpected anubis result for %s", h)
		}
	}
	assert.Equal(t, len(got), len(hosts)+1)

	// 503 se reintenta una vez en el cliente HTTP; el host sano llama una sola vez
	assert.Equal(t, int(anubisCalls.Load()), 6*(1+cfg.Network.Retries)+1)
}
