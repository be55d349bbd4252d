package certspotter

import (
	"context"
	"testing"

	"subharvest/internal/core/ports"
	"subharvest/internal/testutil"
)

func TestCertSpotter_Fetch(t *testing.T) {
	fp := testutil.NewFakeProvider(t, map[string]testutil.Route{
		"/v1/issuances": {Body: `[
			{"id":"1","dns_names":["example.com","*.example.com","www.example.com"]},
			{"id":"2","dns_names":["shop.example.com","example.net"]}
		]`},
	})
	src, err := New(ports.SourceOptions{BaseURL: fp.URL})
	testutil.AssertNoError(t, err, "new")

	set, err := src.Fetch(context.Background(), "example.com")
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertSameElements(t, set.Sorted(), []string{"example.com", "shop.example.com", "www.example.com"}, "names")

	q := fp.Requests()[0].URL.Query()
	testutil.AssertEqual(t, q.Get("domain"), "example.com", "domain")
	testutil.AssertEqual(t, q.Get("include_subdomains"), "true", "subdomains")
	testutil.AssertEqual(t, q.Get("expand"), "dns_names", "expand")
}
