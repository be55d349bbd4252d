package urlscan

import (
	"context"
	"testing"

	"subharvest/internal/core/ports"
	"subharvest/internal/testutil"
)

func TestURLScan_Fetch(t *testing.T) {
	fp := testutil.NewFakeProvider(t, map[string]testutil.Route{
		"/api/v1/search/": {Body: `{"results":[
			{"task":{"domain":"login.example.com"},"page":{"domain":"sso.example.com"}},
			{"task":{"domain":"example.com"},"page":{"domain":"redirect.other.io"}}
		],"total":2}`},
	})
	src, err := New(ports.SourceOptions{BaseURL: fp.URL})
	testutil.AssertNoError(t, err, "new")

	set, err := src.Fetch(context.Background(), "example.com")
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertSameElements(t, set.Sorted(), []string{"example.com", "login.example.com", "sso.example.com"}, "names")
	testutil.AssertEqual(t, fp.Requests()[0].URL.Query().Get("q"), "domain:example.com", "query")
}
