package passivetotal

import (
	"context"
	"testing"

	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/testutil"
)

func TestPassiveTotal_Fetch(t *testing.T) {
	fp := testutil.NewFakeProvider(t, map[string]testutil.Route{
		"/v2/enrichment/subdomains": {Body: `{"success":true,"primaryDomain":"example.com","subdomains":["www","api.v2","*.cdn",""]}`},
	})
	src, err := New(ports.SourceOptions{
		BaseURL:     fp.URL,
		Credentials: map[string]string{usernameEnv: "user@example.com", keyEnv: "secret"},
	})
	testutil.AssertNoError(t, err, "new")

	set, err := src.Fetch(context.Background(), "example.com")
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertSameElements(t, set.Sorted(),
		[]string{"api.v2.example.com", "cdn.example.com", "www.example.com"}, "prefixes completed with host")

	req := fp.Requests()[0]
	user, pass, ok := req.BasicAuth()
	testutil.AssertTrue(t, ok, "basic auth present")
	testutil.AssertEqual(t, user, "user@example.com", "username")
	testutil.AssertEqual(t, pass, "secret", "key")
	testutil.AssertEqual(t, req.URL.Query().Get("query"), "example.com", "query")
}

func TestPassiveTotal_NeedsBothCredentials(t *testing.T) {
	fp := testutil.NewFakeProvider(t, nil)
	src, _ := New(ports.SourceOptions{BaseURL: fp.URL, Credentials: map[string]string{usernameEnv: "user"}})

	_, err := src.Fetch(context.Background(), "example.com")
	testutil.AssertTrue(t, errors.IsCredentialMissing(err), "key missing")
	testutil.AssertEqual(t, fp.RequestCount(), 0, "no request")
}
