// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

// LongHelp texto largo del comando raíz.
const LongHelp = `subharvest - Passive Subdomain Aggregator

Queries many public and credentialed providers concurrently for each host and
prints the union of what they report. Up to --concurrency hosts run at the same
time; every provider is asked about every host and failing providers are
skipped without affecting the others.

HOSTS:
  Hosts come from positional arguments, from --list, or from stdin (one per line).
  Invalid hosts are reported and skipped.

MODES:
  Free (default)   Only providers that need no credentials
  All (-a, --all)  Every provider; credentialed ones fail quietly without a key

CONFIGURATION ORDER:
  defaults -> YAML file (--config) -> environment -> flags

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with SUBHARVEST_ prefix:

  SUBHARVEST_CONFIG=/path.yaml        Configuration file
  SUBHARVEST_ALL=true                 Use every provider
  SUBHARVEST_CONCURRENCY=200          Hosts at the same time
  SUBHARVEST_TIMEOUT=600              Global timeout in seconds
  SUBHARVEST_SOURCE_TIMEOUT=60        Timeout per provider and host
  SUBHARVEST_MAX_PAGES=50             Page ceiling for paginated providers
  SUBHARVEST_PROXY_URL=http://...     Proxy URL
  SUBHARVEST_RESILIENCE_CB_THRESHOLD=0  Circuit breaker, off by default (skips a failing
                                      provider for later hosts once open)
  SUBHARVEST_LOG_LEVEL=debug          Log level (debug, info, warn, error)

  Provider-specific (replace CRTSH with the provider name):
  SUBHARVEST_SOURCES_CRTSH_ENABLED=false
  SUBHARVEST_SOURCES_CRTSH_RATELIMIT=0.5

  Credentials use the provider's own variable names:
  BINARYEDGE_TOKEN, C99_API_KEY, PASSIVETOTAL_USERNAME, PASSIVETOTAL_KEY

  Note: CLI flags override environment variables.`

// Examples ejemplos de uso del comando raíz.
const Examples = `  subharvest example.com
  subharvest -a example.com example.org
  subharvest -l hosts.txt -c 50 -o subdomains.txt
  cat hosts.txt | subharvest --json --unique
  subharvest --exclude wayback,urlscan example.com
  subharvest --list-sources`

// VersionString formatea la información de versión.
func VersionString(version, commit, date string) string {
	return fmt.Sprintf("subharvest %s\n  Commit:  %s\n  Built:   %s\n  Go:      %s\n",
		version, commit, date, getGoVersion())
}

// PrintVersion escribe la información de versión en w.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprint(w, VersionString(version, commit, date))
}

func getGoVersion() string {
	return runtime.Version()
}
