// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"subharvest/internal/platform/errors"
)

// EnvPrefix es el prefijo de las variables de entorno de configuración.
const EnvPrefix = "SUBHARVEST_"

type Config struct {
	Core       CoreConfig              `yaml:"core"`
	Sources    map[string]SourceConfig `yaml:"sources"`
	Pagination PaginationConfig        `yaml:"pagination"`
	Network    NetworkConfig           `yaml:"network"`
	Resilience ResilienceConfig        `yaml:"resilience"`
	Cache      CacheConfig             `yaml:"cache"`
	Output     OutputConfig            `yaml:"output"`

	// Credentials valores por variable (ej: BINARYEDGE_TOKEN); el entorno tiene prioridad
	Credentials map[string]string `yaml:"credentials"`

	// Solo CLI
	ConfigFile   string `yaml:"-" json:"-"`
	PrintVersion bool   `yaml:"-" json:"-"`
	ListSources  bool   `yaml:"-" json:"-"`
}

type CoreConfig struct {
	ListFile       string `yaml:"list"`
	All            bool   `yaml:"all"`
	Concurrency    int    `yaml:"concurrency"`
	TimeoutS       int    `yaml:"timeout"`        // segundos (0 = sin timeout)
	SourceTimeoutS int    `yaml:"source_timeout"` // por fuente y host (0 = sin timeout)
}

// SourceConfig ajustes de una fuente concreta.
type SourceConfig struct {
	Disabled  bool    `yaml:"disabled"`
	RateLimit float64 `yaml:"rate_limit"`
	BaseURL   string  `yaml:"base_url"`
}

type PaginationConfig struct {
	MaxPages    int `yaml:"max_pages"`
	PageWorkers int `yaml:"page_workers"`
}

type NetworkConfig struct {
	HTTPTimeoutS int    `yaml:"http_timeout"`
	Retries      int    `yaml:"retries"`
	UserAgent    string `yaml:"user_agent"`
	ProxyURL     string `yaml:"proxy"`
}

type ResilienceConfig struct {
	MaxRetries       int           `yaml:"max_retries"`
	BackoffBase      time.Duration `yaml:"backoff"`
	BreakerThreshold int           `yaml:"breaker_threshold"` // 0 = sin circuit breaker (default)
	BreakerTimeout   time.Duration `yaml:"breaker_timeout"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

type OutputConfig struct {
	File       string `yaml:"file"`
	JSON       bool   `yaml:"json"`
	Unique     bool   `yaml:"unique"`
	Quiet      bool   `yaml:"quiet"`
	Verbose    bool   `yaml:"verbose"`
	NoProgress bool   `yaml:"no_progress"`
}

// Catalog lo que Load necesita saber de las fuentes registradas.
type Catalog struct {
	Sources       []string
	CredentialEnv []string
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			Concurrency:    200,
			TimeoutS:       0,
			SourceTimeoutS: 60,
		},
		Sources: map[string]SourceConfig{},
		Pagination: PaginationConfig{
			MaxPages:    50,
			PageWorkers: 4,
		},
		Network: NetworkConfig{
			HTTPTimeoutS: 30,
			Retries:      1,
			UserAgent:    "subharvest/1.0",
		},
		Resilience: ResilienceConfig{
			MaxRetries:       0,
			BackoffBase:      1 * time.Second,
			BreakerThreshold: 0,
			BreakerTimeout:   60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 1024,
			TTL:      10 * time.Minute,
		},
		Credentials: map[string]string{},
	}
}

// BindFlags registra los flags en fs con los valores por defecto.
// Load solo aplica los flags que el usuario ha cambiado.
func BindFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()

	fs.StringP("config", "C", "", "YAML configuration file")
	fs.StringP("list", "l", "", "File with one host per line")
	fs.BoolP("all", "a", false, "Use every source, including credentialed ones")
	fs.IntP("concurrency", "c", d.Core.Concurrency, "Hosts processed at the same time")
	fs.IntP("timeout", "T", d.Core.TimeoutS, "Global timeout in seconds (0 = no timeout)")
	fs.Int("source-timeout", d.Core.SourceTimeoutS, "Timeout per source and host in seconds (0 = no timeout)")
	fs.StringSlice("exclude", nil, "Sources to skip (comma separated)")

	fs.Int("max-pages", d.Pagination.MaxPages, "Page ceiling for paginated sources")
	fs.Int("page-workers", d.Pagination.PageWorkers, "Pages fetched in parallel after the first one")

	fs.Int("http-timeout", d.Network.HTTPTimeoutS, "HTTP request timeout in seconds")
	fs.Int("http-retries", d.Network.Retries, "HTTP retries on 429/5xx and network errors")
	fs.String("user-agent", d.Network.UserAgent, "User-Agent header")
	fs.StringP("proxy", "p", "", "HTTP(S) proxy URL for outbound requests")

	fs.IntP("retries", "r", d.Resilience.MaxRetries, "Source-level retries when a provider is unavailable")
	fs.Int("circuit-breaker", d.Resilience.BreakerThreshold, "Unavailable failures before a source is skipped for later hosts (0 = off)")
	fs.Bool("no-cache", false, "Disable the response cache")

	fs.StringP("output", "o", "", "Write results to file instead of stdout")
	fs.Bool("json", false, "Write results as JSON")
	fs.BoolP("unique", "u", false, "Remove duplicates across hosts")
	fs.BoolP("quiet", "q", false, "Only errors on stderr")
	fs.BoolP("verbose", "v", false, "Debug logging")
	fs.Bool("no-progress", false, "Disable the progress display")

	fs.Bool("list-sources", false, "Print the registered sources and exit")
	fs.Bool("version", false, "Print version information and exit")
}

// Load inicializa la configuración: defaults -> YAML -> ENV -> FLAGS (flags tienen prioridad).
func Load(fs *pflag.FlagSet, catalog Catalog) (Config, error) {
	cfg := DefaultConfig()

	path := getenv(EnvPrefix+"CONFIG", "")
	if fs != nil && fs.Changed("config") {
		path, _ = fs.GetString("config")
	}
	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, err
		}
		cfg.ConfigFile = path
	}

	if err := loadFromEnv(&cfg, catalog); err != nil {
		return cfg, err
	}

	if fs != nil {
		if err := loadFromFlags(&cfg, fs); err != nil {
			return cfg, err
		}
	}

	normalize(&cfg)
	return cfg, nil
}

// loadFromFile superpone un fichero YAML sobre cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(errors.Join(errors.ErrInvalidInput, err), "parse config %s", path)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config, catalog Catalog) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := getenv(EnvPrefix+key, ""); v != "" {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = i
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := getenv(EnvPrefix+key, ""); v != "" {
			d, err := parseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	setBool := func(key string, dst *bool) {
		if v := getenv(EnvPrefix+key, ""); v != "" {
			*dst = parseBool(v)
		}
	}
	setString := func(key string, dst *string) {
		if v := getenv(EnvPrefix+key, ""); v != "" {
			*dst = v
		}
	}

	setString("LIST", &cfg.Core.ListFile)
	setBool("ALL", &cfg.Core.All)
	setInt("CONCURRENCY", &cfg.Core.Concurrency)
	setInt("TIMEOUT", &cfg.Core.TimeoutS)
	setInt("SOURCE_TIMEOUT", &cfg.Core.SourceTimeoutS)

	setInt("MAX_PAGES", &cfg.Pagination.MaxPages)
	setInt("PAGE_WORKERS", &cfg.Pagination.PageWorkers)

	setInt("HTTP_TIMEOUT", &cfg.Network.HTTPTimeoutS)
	setInt("HTTP_RETRIES", &cfg.Network.Retries)
	setString("USER_AGENT", &cfg.Network.UserAgent)
	setString("PROXY_URL", &cfg.Network.ProxyURL)

	setInt("RESILIENCE_MAX_RETRIES", &cfg.Resilience.MaxRetries)
	setDuration("RESILIENCE_BACKOFF", &cfg.Resilience.BackoffBase)
	setInt("RESILIENCE_CB_THRESHOLD", &cfg.Resilience.BreakerThreshold)
	setDuration("RESILIENCE_CB_TIMEOUT", &cfg.Resilience.BreakerTimeout)

	setBool("CACHE_ENABLED", &cfg.Cache.Enabled)
	setInt("CACHE_CAPACITY", &cfg.Cache.Capacity)
	setDuration("CACHE_TTL", &cfg.Cache.TTL)

	setString("OUTPUT_FILE", &cfg.Output.File)
	setBool("OUTPUT_JSON", &cfg.Output.JSON)
	setBool("UNIQUE", &cfg.Output.Unique)
	setBool("QUIET", &cfg.Output.Quiet)
	setBool("VERBOSE", &cfg.Output.Verbose)
	setBool("NO_PROGRESS", &cfg.Output.NoProgress)

	// Fuentes
	// Formato: SUBHARVEST_SOURCES_CRTSH_ENABLED=false
	//          SUBHARVEST_SOURCES_CRTSH_RATELIMIT=0.5
	//          SUBHARVEST_SOURCES_CRTSH_BASEURL=http://mirror
	if cfg.Sources == nil {
		cfg.Sources = map[string]SourceConfig{}
	}
	for _, name := range catalog.Sources {
		prefix := fmt.Sprintf("%sSOURCES_%s_", EnvPrefix, strings.ToUpper(name))
		sc := cfg.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sc.Disabled = !parseBool(v)
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			rl, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%sRATELIMIT: %w", prefix, err))
			} else {
				sc.RateLimit = rl
			}
		}
		if v := getenv(prefix+"BASEURL", ""); v != "" {
			sc.BaseURL = v
		}
		cfg.Sources[name] = sc
	}

	// Credenciales: los nombres de variable son los del proveedor, sin prefijo
	if cfg.Credentials == nil {
		cfg.Credentials = map[string]string{}
	}
	for _, env := range catalog.CredentialEnv {
		if v := getenv(env, ""); v != "" {
			cfg.Credentials[env] = v
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{errors.ErrInvalidInput}, errs...)...)
	}
	return nil
}

// loadFromFlags aplica los flags cambiados en la línea de comandos.
func loadFromFlags(cfg *Config, fs *pflag.FlagSet) error {
	var errs []error
	track := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	str := func(name string, dst *string) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetString(name)
			track(err)
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetInt(name)
			track(err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetBool(name)
			track(err)
			*dst = v
		}
	}

	str("list", &cfg.Core.ListFile)
	boolean("all", &cfg.Core.All)
	integer("concurrency", &cfg.Core.Concurrency)
	integer("timeout", &cfg.Core.TimeoutS)
	integer("source-timeout", &cfg.Core.SourceTimeoutS)

	integer("max-pages", &cfg.Pagination.MaxPages)
	integer("page-workers", &cfg.Pagination.PageWorkers)

	integer("http-timeout", &cfg.Network.HTTPTimeoutS)
	integer("http-retries", &cfg.Network.Retries)
	str("user-agent", &cfg.Network.UserAgent)
	str("proxy", &cfg.Network.ProxyURL)

	integer("retries", &cfg.Resilience.MaxRetries)
	integer("circuit-breaker", &cfg.Resilience.BreakerThreshold)

	var noCache bool
	boolean("no-cache", &noCache)
	if noCache {
		cfg.Cache.Enabled = false
	}

	str("output", &cfg.Output.File)
	boolean("json", &cfg.Output.JSON)
	boolean("unique", &cfg.Output.Unique)
	boolean("quiet", &cfg.Output.Quiet)
	boolean("verbose", &cfg.Output.Verbose)
	boolean("no-progress", &cfg.Output.NoProgress)

	boolean("list-sources", &cfg.ListSources)
	boolean("version", &cfg.PrintVersion)

	if fs.Lookup("exclude") != nil && fs.Changed("exclude") {
		excluded, err := fs.GetStringSlice("exclude")
		track(err)
		if cfg.Sources == nil {
			cfg.Sources = map[string]SourceConfig{}
		}
		for _, name := range excluded {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			sc := cfg.Sources[name]
			sc.Disabled = true
			cfg.Sources[name] = sc
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{errors.ErrInvalidInput}, errs...)...)
	}
	return nil
}

func normalize(c *Config) {
	if c.Core.Concurrency < 1 {
		c.Core.Concurrency = 1
	}
	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}
	if c.Core.SourceTimeoutS < 0 {
		c.Core.SourceTimeoutS = 0
	}
	if c.Pagination.MaxPages < 1 {
		c.Pagination.MaxPages = DefaultConfig().Pagination.MaxPages
	}
	if c.Pagination.PageWorkers < 1 {
		c.Pagination.PageWorkers = 1
	}
	if c.Network.HTTPTimeoutS < 1 {
		c.Network.HTTPTimeoutS = DefaultConfig().Network.HTTPTimeoutS
	}
	if c.Network.Retries < 0 {
		c.Network.Retries = 0
	}
	if strings.TrimSpace(c.Network.UserAgent) == "" {
		c.Network.UserAgent = DefaultConfig().Network.UserAgent
	}
	if c.Resilience.MaxRetries < 0 {
		c.Resilience.MaxRetries = 0
	}
	if c.Resilience.BackoffBase <= 0 {
		c.Resilience.BackoffBase = 1 * time.Second
	}
	if c.Resilience.BreakerThreshold < 0 {
		c.Resilience.BreakerThreshold = 0
	}
	if c.Resilience.BreakerTimeout <= 0 {
		c.Resilience.BreakerTimeout = 60 * time.Second
	}
	if c.Cache.Capacity < 1 {
		c.Cache.Enabled = false
	}
	if c.Cache.TTL < 0 {
		c.Cache.TTL = 0
	}

	// quiet gana a verbose
	if c.Output.Quiet {
		c.Output.Verbose = false
		c.Output.NoProgress = true
	}

	// nombres de fuente en minúsculas; las desconocidas se conservan para avisar
	sources := make(map[string]SourceConfig, len(c.Sources))
	for name, sc := range c.Sources {
		if sc.RateLimit < 0 {
			sc.RateLimit = 0
		}
		sources[strings.ToLower(strings.TrimSpace(name))] = sc
	}
	c.Sources = sources
}

// UnknownSources lista las fuentes configuradas que no están en el catálogo.
func (c Config) UnknownSources(catalog Catalog) []string {
	known := make(map[string]bool, len(catalog.Sources))
	for _, name := range catalog.Sources {
		known[name] = true
	}
	var unknown []string
	for name := range c.Sources {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ToJSON serializa la configuración a JSON sin credenciales (útil para debugging).
func (c Config) ToJSON() (string, error) {
	redacted := c
	redacted.Credentials = make(map[string]string, len(c.Credentials))
	for k := range c.Credentials {
		redacted.Credentials[k] = "***"
	}
	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout global como time.Duration.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// SourceTimeout devuelve el timeout por fuente como time.Duration.
func (c Config) SourceTimeout() time.Duration {
	if c.Core.SourceTimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.SourceTimeoutS) * time.Second
}

// HTTPTimeout devuelve el timeout de cada petición HTTP.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Network.HTTPTimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

// parseDuration acepta duraciones Go ("90s") o segundos enteros ("90").
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
