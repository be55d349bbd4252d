// cmd/subharvest/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"subharvest/internal/adapters/output"
	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/core/usecases"
	"subharvest/internal/platform/config"
	"subharvest/internal/platform/httpclient"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/registry"
	"subharvest/internal/platform/ui"
	"subharvest/internal/sources"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitError lleva el código de salida hasta main.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error  { return &exitError{code: 2, err: err} }
func outputError(err error) error { return &exitError{code: 1, err: err} }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "subharvest [hosts...]",
		Short:         "Concurrent passive subdomain aggregator",
		Long:          config.LongHelp,
		Example:       config.Examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Registry con todas las fuentes (sin global)
	reg := registry.NewSourceRegistry(nil)
	if err := sources.RegisterAll(reg); err != nil {
		return usageError(fmt.Errorf("source registration failed: %w", err))
	}
	catalog := catalogOf(reg)

	// 2. Config centralizada: defaults -> YAML -> ENV -> flags
	cfg, err := config.Load(cmd.Flags(), catalog)
	if err != nil {
		return usageError(fmt.Errorf("configuration load failed: %w", err))
	}

	if cfg.PrintVersion {
		config.PrintVersion(cmd.OutOrStdout(), version, commit, date)
		return nil
	}
	if cfg.ListSources {
		return printSources(cmd, reg)
	}

	// 3. Logger compartido
	logger := newLogger(cfg)
	for _, name := range cfg.UnknownSources(catalog) {
		logger.Warn("unknown source in configuration", "source", name)
	}

	// 4. Hosts: argumentos, --list o stdin
	raw, err := collectHosts(args, cfg.Core.ListFile, os.Stdin)
	if err != nil {
		return usageError(err)
	}
	hosts, invalid := domain.ParseHosts(raw)
	for _, h := range invalid {
		logger.Warn("skipping invalid host", "host", h)
	}
	if len(hosts) == 0 {
		return usageError(fmt.Errorf("%w: no valid hosts (try: subharvest -h)", domain.ErrEmptyHost))
	}

	mode := domain.RunModeFree
	if cfg.Core.All {
		mode = domain.RunModeAll
	}

	logger.Info("subharvest starting",
		"version", version,
		"hosts", len(hosts),
		"mode", mode.String(),
		"concurrency", cfg.Core.Concurrency,
	)

	// 5. Contexto y señales para un cierre limpio
	ctx, cancel := rootContextWithSignals(cfg.Core.TimeoutS)
	defer cancel()

	// 6. Presentación
	presenter := newPresenter(cfg)
	defer presenter.Close()

	var active []string
	builder := usecases.SourceBuilderFunc(func(m domain.RunMode) ([]ports.Source, error) {
		srcs, err := reg.Build(m, buildOptions(cfg, logger))
		if err != nil {
			return nil, err
		}
		for _, s := range srcs {
			active = append(active, s.Name())
		}
		presenter.Start(ui.RunInfo{
			Hosts:       len(hosts),
			Mode:        m.String(),
			Sources:     active,
			Concurrency: cfg.Core.Concurrency,
			TimeoutS:    cfg.Core.TimeoutS,
		})
		return srcs, nil
	})

	// 7. Ejecutar el batch
	harvester := usecases.NewHarvester(usecases.HarvesterOptions{
		Builder:       builder,
		Concurrency:   cfg.Core.Concurrency,
		SourceTimeout: cfg.SourceTimeout(),
		Unique:        cfg.Output.Unique,
		Notifier:      presenter,
		Logger:        logger,
	})

	start := time.Now()
	results, err := harvester.Run(ctx, hosts, mode)
	if err != nil {
		return usageError(err)
	}
	stats := harvester.LastStats()

	presenter.Finish(ui.RunStats{
		Duration:     time.Since(start),
		Hosts:        stats.Hosts,
		Completed:    stats.Completed,
		Skipped:      stats.Skipped,
		PeakInFlight: stats.PeakInFlight,
		Subdomains:   len(results),
	})

	// 8. Salida
	if err := writeOutput(cfg, mode, hosts, results); err != nil {
		return outputError(err)
	}

	logger.Info("subharvest finished",
		"elapsed_ms", time.Since(start).Milliseconds(),
		"subdomains", len(results),
		"skipped_hosts", stats.Skipped,
	)
	return nil
}

// catalogOf describe las fuentes registradas para la configuración.
func catalogOf(reg *registry.SourceRegistry) config.Catalog {
	var catalog config.Catalog
	seen := make(map[string]bool)
	for _, name := range reg.List() {
		catalog.Sources = append(catalog.Sources, name)
		meta, _ := reg.GetMetadata(name)
		for _, env := range meta.CredentialEnv {
			if !seen[env] {
				seen[env] = true
				catalog.CredentialEnv = append(catalog.CredentialEnv, env)
			}
		}
	}
	return catalog
}

// buildOptions traduce la configuración a las opciones del registry.
func buildOptions(cfg config.Config, logger logx.Logger) registry.BuildOptions {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout()
	httpCfg.MaxRetries = cfg.Network.Retries
	httpCfg.UserAgent = cfg.Network.UserAgent
	httpCfg.ProxyURL = cfg.Network.ProxyURL
	httpCfg.CacheTTL = cfg.Cache.TTL

	settings := make(map[string]registry.SourceSettings, len(cfg.Sources))
	for name, sc := range cfg.Sources {
		settings[name] = registry.SourceSettings{
			Disabled:  sc.Disabled,
			RateLimit: sc.RateLimit,
			BaseURL:   sc.BaseURL,
		}
	}

	capacity := 0
	if cfg.Cache.Enabled {
		capacity = cfg.Cache.Capacity
	}

	return registry.BuildOptions{
		HTTP:          httpCfg,
		CacheCapacity: capacity,
		Settings:      settings,
		Credentials:   cfg.Credentials,
		MaxPages:      cfg.Pagination.MaxPages,
		PageWorkers:   cfg.Pagination.PageWorkers,
		Guard: registry.GuardOptions{
			MaxRetries:       cfg.Resilience.MaxRetries,
			Backoff:          cfg.Resilience.BackoffBase,
			BreakerThreshold: cfg.Resilience.BreakerThreshold,
			BreakerTimeout:   cfg.Resilience.BreakerTimeout,
		},
		Logger: logger,
	}
}

func newLogger(cfg config.Config) logx.Logger {
	logger := logx.New()
	switch {
	case cfg.Output.Quiet:
		logger.SetLevel(logx.LevelError)
	case cfg.Output.Verbose:
		logger.SetLevel(logx.LevelDebug)
	}
	return logger
}

func newPresenter(cfg config.Config) ui.Presenter {
	if cfg.Output.Quiet {
		return ui.NewNoopPresenter()
	}
	return ui.NewPTermPresenter(ui.PTermOptions{
		Writer:       os.Stderr,
		ShowProgress: !cfg.Output.NoProgress,
	})
}

// writeOutput escribe los resultados en stdout o en --output.
func writeOutput(cfg config.Config, mode domain.RunMode, hosts []domain.Host, results []string) (err error) {
	w, err := output.Open(cfg.Output.File)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	format := output.FormatText
	if cfg.Output.JSON {
		format = output.FormatJSON
	}

	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.String()
	}
	return output.Write(w, format, output.NewReport(mode.String(), names, results, cfg.Output.Unique))
}

// printSources lista las fuentes registradas con su tier y credenciales.
func printSources(cmd *cobra.Command, reg *registry.SourceRegistry) error {
	data := pterm.TableData{{"Source", "Tier", "Credentials", "Description"}}
	for _, name := range reg.List() {
		meta, _ := reg.GetMetadata(name)
		creds := "-"
		if len(meta.CredentialEnv) > 0 {
			creds = fmt.Sprint(meta.CredentialEnv)
		}
		data = append(data, []string{name, meta.Tier.String(), creds, meta.Description})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return outputError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

// rootContextWithSignals crea el contexto raíz con timeout opcional y cancelación por señal.
// El cancel retornado libera la suscripción a señales y la goroutine.
func rootContextWithSignals(timeoutSeconds int) (context.Context, context.CancelFunc) {
	var base context.Context
	var baseCancel context.CancelFunc

	if timeoutSeconds > 0 {
		base, baseCancel = context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	} else {
		base, baseCancel = context.WithCancel(context.Background())
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	// Espera una señal o la cancelación del contexto
	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
