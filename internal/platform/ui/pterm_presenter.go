// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
)

// PTermOptions configura el PTermPresenter.
type PTermOptions struct {
	// Writer destino de la presentación (default: os.Stderr, stdout queda para resultados)
	Writer io.Writer

	// ShowProgress muestra la barra de progreso de hosts
	ShowProgress bool
}

// PTermPresenter implementa Presenter usando la biblioteca pterm: una barra de
// progreso por hosts completados y un resumen final con los fallos por proveedor.
type PTermPresenter struct {
	mu sync.Mutex

	out          io.Writer
	showProgress bool
	progress     *pterm.ProgressbarPrinter

	info      RunInfo
	startTime time.Time

	// Tracking del batch
	inFlight   int
	completed  int
	subdomains int
	failures   map[string]*SourceSummary
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter(opts PTermOptions) *PTermPresenter {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	return &PTermPresenter{
		out:          opts.Writer,
		showProgress: opts.ShowProgress,
		failures:     make(map[string]*SourceSummary),
	}
}

// Start inicia la presentación mostrando la cabecera del batch
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info = info
	p.startTime = time.Now()

	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprint("subharvest - Subdomain Aggregation")

	content := fmt.Sprintf("%s Hosts: %s\n", IconTarget, pterm.Cyan(info.Hosts))
	content += fmt.Sprintf("   Mode: %s\n", pterm.Yellow(info.Mode))
	content += fmt.Sprintf("%s Sources: %d (%s)\n", IconSources, len(info.Sources), strings.Join(info.Sources, ", "))
	content += fmt.Sprintf("%s Concurrency: %d\n", IconWorkers, info.Concurrency)
	if info.TimeoutS > 0 {
		content += fmt.Sprintf("%s Timeout: %ds", IconTime, info.TimeoutS)
	} else {
		content += fmt.Sprintf("%s Timeout: %s", IconTime, pterm.Gray("none"))
	}

	box := pterm.DefaultBox.
		WithTitle("Batch").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(content)

	fmt.Fprintln(p.out, header)
	fmt.Fprintln(p.out, box)
	fmt.Fprintln(p.out)

	if p.showProgress && info.Hosts > 0 {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(info.Hosts).
			WithTitle(p.titleUnsafe()).
			WithWriter(p.out).
			WithRemoveWhenDone(true).
			Start()
		if err == nil {
			p.progress = bar
		}
	}
}

// Notify recibe los eventos del batch
func (p *PTermPresenter) Notify(event ports.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case ports.EventTypeHostStarted:
		p.inFlight++
		p.updateTitleUnsafe()

	case ports.EventTypeHostCompleted:
		if p.inFlight > 0 {
			p.inFlight--
		}
		p.completed++
		p.subdomains += event.Count
		if p.progress != nil {
			p.progress.UpdateTitle(p.titleUnsafe())
			p.progress.Increment()
		}

	case ports.EventTypeSourceFailed:
		summary, ok := p.failures[event.Source]
		if !ok {
			summary = &SourceSummary{Name: event.Source, ByKind: make(map[string]int)}
			p.failures[event.Source] = summary
		}
		summary.Failures++
		summary.ByKind[errors.Classify(event.Err)]++

	case ports.EventTypeBatchCompleted:
		p.stopProgressUnsafe()
	}
}

// Finish finaliza la presentación con estadísticas finales
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopProgressUnsafe()

	content := fmt.Sprintf("%s Duration: %s\n", IconTime, pterm.Green(formatDuration(stats.Duration)))
	content += fmt.Sprintf("%s Hosts: %s completed", IconTarget, pterm.Cyan(stats.Completed))
	if stats.Skipped > 0 {
		content += fmt.Sprintf(", %s skipped", pterm.Red(stats.Skipped))
	}
	content += fmt.Sprintf("\n%s Peak in flight: %d\n", IconWorkers, stats.PeakInFlight)
	content += fmt.Sprintf("%s Subdomains: %s", IconResults, pterm.Yellow(stats.Subdomains))

	box := pterm.DefaultBox.
		WithTitle("Batch Completed").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen)).
		Sprint(content)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, pterm.LightBlue(SeparatorHeavy))
	fmt.Fprintln(p.out, box)

	summaries := p.summariesUnsafe()
	if len(summaries) == 0 {
		fmt.Fprintln(p.out)
		return
	}

	tableData := pterm.TableData{{"", "Source", "Failed hosts", "Kinds"}}
	for _, s := range summaries {
		status := s.Status(stats.Hosts)
		tableData = append(tableData, []string{
			status.Style().Sprint(status.Symbol()),
			s.Name,
			fmt.Sprintf("%d/%d", s.Failures, stats.Hosts),
			formatKinds(s.ByKind),
		})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(tableData).
		Srender()
	if err != nil {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, table)
	fmt.Fprintln(p.out)
}

// Summaries retorna los fallos acumulados por proveedor, en el orden de las fuentes.
func (p *PTermPresenter) Summaries() []SourceSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.summariesUnsafe()
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopProgressUnsafe()
	return nil
}

func (p *PTermPresenter) summariesUnsafe() []SourceSummary {
	rank := make(map[string]int, len(p.info.Sources))
	for i, name := range p.info.Sources {
		rank[name] = i
	}

	out := make([]SourceSummary, 0, len(p.failures))
	for _, s := range p.failures {
		kinds := make(map[string]int, len(s.ByKind))
		for k, v := range s.ByKind {
			kinds[k] = v
		}
		out = append(out, SourceSummary{Name: s.Name, Failures: s.Failures, ByKind: kinds})
	}

	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i].Name]
		rj, jok := rank[out[j].Name]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (p *PTermPresenter) titleUnsafe() string {
	return fmt.Sprintf("Hosts (%d in flight, %d subdomains)", p.inFlight, p.subdomains)
}

func (p *PTermPresenter) updateTitleUnsafe() {
	if p.progress != nil {
		p.progress.UpdateTitle(p.titleUnsafe())
	}
}

func (p *PTermPresenter) stopProgressUnsafe() {
	if p.progress == nil {
		return
	}
	_, _ = p.progress.Stop()
	p.progress = nil
}

// formatKinds formatea {"timeout":2,"protocol":1} como "protocol=1 timeout=2".
func formatKinds(kinds map[string]int) string {
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[k]))
	}
	return strings.Join(parts, " ")
}
