// internal/core/usecases/scheduler.go
package usecases

import (
	"context"
	"time"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/workerpool"
)

// DefaultConcurrency es el número máximo de hosts procesados a la vez.
const DefaultConcurrency = 200

// Scheduler procesa un batch de hosts con paralelismo acotado. Los resultados
// llegan en orden de finalización, sin garantía de orden respecto a la entrada.
type Scheduler struct {
	sources    []ports.Source
	aggregator *Aggregator
	pool       *workerpool.WorkerPool
	notifier   ports.Notifier
	logger     logx.Logger
}

// SchedulerOptions configura el scheduler.
type SchedulerOptions struct {
	// Sources lista fija de fuentes; se selecciona una vez por batch
	Sources     []ports.Source
	Concurrency int
	Aggregator  *Aggregator
	Notifier    ports.Notifier
	Logger      logx.Logger
}

// Stats resume la ejecución de un batch.
type Stats struct {
	Hosts        int
	Completed    int
	Skipped      int
	PeakInFlight int
	Duration     time.Duration
}

// NewScheduler crea un nuevo scheduler.
func NewScheduler(opts SchedulerOptions) *Scheduler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}
	if opts.Notifier == nil {
		opts.Notifier = ports.NopNotifier{}
	}
	if opts.Aggregator == nil {
		opts.Aggregator = NewAggregator(AggregatorOptions{Logger: opts.Logger, Notifier: opts.Notifier})
	}

	return &Scheduler{
		sources:    opts.Sources,
		aggregator: opts.Aggregator,
		pool: workerpool.NewWorkerPool(workerpool.WorkerPoolConfig{
			Workers: opts.Concurrency,
			Logger:  opts.Logger,
		}),
		notifier: opts.Notifier,
		logger:   opts.Logger.With("component", "scheduler"),
	}
}

// Run procesa todos los hosts y retorna un set por host completado, en orden
// de finalización. Si ctx se cancela, los hosts en cola se omiten y los que
// están en curso devuelven lo que hayan reunido.
func (s *Scheduler) Run(ctx context.Context, hosts []domain.Host) ([]domain.SubdomainSet, Stats) {
	start := time.Now()

	tasks := make([]workerpool.Task, len(hosts))
	for i, h := range hosts {
		tasks[i] = &hostStartTask{HostTask: NewHostTask(h, s.sources, s.aggregator), notifier: s.notifier}
	}

	s.logger.Info("starting batch", "hosts", len(hosts), "sources", len(s.sources))

	sets := make([]domain.SubdomainSet, 0, len(hosts))
	stats := Stats{Hosts: len(hosts)}

	s.pool.Submit(ctx, tasks, func(res workerpool.TaskResult) {
		if res.Skipped {
			stats.Skipped++
			return
		}
		ht := res.Task.(*hostStartTask)
		set := ht.Result()
		sets = append(sets, set)
		stats.Completed++

		ev := ports.NewEvent(ports.EventTypeHostCompleted, ht.Name())
		ev.Count = set.Len()
		s.notifier.Notify(ev)
	})

	stats.PeakInFlight = s.pool.Stats().PeakInFlight
	stats.Duration = time.Since(start)

	done := ports.NewEvent(ports.EventTypeBatchCompleted, "")
	done.Count = stats.Completed
	s.notifier.Notify(done)

	s.logger.Info("batch completed",
		"hosts", stats.Hosts,
		"completed", stats.Completed,
		"skipped", stats.Skipped,
		"peak_in_flight", stats.PeakInFlight,
		"duration_ms", stats.Duration.Milliseconds(),
	)

	return sets, stats
}

// hostStartTask emite host.started cuando el worker toma la tarea.
type hostStartTask struct {
	*HostTask
	notifier ports.Notifier
}

func (t *hostStartTask) Execute(ctx context.Context) error {
	t.notifier.Notify(ports.NewEvent(ports.EventTypeHostStarted, t.Name()))
	return t.HostTask.Execute(ctx)
}
