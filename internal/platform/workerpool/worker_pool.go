// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"subharvest/internal/platform/logx"
)

// Task representa una tarea a ejecutar en el worker pool.
type Task interface {
	// Execute ejecuta la tarea
	Execute(ctx context.Context) error

	// Name retorna el nombre de la tarea
	Name() string
}

// TaskFunc adapta una función a Task.
type TaskFunc struct {
	ID string
	Fn func(ctx context.Context) error
}

// Execute implementa Task.
func (t TaskFunc) Execute(ctx context.Context) error { return t.Fn(ctx) }

// Name implementa Task.
func (t TaskFunc) Name() string { return t.ID }

// WorkerPool ejecuta tareas con un número fijo de workers: nunca hay más de
// Workers tareas en ejecución; el resto espera en cola.
type WorkerPool struct {
	workers int
	logger  logx.Logger

	inFlight atomic.Int64
	peak     atomic.Int64
	done     atomic.Int64
	skipped  atomic.Int64
}

// TaskResult representa el resultado de una tarea.
type TaskResult struct {
	Task     Task
	Error    error
	Duration time.Duration

	// Skipped indica que la tarea no llegó a ejecutarse (contexto cancelado en cola)
	Skipped bool
}

// WorkerPoolConfig configura el worker pool.
type WorkerPoolConfig struct {
	Workers int
	Logger  logx.Logger
}

// NewWorkerPool crea un nuevo worker pool.
func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.NewSilent()
	}

	return &WorkerPool{
		workers: cfg.Workers,
		logger:  cfg.Logger.With("component", "worker-pool"),
	}
}

// Submit ejecuta todas las tareas y retorna sus resultados en orden de
// finalización. onResult, si no es nil, se invoca desde el goroutine
// colector por cada resultado en cuanto está disponible.
// Si ctx se cancela, las tareas aún en cola se marcan como Skipped; las que
// están en ejecución reciben ctx y terminan por su cuenta.
func (wp *WorkerPool) Submit(ctx context.Context, tasks []Task, onResult func(TaskResult)) []TaskResult {
	if len(tasks) == 0 {
		return []TaskResult{}
	}

	workers := wp.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	wp.logger.Debug("submitting tasks", "total", len(tasks), "workers", workers)

	taskQueue := make(chan Task)
	results := make(chan TaskResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range taskQueue {
				results <- wp.executeTask(ctx, id, task)
			}
		}(i)
	}

	go func() {
		defer close(taskQueue)
		for _, task := range tasks {
			if ctx.Err() != nil {
				wp.skipped.Add(1)
				results <- TaskResult{Task: task, Error: ctx.Err(), Skipped: true}
				continue
			}
			select {
			case taskQueue <- task:
			case <-ctx.Done():
				wp.skipped.Add(1)
				results <- TaskResult{Task: task, Error: ctx.Err(), Skipped: true}
			}
		}
	}()

	collected := make([]TaskResult, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		res := <-results
		if onResult != nil {
			onResult(res)
		}
		collected = append(collected, res)
	}

	wg.Wait()
	return collected
}

// executeTask ejecuta una tarea individual.
func (wp *WorkerPool) executeTask(ctx context.Context, workerID int, task Task) TaskResult {
	n := wp.inFlight.Add(1)
	for {
		p := wp.peak.Load()
		if n <= p || wp.peak.CompareAndSwap(p, n) {
			break
		}
	}
	defer wp.inFlight.Add(-1)

	start := time.Now()
	err := task.Execute(ctx)
	duration := time.Since(start)
	wp.done.Add(1)

	wp.logger.Debug("task completed",
		"worker_id", workerID,
		"task", task.Name(),
		"duration_ms", duration.Milliseconds(),
		"error", err != nil,
	)

	return TaskResult{Task: task, Error: err, Duration: duration}
}

// Stats retorna estadísticas del worker pool.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		Workers:      wp.workers,
		InFlight:     int(wp.inFlight.Load()),
		PeakInFlight: int(wp.peak.Load()),
		Completed:    int(wp.done.Load()),
		Skipped:      int(wp.skipped.Load()),
	}
}

// WorkerPoolStats contiene estadísticas del worker pool.
type WorkerPoolStats struct {
	Workers      int
	InFlight     int
	PeakInFlight int
	Completed    int
	Skipped      int
}
