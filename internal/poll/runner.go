package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jlobacci/goout-backend/pkg/logger"
)

// Task is one unit of periodic work. Errors are logged, never fatal.
type Task func(ctx context.Context) error

type task struct {
	name     string
	interval time.Duration
	fn       Task
	inFlight atomic.Bool
}

// Runner drives registered tasks on independent tickers. A tick that
// arrives while the previous run is still executing is skipped, so a slow
// backend never stacks concurrent runs of the same task.
type Runner struct {
	mu      sync.Mutex
	tasks   []*task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner creates a Runner
func NewRunner() *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a task. Must be called before Start.
func (r *Runner) Add(name string, interval time.Duration, fn Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, &task{
		name:     name,
		interval: interval,
		fn:       fn,
	})
}

// Start launches one goroutine per task. Each task runs once immediately,
// then on its ticker.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	for _, t := range r.tasks {
		r.wg.Add(1)
		go r.loop(t)
	}
}

func (r *Runner) loop(t *task) {
	defer r.wg.Done()

	r.run(t)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.run(t)
		}
	}
}

func (r *Runner) run(t *task) {
	if !t.inFlight.CompareAndSwap(false, true) {
		logger.Get().Debug().Str("task", t.name).Msg("Poll tick skipped, previous run still in flight")
		return
	}
	defer t.inFlight.Store(false)

	if err := t.fn(r.ctx); err != nil {
		logger.Get().Error().Err(err).Str("task", t.name).Msg("Poll task failed")
	}
}

// Stop cancels all tasks and waits for in-flight runs to return
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
