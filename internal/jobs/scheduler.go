package jobs

import (
	"context"
	"sync"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/logger"
	"invoicedash/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const revalidateTimeout = 10 * time.Second

// JobScheduler runs the background jobs of the dashboard
type JobScheduler struct {
	scheduler gocron.Scheduler
	cacheSvc  caching.CacheService
	log       *logger.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler. A zero refreshInterval disables the periodic
// revalidation of the invoices page.
func NewJobScheduler(cacheSvc caching.CacheService, refreshInterval time.Duration, log *logger.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		cacheSvc:  cacheSvc,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}

	if refreshInterval > 0 {
		if err := js.register("invoices-page-revalidate", refreshInterval, js.revalidateInvoicesPage); err != nil {
			return nil, err
		}
	}

	log.Infow("registered background jobs", "count", len(js.jobs))
	return js, nil
}

func (js *JobScheduler) register(name string, every time.Duration, task func()) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Infow("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.log.Infow("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// Jobs lists the names of the registered jobs
func (js *JobScheduler) Jobs() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

// revalidateInvoicesPage drops cached renderings so changes made outside the dashboard show up
func (js *JobScheduler) revalidateInvoicesPage() {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	if err := js.cacheSvc.RevalidatePath(ctx, services.InvoicesPath); err != nil {
		js.log.Errorw("scheduled revalidation failed", "path", services.InvoicesPath, "error", err)
		return
	}
	js.log.Debugw("scheduled revalidation done", "path", services.InvoicesPath)
}
