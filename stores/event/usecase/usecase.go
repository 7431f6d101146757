package usecase

import (
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/base/metrics"
	"github.com/x-xyz/marketledger/domain/event"
)

const (
	defaultWorkers     = 4
	defaultQueueLength = 1024
	scheduleTimeout    = 3 * time.Second
	archiveTimeout     = 10 * time.Second
)

type EventUseCaseCfg struct {
	// Repo records every event before Emit returns and serves FindAll
	Repo event.Repo
	// Archives receive events in the background
	Archives    []event.Repo
	Workers     int
	QueueLength int
}

type impl struct {
	repo     event.Repo
	archives []event.Repo
	pool     *goroutines.Pool
	met      metrics.Service

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
}

func New(cfg *EventUseCaseCfg) event.Usecase {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueLength := cfg.QueueLength
	if queueLength <= 0 {
		queueLength = defaultQueueLength
	}
	return &impl{
		repo:     cfg.Repo,
		archives: cfg.Archives,
		pool:     goroutines.NewPool(workers, goroutines.WithTaskQueueLength(queueLength)),
		met:      metrics.New("event"),
	}
}

func (im *impl) Emit(c ctx.Ctx, e event.Event) {
	c = ctx.WithFields(c, log.Fields{"eventId": e.Id, "kind": e.Kind})
	if err := im.repo.Insert(c, e); err != nil {
		c.WithField("err", err).Error("repo.Insert failed")
	}
	im.met.BumpSum("emit", 1, "kind", string(e.Kind))

	im.mu.RLock()
	defer im.mu.RUnlock()
	if im.closed {
		c.Warn("publisher closed, skip archiving")
		return
	}
	for _, archive := range im.archives {
		archive := archive
		im.pending.Add(1)
		err := im.pool.ScheduleWithTimeout(scheduleTimeout, func() {
			defer im.pending.Done()
			// the request context may be gone by the time the task runs
			bg, cancel := ctx.WithTimeout(ctx.Background(), archiveTimeout)
			defer cancel()
			bg = ctx.WithFields(bg, log.Fields{"eventId": e.Id, "kind": e.Kind})
			if err := archive.Insert(bg, e); err != nil {
				im.met.BumpSum("archive.err", 1, "kind", string(e.Kind))
				bg.WithField("err", err).Error("archive.Insert failed")
			}
		})
		if err != nil {
			im.pending.Done()
			c.WithField("err", err).Error("failed to ScheduleWithTimeout")
		}
	}
}

func (im *impl) FindAll(c ctx.Ctx, opts ...event.FindAllOptions) ([]event.Event, error) {
	es, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return es, nil
}

// Close waits for the scheduled archive writes and stops the workers
func (im *impl) Close() {
	im.mu.Lock()
	if im.closed {
		im.mu.Unlock()
		return
	}
	im.closed = true
	im.mu.Unlock()

	im.pending.Wait()
	im.pool.Release()
}
