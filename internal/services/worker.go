package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/ats-resume-expert/internal/repositories"
)

// Worker runs background maintenance: it evicts sessions that have been idle
// longer than the configured TTL.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	SweepOnce() int
}

type worker struct {
	sessionRepo repositories.SessionRepository
	ttl         time.Duration
	interval    time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(sessionRepo repositories.SessionRepository, ttl, interval time.Duration) Worker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &worker{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		interval:    interval,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	if w.ttl <= 0 {
		log.Println("⚠️ Session TTL disabled, sweeper not started")
		return
	}

	w.wg.Add(1)
	go w.sweepLoop(ctx)

	log.Printf("✅ Session sweeper started (ttl %s, every %s)\n", w.ttl, w.interval)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping session sweeper...")
		close(w.stopChan)
	})
	w.wg.Wait()
}

// SweepOnce implements Worker.
func (w *worker) SweepOnce() int {
	if w.ttl <= 0 {
		return 0
	}
	removed := w.sessionRepo.DeleteIdle(w.now().Add(-w.ttl))
	if removed > 0 {
		log.Printf("🧹 Removed %d idle session(s)\n", removed)
	}
	return removed
}

func (w *worker) sweepLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}
