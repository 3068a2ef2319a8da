package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// SettlementWorker runs settlement passes on a fixed interval. Each pass
// gets its own deadline so a slow provider can't make passes pile up.
type SettlementWorker struct {
	orchestrator *SettlementOrchestrator
	interval     time.Duration
	passBudget   time.Duration
	done         chan struct{}
}

// NewSettlementWorker creates a new settlement worker
func NewSettlementWorker(orchestrator *SettlementOrchestrator, interval, passBudget time.Duration) *SettlementWorker {
	return &SettlementWorker{
		orchestrator: orchestrator,
		interval:     interval,
		passBudget:   passBudget,
		done:         make(chan struct{}),
	}
}

// Start launches the worker loop. The first pass runs immediately; the
// loop exits when the context is cancelled.
func (w *SettlementWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Wait blocks until the worker loop has exited
func (w *SettlementWorker) Wait() {
	<-w.done
}

func (w *SettlementWorker) run(ctx context.Context) {
	defer close(w.done)

	log.WithFields(log.Fields{
		"interval":   w.interval,
		"passBudget": w.passBudget,
	}).Info("Settlement worker started")

	w.runPass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Settlement worker stopping")
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

func (w *SettlementWorker) runPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, w.passBudget)
	defer cancel()

	if _, err := w.orchestrator.RunPass(passCtx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("Settlement pass failed")
	}
}
