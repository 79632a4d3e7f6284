package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CoinScreen/internal/domain/models"
	drepo "CoinScreen/internal/domain/repository"
)

// TickProcessor accumulates live ticks and flushes them to the store in
// batches. Flushes happen on size or on the batch timeout, whichever
// comes first.
type TickProcessor struct {
	store   drepo.TickStore
	metrics drepo.Metrics
	batchSz int
	batchTO time.Duration

	mu    sync.Mutex
	buf   []*models.Tick
	timer *time.Timer
}

// NewTickProcessor creates a new TickProcessor instance.
func NewTickProcessor(store drepo.TickStore, metrics drepo.Metrics, batchSz int, batchTO time.Duration) *TickProcessor {
	if batchSz <= 0 {
		batchSz = 500
	}
	if batchTO <= 0 {
		batchTO = 2 * time.Second
	}
	return &TickProcessor{
		store:   store,
		metrics: metrics,
		batchSz: batchSz,
		batchTO: batchTO,
		buf:     make([]*models.Tick, 0, batchSz),
	}
}

// Process enqueues one tick, flushing when the batch is full.
func (p *TickProcessor) Process(ctx context.Context, t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	p.mu.Lock()
	p.buf = append(p.buf, t)
	full := len(p.buf) >= p.batchSz
	if !full && p.timer == nil {
		p.timer = time.AfterFunc(p.batchTO, func() {
			// timeout flush runs detached from the caller's context
			_ = p.Flush(context.Background())
		})
	}
	p.mu.Unlock()

	if full {
		return p.Flush(ctx)
	}
	return nil
}

// Flush writes the pending batch to the store.
func (p *TickProcessor) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if len(p.buf) == 0 {
		p.mu.Unlock()
		return nil
	}
	batch := p.buf
	p.buf = make([]*models.Tick, 0, p.batchSz)
	p.mu.Unlock()

	start := time.Now()
	if err := p.store.StoreTicks(ctx, batch); err != nil {
		p.metrics.RecordError("store_ticks")
		return fmt.Errorf("flush ticks: %w", err)
	}
	for _, t := range batch {
		p.metrics.RecordTickStored("binance", t.CoinID)
	}
	p.metrics.RecordLatency("store_ticks", time.Since(start).Seconds())
	return nil
}

// Close flushes the remainder and releases the store.
func (p *TickProcessor) Close() {
	_ = p.Flush(context.Background())
	if p.store != nil {
		_ = p.store.Close()
	}
}
