// Package refresher keeps analysis results warm. It watches the project
// change feed, collects dirty project ids, and recomputes their analyses
// on a fixed tick so interactive reads mostly land on the cache.
package refresher

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/cache"
	"github.com/qfdstudio/hoq/internal/events"
	"github.com/qfdstudio/hoq/internal/metrics"
	"github.com/qfdstudio/hoq/internal/qfd"
	"github.com/qfdstudio/hoq/internal/store"
)

type Refresher struct {
	store  store.Store
	events events.Client
	cache  *cache.AnalysisCache
	tick   time.Duration
	logger *slog.Logger

	dirtyMu sync.Mutex
	dirty   map[uuid.UUID]string // project id -> owner id from the change event

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ec events.Client, ac *cache.AnalysisCache, tick time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		store:  s,
		events: ec,
		cache:  ac,
		tick:   tick,
		logger: logger,
		dirty:  make(map[uuid.UUID]string),
		stopCh: make(chan struct{}),
	}
}

func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.refreshLoop(ctx)
}

func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

// SetupSubscriptions registers the change feed watcher.
func (r *Refresher) SetupSubscriptions() {
	if r.events == nil {
		return
	}

	_ = r.events.Subscribe(events.SubjectProjectChangedAll, func(_ string, data []byte) {
		var evt events.ProjectChangedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			r.logger.Warn("invalid project change event", "error", err)
			return
		}
		id, err := uuid.Parse(evt.ProjectID)
		if err != nil {
			r.logger.Warn("project change event with bad id", "project_id", evt.ProjectID)
			return
		}
		if evt.Entity == events.EntityProject && evt.Action == events.ActionDeleted {
			r.forget(id)
			return
		}
		r.markDirty(id, evt.OwnerID)
	})
}

func (r *Refresher) markDirty(id uuid.UUID, ownerID string) {
	r.dirtyMu.Lock()
	r.dirty[id] = ownerID
	metrics.RefreshQueueDepth.Set(float64(len(r.dirty)))
	r.dirtyMu.Unlock()
}

func (r *Refresher) forget(id uuid.UUID) {
	r.dirtyMu.Lock()
	delete(r.dirty, id)
	metrics.RefreshQueueDepth.Set(float64(len(r.dirty)))
	r.dirtyMu.Unlock()
}

func (r *Refresher) refreshLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.processDirty(ctx)
		}
	}
}

// processDirty drains the dirty set and recomputes each project once.
// Changes arriving mid-pass land in the next tick.
func (r *Refresher) processDirty(ctx context.Context) {
	r.dirtyMu.Lock()
	if len(r.dirty) == 0 {
		r.dirtyMu.Unlock()
		return
	}
	batch := r.dirty
	r.dirty = make(map[uuid.UUID]string)
	metrics.RefreshQueueDepth.Set(0)
	r.dirtyMu.Unlock()

	r.logger.Info("refreshing dirty projects", "count", len(batch))
	for id, ownerID := range batch {
		if err := r.refreshProject(ctx, id, ownerID); err != nil {
			r.logger.Warn("failed to refresh analysis", "project_id", id, "error", err)
		}
	}
}

func (r *Refresher) refreshProject(ctx context.Context, id uuid.UUID, ownerID string) error {
	snap, err := r.store.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if snap == nil {
		// Deleted between the change event and this tick.
		return nil
	}

	start := time.Now()
	analysis := qfd.Analyze(*snap)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.AnalysesComputed.WithLabelValues(metrics.TriggerRefresher).Inc()

	if r.cache != nil {
		_ = r.cache.Set(ctx, id, &analysis)
	}

	if r.events != nil {
		evt := events.AnalysisComputedEvent{
			ProjectID:      id.String(),
			OwnerID:        ownerID,
			TechnicalCount: len(analysis.Priorities),
			ComputedAt:     time.Now().UTC(),
		}
		if top := topPriority(analysis.Priorities); top != nil {
			evt.TopTechnicalID = top.TechnicalID.String()
			evt.TopScore = top.Score
		}
		_ = r.events.Publish(events.SubjectAnalysisComputed(id.String()), evt)
		metrics.EventsPublished.WithLabelValues(metrics.KindAnalysisComputed).Inc()
	}

	r.logger.Info("analysis refreshed", "project_id", id, "technical_count", len(analysis.Priorities))
	return nil
}

func topPriority(priorities []qfd.TechnicalPriority) *qfd.TechnicalPriority {
	var top *qfd.TechnicalPriority
	for i := range priorities {
		if top == nil || priorities[i].Score > top.Score {
			top = &priorities[i]
		}
	}
	return top
}
