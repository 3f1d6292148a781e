package api

import (
	"context"
	"net/http"
	"time"

	"github.com/qfdstudio/hoq/internal/cache"
	"github.com/qfdstudio/hoq/internal/events"
	"github.com/qfdstudio/hoq/internal/metrics"
	"github.com/qfdstudio/hoq/internal/qfd"
	"github.com/qfdstudio/hoq/internal/store"
)

type AnalysisHandler struct {
	store  store.Store
	events events.Client
	cache  *cache.AnalysisCache
}

func NewAnalysisHandler(s store.Store, ec events.Client, ac *cache.AnalysisCache) *AnalysisHandler {
	return &AnalysisHandler{store: s, events: ec, cache: ac}
}

func (h *AnalysisHandler) Full(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	analysis, ok := h.loadAnalysis(w, r, project)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *AnalysisHandler) Priorities(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	analysis, ok := h.loadAnalysis(w, r, project)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Priorities)
}

func (h *AnalysisHandler) Targets(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	analysis, ok := h.loadAnalysis(w, r, project)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Targets)
}

func (h *AnalysisHandler) Insights(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	analysis, ok := h.loadAnalysis(w, r, project)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Insights)
}

func (h *AnalysisHandler) Legend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, qfd.Legend())
}

func (h *AnalysisHandler) loadAnalysis(w http.ResponseWriter, r *http.Request, project *store.Project) (*qfd.Analysis, bool) {
	analysis, err := h.analysisFor(r.Context(), project)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if analysis == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return nil, false
	}
	return analysis, true
}

// analysisFor serves from cache when possible, otherwise computes from a
// fresh snapshot, warms the cache, and announces the result. Returns nil
// when the project disappeared between the ownership check and the read.
func (h *AnalysisHandler) analysisFor(ctx context.Context, project *store.Project) (*qfd.Analysis, error) {
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, project.ID); err == nil && cached != nil {
			return cached, nil
		}
	}

	snap, err := h.store.GetSnapshot(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	start := time.Now()
	analysis := qfd.Analyze(*snap)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.AnalysesComputed.WithLabelValues(metrics.TriggerRequest).Inc()

	if h.cache != nil {
		_ = h.cache.Set(ctx, project.ID, &analysis)
	}
	if h.events != nil {
		evt := events.AnalysisComputedEvent{
			ProjectID:      project.ID.String(),
			OwnerID:        project.OwnerID,
			TechnicalCount: len(analysis.Priorities),
			ComputedAt:     time.Now().UTC(),
		}
		if top := topPriority(analysis.Priorities); top != nil {
			evt.TopTechnicalID = top.TechnicalID.String()
			evt.TopScore = top.Score
		}
		_ = h.events.Publish(events.SubjectAnalysisComputed(project.ID.String()), evt)
		metrics.EventsPublished.WithLabelValues(metrics.KindAnalysisComputed).Inc()
	}

	return &analysis, nil
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
