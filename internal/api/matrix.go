package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/cache"
	"github.com/qfdstudio/hoq/internal/events"
	"github.com/qfdstudio/hoq/internal/qfd"
	"github.com/qfdstudio/hoq/internal/store"
	"github.com/qfdstudio/hoq/internal/validate"
)

// MatrixHandler covers the relationship matrix body and the correlation
// roof. Cells are addressed by requirement pair, not by their own id.
type MatrixHandler struct {
	store  store.Store
	events events.Client
	cache  *cache.AnalysisCache
}

func NewMatrixHandler(s store.Store, ec events.Client, ac *cache.AnalysisCache) *MatrixHandler {
	return &MatrixHandler{store: s, events: ec, cache: ac}
}

type PutRelationshipRequest struct {
	CustomerRequirementID  string `json:"customer_requirement_id"`
	TechnicalRequirementID string `json:"technical_requirement_id"`
	Strength               int    `json:"strength"`
}

func (h *MatrixHandler) PutRelationship(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Relationship(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req PutRelationshipRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	customerID, err := uuid.Parse(req.CustomerRequirementID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_requirement_id"})
		return
	}
	technicalID, err := uuid.Parse(req.TechnicalRequirementID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid technical_requirement_id"})
		return
	}

	cr, err := h.store.GetCustomerRequirement(r.Context(), project.ID, customerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if cr == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer requirement not found in project"})
		return
	}
	tr, err := h.store.GetTechnicalRequirement(r.Context(), project.ID, technicalID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if tr == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "technical requirement not found in project"})
		return
	}

	rel := qfd.Relationship{
		CustomerID:  customerID,
		TechnicalID: technicalID,
		Strength:    qfd.Strength(req.Strength),
	}

	// Strength zero clears the cell; absence and zero are the same state.
	if rel.Strength == qfd.StrengthNone {
		if err := h.store.DeleteRelationship(r.Context(), project.ID, customerID, technicalID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		publishChange(h.events, h.cache, r, project, events.EntityRelationship, events.ActionDeleted, "")
		writeJSON(w, http.StatusOK, rel)
		return
	}

	if err := h.store.UpsertRelationship(r.Context(), project.ID, rel); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityRelationship, events.ActionUpdated, "")
	writeJSON(w, http.StatusOK, rel)
}

func (h *MatrixHandler) ListRelationships(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	rels, err := h.store.ListRelationships(r.Context(), project.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rels == nil {
		rels = []qfd.Relationship{}
	}
	writeJSON(w, http.StatusOK, rels)
}

func (h *MatrixHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer requirement id"})
		return
	}
	technicalID, err := uuid.Parse(chi.URLParam(r, "technicalID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid technical requirement id"})
		return
	}

	if err := h.store.DeleteRelationship(r.Context(), project.ID, customerID, technicalID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityRelationship, events.ActionDeleted, "")
	w.WriteHeader(http.StatusNoContent)
}

type PutCorrelationRequest struct {
	Requirement1ID string `json:"requirement1_id"`
	Requirement2ID string `json:"requirement2_id"`
	Correlation    int    `json:"correlation"`
}

func (h *MatrixHandler) PutCorrelation(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Correlation(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req PutCorrelationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req1ID, err := uuid.Parse(req.Requirement1ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement1_id"})
		return
	}
	req2ID, err := uuid.Parse(req.Requirement2ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement2_id"})
		return
	}
	if req1ID == req2ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a requirement cannot correlate with itself"})
		return
	}

	for _, reqID := range []uuid.UUID{req1ID, req2ID} {
		tr, err := h.store.GetTechnicalRequirement(r.Context(), project.ID, reqID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if tr == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "technical requirement " + reqID.String() + " not found in project"})
			return
		}
	}

	corr := qfd.TechnicalCorrelation{
		Req1ID:      req1ID,
		Req2ID:      req2ID,
		Correlation: qfd.Correlation(req.Correlation),
	}.Canonical()

	// Correlation zero clears the roof cell, mirroring relationships.
	if corr.Correlation == qfd.CorrelationNone {
		if err := h.store.DeleteCorrelation(r.Context(), project.ID, corr.Req1ID, corr.Req2ID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		publishChange(h.events, h.cache, r, project, events.EntityCorrelation, events.ActionDeleted, "")
		writeJSON(w, http.StatusOK, corr)
		return
	}

	if err := h.store.UpsertCorrelation(r.Context(), project.ID, corr); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityCorrelation, events.ActionUpdated, "")
	writeJSON(w, http.StatusOK, corr)
}

func (h *MatrixHandler) ListCorrelations(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	corrs, err := h.store.ListCorrelations(r.Context(), project.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if corrs == nil {
		corrs = []qfd.TechnicalCorrelation{}
	}
	writeJSON(w, http.StatusOK, corrs)
}

func (h *MatrixHandler) DeleteCorrelation(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	req1ID, err := uuid.Parse(chi.URLParam(r, "req1ID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}
	req2ID, err := uuid.Parse(chi.URLParam(r, "req2ID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}

	if err := h.store.DeleteCorrelation(r.Context(), project.ID, req1ID, req2ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityCorrelation, events.ActionDeleted, "")
	w.WriteHeader(http.StatusNoContent)
}
