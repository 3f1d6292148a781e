package api

import (
	"encoding/json"
	"fmt"
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

type RequirementsHandler struct {
	store  store.Store
	events events.Client
	cache  *cache.AnalysisCache
}

func NewRequirementsHandler(s store.Store, ec events.Client, ac *cache.AnalysisCache) *RequirementsHandler {
	return &RequirementsHandler{store: s, events: ec, cache: ac}
}

type CreateCustomerRequirementRequest struct {
	Description string `json:"description"`
	Importance  int    `json:"importance"`
	Ratings     []int  `json:"ratings,omitempty"`
}

func (h *RequirementsHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.CustomerRequirement(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req CreateCustomerRequirementRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Ratings) > len(project.Competitors) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("%d ratings for %d competitors", len(req.Ratings), len(project.Competitors)),
		})
		return
	}

	cr := &qfd.CustomerRequirement{
		Description: req.Description,
		Importance:  req.Importance,
		Ratings:     req.Ratings,
	}
	if cr.Ratings == nil {
		cr.Ratings = []int{}
	}

	if err := h.store.CreateCustomerRequirement(r.Context(), project.ID, cr); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityCustomerRequirement, events.ActionCreated, cr.ID.String())
	writeJSON(w, http.StatusCreated, cr)
}

func (h *RequirementsHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	reqs, err := h.store.ListCustomerRequirements(r.Context(), project.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if reqs == nil {
		reqs = []qfd.CustomerRequirement{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

type UpdateCustomerRequirementRequest struct {
	Description *string `json:"description"`
	Importance  *int    `json:"importance"`
	Ratings     *[]int  `json:"ratings"`
}

func (h *RequirementsHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}

	cr, err := h.store.GetCustomerRequirement(r.Context(), project.ID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if cr == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer requirement not found"})
		return
	}

	var req UpdateCustomerRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Description != nil {
		if *req.Description == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description cannot be empty"})
			return
		}
		cr.Description = *req.Description
	}
	if req.Importance != nil {
		if *req.Importance < 1 || *req.Importance > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "importance must be between 1 and 5"})
			return
		}
		cr.Importance = *req.Importance
	}
	if req.Ratings != nil {
		ratings := *req.Ratings
		if len(ratings) > len(project.Competitors) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("%d ratings for %d competitors", len(ratings), len(project.Competitors)),
			})
			return
		}
		for _, rating := range ratings {
			if rating < 1 || rating > 5 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ratings must be between 1 and 5"})
				return
			}
		}
		cr.Ratings = ratings
	}

	if err := h.store.UpdateCustomerRequirement(r.Context(), project.ID, cr); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityCustomerRequirement, events.ActionUpdated, cr.ID.String())
	writeJSON(w, http.StatusOK, cr)
}

func (h *RequirementsHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}

	cr, err := h.store.GetCustomerRequirement(r.Context(), project.ID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if cr == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer requirement not found"})
		return
	}

	if err := h.store.DeleteCustomerRequirement(r.Context(), project.ID, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityCustomerRequirement, events.ActionDeleted, id.String())
	w.WriteHeader(http.StatusNoContent)
}

type CreateTechnicalRequirementRequest struct {
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Target      string `json:"target,omitempty"`
	Difficulty  int    `json:"difficulty"`
}

func (h *RequirementsHandler) CreateTechnical(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.TechnicalRequirement(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req CreateTechnicalRequirementRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tr := &qfd.TechnicalRequirement{
		Description: req.Description,
		Unit:        req.Unit,
		Target:      req.Target,
		Difficulty:  req.Difficulty,
	}

	if err := h.store.CreateTechnicalRequirement(r.Context(), project.ID, tr); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityTechnicalRequirement, events.ActionCreated, tr.ID.String())
	writeJSON(w, http.StatusCreated, tr)
}

func (h *RequirementsHandler) ListTechnicals(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	reqs, err := h.store.ListTechnicalRequirements(r.Context(), project.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if reqs == nil {
		reqs = []qfd.TechnicalRequirement{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

type UpdateTechnicalRequirementRequest struct {
	Description *string `json:"description"`
	Unit        *string `json:"unit"`
	Target      *string `json:"target"`
	Difficulty  *int    `json:"difficulty"`
}

func (h *RequirementsHandler) UpdateTechnical(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}

	tr, err := h.store.GetTechnicalRequirement(r.Context(), project.ID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if tr == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "technical requirement not found"})
		return
	}

	var req UpdateTechnicalRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Description != nil {
		if *req.Description == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description cannot be empty"})
			return
		}
		tr.Description = *req.Description
	}
	if req.Unit != nil {
		tr.Unit = *req.Unit
	}
	if req.Target != nil {
		tr.Target = *req.Target
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "difficulty must be between 1 and 5"})
			return
		}
		tr.Difficulty = *req.Difficulty
	}

	if err := h.store.UpdateTechnicalRequirement(r.Context(), project.ID, tr); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityTechnicalRequirement, events.ActionUpdated, tr.ID.String())
	writeJSON(w, http.StatusOK, tr)
}

func (h *RequirementsHandler) DeleteTechnical(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement id"})
		return
	}

	tr, err := h.store.GetTechnicalRequirement(r.Context(), project.ID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if tr == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "technical requirement not found"})
		return
	}

	if err := h.store.DeleteTechnicalRequirement(r.Context(), project.ID, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityTechnicalRequirement, events.ActionDeleted, id.String())
	w.WriteHeader(http.StatusNoContent)
}
