package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/cache"
	"github.com/qfdstudio/hoq/internal/events"
	"github.com/qfdstudio/hoq/internal/metrics"
	"github.com/qfdstudio/hoq/internal/store"
	"github.com/qfdstudio/hoq/internal/validate"
)

type ProjectsHandler struct {
	store  store.Store
	events events.Client
	cache  *cache.AnalysisCache
}

func NewProjectsHandler(s store.Store, ec events.Client, ac *cache.AnalysisCache) *ProjectsHandler {
	return &ProjectsHandler{store: s, events: ec, cache: ac}
}

type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Project(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req CreateProjectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	project := &store.Project{
		OwnerID:     r.Header.Get("X-User-ID"),
		Name:        req.Name,
		Description: req.Description,
		Competitors: req.Competitors,
	}
	if project.Competitors == nil {
		project.Competitors = []string{}
	}

	if err := h.store.CreateProject(r.Context(), project); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityProject, events.ActionCreated, project.ID.String())
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ProjectFilter{Name: r.URL.Query().Get("name")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	projects, err := h.store.ListProjects(r.Context(), r.Header.Get("X-User-ID"), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if projects == nil {
		projects = []*store.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, project)
}

type UpdateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Competitors *[]string `json:"competitors"`
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
			return
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Competitors != nil {
		project.Competitors = *req.Competitors
	}

	if err := h.store.UpdateProject(r.Context(), project); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityProject, events.ActionUpdated, project.ID.String())
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project, ok := resolveProject(h.store, w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteProject(r.Context(), project.OwnerID, project.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	publishChange(h.events, h.cache, r, project, events.EntityProject, events.ActionDeleted, project.ID.String())
	w.WriteHeader(http.StatusNoContent)
}

// resolveProject parses {projectID} and loads the project scoped to the
// calling user. A miss writes the error response and returns false; child
// entity handlers rely on this as their ownership check.
func resolveProject(s store.Store, w http.ResponseWriter, r *http.Request) (*store.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project id"})
		return nil, false
	}

	project, err := s.GetProject(r.Context(), r.Header.Get("X-User-ID"), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return nil, false
	}
	return project, true
}

// publishChange invalidates the cached analysis and announces the mutation.
// Both are best-effort; a dead broker or cache never fails the write.
func publishChange(ec events.Client, ac *cache.AnalysisCache, r *http.Request, p *store.Project, entity, action, entityID string) {
	if ac != nil {
		_ = ac.Invalidate(r.Context(), p.ID)
	}
	if ec != nil {
		_ = ec.Publish(events.SubjectProjectChanged(p.ID.String()), events.ProjectChangedEvent{
			ProjectID: p.ID.String(),
			OwnerID:   p.OwnerID,
			Entity:    entity,
			Action:    action,
			EntityID:  entityID,
			Timestamp: time.Now().UTC(),
		})
		metrics.EventsPublished.WithLabelValues(metrics.KindProjectChanged).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
