package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/qfd"
)

// MemoryStore keeps all worksheets in process memory. It backs handler
// tests and local runs without Postgres, and follows the same not-found
// convention as PostgresStore: nil result, nil error.
type MemoryStore struct {
	mu            sync.RWMutex
	projects      map[uuid.UUID]*Project
	customers     map[uuid.UUID][]qfd.CustomerRequirement
	technicals    map[uuid.UUID][]qfd.TechnicalRequirement
	relationships map[uuid.UUID][]qfd.Relationship
	correlations  map[uuid.UUID][]qfd.TechnicalCorrelation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:      make(map[uuid.UUID]*Project),
		customers:     make(map[uuid.UUID][]qfd.CustomerRequirement),
		technicals:    make(map[uuid.UUID][]qfd.TechnicalRequirement),
		relationships: make(map[uuid.UUID][]qfd.Relationship),
		correlations:  make(map[uuid.UUID][]qfd.TechnicalCorrelation),
	}
}

func (s *MemoryStore) Close() error { return nil }

// --- Projects ---

func (s *MemoryStore) CreateProject(ctx context.Context, p *Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, ownerID string, id uuid.UUID) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProjects(ctx context.Context, ownerID string, filter ProjectFilter) ([]*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var projects []*Project
	for _, p := range s.projects {
		if p.OwnerID != ownerID {
			continue
		}
		if filter.Name != "" && !containsFold(p.Name, filter.Name) {
			continue
		}
		cp := *p
		projects = append(projects, &cp)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	offset := filter.Offset
	if offset > len(projects) {
		offset = len(projects)
	}
	projects = projects[offset:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(projects) {
		projects = projects[:limit]
	}
	return projects, nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, p *Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.projects[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return nil
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Competitors = p.Competitors
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil
	}
	delete(s.projects, id)
	delete(s.customers, id)
	delete(s.technicals, id)
	delete(s.relationships, id)
	delete(s.correlations, id)
	return nil
}

// --- Customer requirements ---

func (s *MemoryStore) CreateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cr.ID = uuid.New()
	s.customers[projectID] = append(s.customers[projectID], *cr)
	return nil
}

func (s *MemoryStore) GetCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.CustomerRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cr := range s.customers[projectID] {
		if cr.ID == id {
			cp := cr
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListCustomerRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.CustomerRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qfd.CustomerRequirement, len(s.customers[projectID]))
	copy(out, s.customers[projectID])
	return out, nil
}

func (s *MemoryStore) UpdateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := s.customers[projectID]
	for i := range reqs {
		if reqs[i].ID == cr.ID {
			reqs[i] = *cr
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) DeleteCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := s.customers[projectID]
	for i := range reqs {
		if reqs[i].ID == id {
			s.customers[projectID] = append(reqs[:i], reqs[i+1:]...)
			break
		}
	}
	// cascade matrix cells
	rels := s.relationships[projectID][:0]
	for _, rel := range s.relationships[projectID] {
		if rel.CustomerID != id {
			rels = append(rels, rel)
		}
	}
	s.relationships[projectID] = rels
	return nil
}

// --- Technical requirements ---

func (s *MemoryStore) CreateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tr.ID = uuid.New()
	s.technicals[projectID] = append(s.technicals[projectID], *tr)
	return nil
}

func (s *MemoryStore) GetTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.TechnicalRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tr := range s.technicals[projectID] {
		if tr.ID == id {
			cp := tr
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListTechnicalRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qfd.TechnicalRequirement, len(s.technicals[projectID]))
	copy(out, s.technicals[projectID])
	return out, nil
}

func (s *MemoryStore) UpdateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := s.technicals[projectID]
	for i := range reqs {
		if reqs[i].ID == tr.ID {
			reqs[i] = *tr
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) DeleteTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := s.technicals[projectID]
	for i := range reqs {
		if reqs[i].ID == id {
			s.technicals[projectID] = append(reqs[:i], reqs[i+1:]...)
			break
		}
	}
	// cascade matrix and roof cells
	rels := s.relationships[projectID][:0]
	for _, rel := range s.relationships[projectID] {
		if rel.TechnicalID != id {
			rels = append(rels, rel)
		}
	}
	s.relationships[projectID] = rels

	corrs := s.correlations[projectID][:0]
	for _, corr := range s.correlations[projectID] {
		if corr.Req1ID != id && corr.Req2ID != id {
			corrs = append(corrs, corr)
		}
	}
	s.correlations[projectID] = corrs
	return nil
}

// --- Relationship matrix ---

func (s *MemoryStore) UpsertRelationship(ctx context.Context, projectID uuid.UUID, rel qfd.Relationship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rels := s.relationships[projectID]
	for i := range rels {
		if rels[i].CustomerID == rel.CustomerID && rels[i].TechnicalID == rel.TechnicalID {
			rels[i].Strength = rel.Strength
			return nil
		}
	}
	s.relationships[projectID] = append(rels, rel)
	return nil
}

func (s *MemoryStore) ListRelationships(ctx context.Context, projectID uuid.UUID) ([]qfd.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qfd.Relationship, len(s.relationships[projectID]))
	copy(out, s.relationships[projectID])
	return out, nil
}

func (s *MemoryStore) DeleteRelationship(ctx context.Context, projectID, customerID, technicalID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rels := s.relationships[projectID]
	for i := range rels {
		if rels[i].CustomerID == customerID && rels[i].TechnicalID == technicalID {
			s.relationships[projectID] = append(rels[:i], rels[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- Correlation roof ---

func (s *MemoryStore) UpsertCorrelation(ctx context.Context, projectID uuid.UUID, corr qfd.TechnicalCorrelation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	corr = corr.Canonical()
	corrs := s.correlations[projectID]
	for i := range corrs {
		if corrs[i].Req1ID == corr.Req1ID && corrs[i].Req2ID == corr.Req2ID {
			corrs[i].Correlation = corr.Correlation
			return nil
		}
	}
	s.correlations[projectID] = append(corrs, corr)
	return nil
}

func (s *MemoryStore) ListCorrelations(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalCorrelation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qfd.TechnicalCorrelation, len(s.correlations[projectID]))
	copy(out, s.correlations[projectID])
	return out, nil
}

func (s *MemoryStore) DeleteCorrelation(ctx context.Context, projectID, req1ID, req2ID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	req1ID, req2ID = qfd.CanonicalPair(req1ID, req2ID)
	corrs := s.correlations[projectID]
	for i := range corrs {
		if corrs[i].Req1ID == req1ID && corrs[i].Req2ID == req2ID {
			s.correlations[projectID] = append(corrs[:i], corrs[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- Snapshot assembly ---

func (s *MemoryStore) GetSnapshot(ctx context.Context, projectID uuid.UUID) (*qfd.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, nil
	}

	snap := &qfd.Snapshot{
		Competitors:           append([]string(nil), p.Competitors...),
		CustomerRequirements:  append([]qfd.CustomerRequirement(nil), s.customers[projectID]...),
		TechnicalRequirements: append([]qfd.TechnicalRequirement(nil), s.technicals[projectID]...),
		Relationships:         append([]qfd.Relationship(nil), s.relationships[projectID]...),
		Correlations:          append([]qfd.TechnicalCorrelation(nil), s.correlations[projectID]...),
	}
	return snap, nil
}

func (s *MemoryStore) GetStats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{TotalProjects: len(s.projects)}
	for _, reqs := range s.customers {
		stats.TotalCustomerRequirements += len(reqs)
	}
	for _, reqs := range s.technicals {
		stats.TotalTechnicalRequirements += len(reqs)
	}
	for _, rels := range s.relationships {
		stats.TotalRelationships += len(rels)
	}
	for _, corrs := range s.correlations {
		stats.TotalCorrelations += len(corrs)
	}
	return stats, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
