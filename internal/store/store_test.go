package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/qfd"
)

func newTestProject(t *testing.T, s *MemoryStore, owner string) *Project {
	t.Helper()
	p := &Project{
		OwnerID:     owner,
		Name:        "Cordless Kettle",
		Competitors: []string{"Acme", "Globex"},
	}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return p
}

func TestProjectRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	if p.ID == uuid.Nil {
		t.Fatal("expected project id set on create")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected created_at set")
	}

	got, err := s.GetProject(ctx, "mara", p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected project, got nil")
	}
	if got.Name != "Cordless Kettle" {
		t.Errorf("expected name round-trip, got %q", got.Name)
	}
	if len(got.Competitors) != 2 {
		t.Errorf("expected 2 competitors, got %d", len(got.Competitors))
	}

	got.Name = "Cordless Kettle v2"
	if err := s.UpdateProject(ctx, got); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	again, _ := s.GetProject(ctx, "mara", p.ID)
	if again.Name != "Cordless Kettle v2" {
		t.Errorf("expected updated name, got %q", again.Name)
	}

	if err := s.DeleteProject(ctx, "mara", p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	gone, _ := s.GetProject(ctx, "mara", p.ID)
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestProjectOwnerIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	got, err := s.GetProject(ctx, "sven", p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil for foreign owner")
	}

	if err := s.DeleteProject(ctx, "sven", p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	still, _ := s.GetProject(ctx, "mara", p.ID)
	if still == nil {
		t.Error("foreign delete must not remove the project")
	}

	mine, _ := s.ListProjects(ctx, "mara", ProjectFilter{})
	theirs, _ := s.ListProjects(ctx, "sven", ProjectFilter{})
	if len(mine) != 1 || len(theirs) != 0 {
		t.Errorf("expected 1/0 projects, got %d/%d", len(mine), len(theirs))
	}
}

func TestListProjectsNameFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"Kettle", "Toaster", "Kettle Pro"} {
		p := &Project{OwnerID: "mara", Name: name}
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
	}

	got, err := s.ListProjects(ctx, "mara", ProjectFilter{Name: "kettle"})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 kettle projects, got %d", len(got))
	}
}

func TestRequirementOrderPreserved(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	names := []string{"first", "second", "third"}
	for _, n := range names {
		cr := &qfd.CustomerRequirement{Description: n, Importance: 3, Ratings: []int{3, 3}}
		if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
			t.Fatalf("CreateCustomerRequirement failed: %v", err)
		}
	}

	got, err := s.ListCustomerRequirements(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListCustomerRequirements failed: %v", err)
	}
	for i, n := range names {
		if got[i].Description != n {
			t.Errorf("position %d: expected %q, got %q", i, n, got[i].Description)
		}
	}
}

func TestRelationshipUpsert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet", Importance: 5}
	tr := &qfd.TechnicalRequirement{Description: "insulation", Difficulty: 2}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
		t.Fatal(err)
	}

	rel := qfd.Relationship{CustomerID: cr.ID, TechnicalID: tr.ID, Strength: qfd.StrengthWeak}
	if err := s.UpsertRelationship(ctx, p.ID, rel); err != nil {
		t.Fatalf("UpsertRelationship failed: %v", err)
	}

	rel.Strength = qfd.StrengthStrong
	if err := s.UpsertRelationship(ctx, p.ID, rel); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rels, _ := s.ListRelationships(ctx, p.ID)
	if len(rels) != 1 {
		t.Fatalf("expected 1 cell after upsert, got %d", len(rels))
	}
	if rels[0].Strength != qfd.StrengthStrong {
		t.Errorf("expected strength 9, got %d", rels[0].Strength)
	}

	if err := s.DeleteRelationship(ctx, p.ID, cr.ID, tr.ID); err != nil {
		t.Fatalf("DeleteRelationship failed: %v", err)
	}
	rels, _ = s.ListRelationships(ctx, p.ID)
	if len(rels) != 0 {
		t.Errorf("expected empty matrix, got %d cells", len(rels))
	}
}

func TestCorrelationCanonicalUpsert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	t1 := &qfd.TechnicalRequirement{Description: "weight", Difficulty: 3}
	t2 := &qfd.TechnicalRequirement{Description: "battery", Difficulty: 4}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, t1); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, t2); err != nil {
		t.Fatal(err)
	}

	// insert one way, update the reversed way: same canonical record
	if err := s.UpsertCorrelation(ctx, p.ID, qfd.TechnicalCorrelation{
		Req1ID: t1.ID, Req2ID: t2.ID, Correlation: qfd.CorrelationPositive,
	}); err != nil {
		t.Fatalf("UpsertCorrelation failed: %v", err)
	}
	if err := s.UpsertCorrelation(ctx, p.ID, qfd.TechnicalCorrelation{
		Req1ID: t2.ID, Req2ID: t1.ID, Correlation: qfd.CorrelationStrongNegative,
	}); err != nil {
		t.Fatalf("reversed upsert failed: %v", err)
	}

	corrs, _ := s.ListCorrelations(ctx, p.ID)
	if len(corrs) != 1 {
		t.Fatalf("expected 1 canonical record, got %d", len(corrs))
	}
	if corrs[0].Correlation != qfd.CorrelationStrongNegative {
		t.Errorf("expected -2 after update, got %d", corrs[0].Correlation)
	}
	if corrs[0].Req1ID.String() > corrs[0].Req2ID.String() {
		t.Error("expected canonical pair order")
	}

	// delete with the pair reversed
	if err := s.DeleteCorrelation(ctx, p.ID, t2.ID, t1.ID); err != nil {
		t.Fatalf("DeleteCorrelation failed: %v", err)
	}
	corrs, _ = s.ListCorrelations(ctx, p.ID)
	if len(corrs) != 0 {
		t.Errorf("expected empty roof, got %d records", len(corrs))
	}
}

func TestDeleteTechnicalRequirementCascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet", Importance: 5}
	t1 := &qfd.TechnicalRequirement{Description: "weight", Difficulty: 3}
	t2 := &qfd.TechnicalRequirement{Description: "battery", Difficulty: 4}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatal(err)
	}
	for _, tr := range []*qfd.TechnicalRequirement{t1, t2} {
		if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertRelationship(ctx, p.ID, qfd.Relationship{
		CustomerID: cr.ID, TechnicalID: t1.ID, Strength: qfd.StrengthStrong,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertCorrelation(ctx, p.ID, qfd.TechnicalCorrelation{
		Req1ID: t1.ID, Req2ID: t2.ID, Correlation: qfd.CorrelationPositive,
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTechnicalRequirement(ctx, p.ID, t1.ID); err != nil {
		t.Fatalf("DeleteTechnicalRequirement failed: %v", err)
	}

	rels, _ := s.ListRelationships(ctx, p.ID)
	corrs, _ := s.ListCorrelations(ctx, p.ID)
	if len(rels) != 0 || len(corrs) != 0 {
		t.Errorf("expected cascade to clear cells, got %d relationships, %d correlations", len(rels), len(corrs))
	}
}

func TestGetSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet", Importance: 5, Ratings: []int{3, 4}}
	tr := &qfd.TechnicalRequirement{Description: "insulation", Unit: "dB", Target: "<30", Difficulty: 3}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertRelationship(ctx, p.ID, qfd.Relationship{
		CustomerID: cr.ID, TechnicalID: tr.ID, Strength: qfd.StrengthStrong,
	}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.GetSnapshot(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if len(snap.Competitors) != 2 {
		t.Errorf("expected competitor names carried over, got %v", snap.Competitors)
	}
	if len(snap.CustomerRequirements) != 1 || len(snap.TechnicalRequirements) != 1 || len(snap.Relationships) != 1 {
		t.Errorf("unexpected snapshot sizes: %d/%d/%d",
			len(snap.CustomerRequirements), len(snap.TechnicalRequirements), len(snap.Relationships))
	}

	// the snapshot feeds the engine directly
	analysis := qfd.Analyze(*snap)
	if len(analysis.Priorities) != 1 || analysis.Priorities[0].Score != 45 {
		t.Errorf("expected engine to score the snapshot, got %+v", analysis.Priorities)
	}

	missing, err := s.GetSnapshot(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil snapshot for unknown project")
	}
}

func TestGetStats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p := newTestProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet", Importance: 5}
	tr := &qfd.TechnicalRequirement{Description: "insulation", Difficulty: 3}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalProjects != 1 || stats.TotalCustomerRequirements != 1 || stats.TotalTechnicalRequirements != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
