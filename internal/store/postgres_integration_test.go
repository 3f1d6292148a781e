//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/qfdstudio/hoq/internal/qfd"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	if err := RunMigrations(ctx, dbURL); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		// Projects cascade to every child table
		_, _ = s.pool.Exec(ctx, "TRUNCATE qfd_projects CASCADE")
		s.Close()
	})

	return s
}

func seedProject(t *testing.T, s *PostgresStore, owner string) *Project {
	t.Helper()
	p := &Project{
		OwnerID:     owner,
		Name:        "Integration Kettle",
		Competitors: []string{"Acme", "Globex"},
	}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return p
}

func TestPostgresProjectRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	p := seedProject(t, s, "mara")
	if p.ID == uuid.Nil {
		t.Fatal("expected generated project id")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected created_at from database")
	}

	got, err := s.GetProject(ctx, "mara", p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got == nil || got.Name != "Integration Kettle" {
		t.Fatalf("unexpected project %+v", got)
	}
	if len(got.Competitors) != 2 {
		t.Errorf("expected competitors array round-trip, got %v", got.Competitors)
	}

	// foreign owner sees nothing
	foreign, err := s.GetProject(ctx, "sven", p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if foreign != nil {
		t.Error("expected nil for foreign owner")
	}
}

func TestPostgresRequirementsAndMatrix(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := seedProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet operation", Importance: 5, Ratings: []int{3, 4}}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatalf("CreateCustomerRequirement failed: %v", err)
	}
	tr1 := &qfd.TechnicalRequirement{Description: "motor insulation", Unit: "dB", Target: "<30", Difficulty: 2}
	tr2 := &qfd.TechnicalRequirement{Description: "cell density", Unit: "Wh/kg", Target: ">250", Difficulty: 4}
	for _, tr := range []*qfd.TechnicalRequirement{tr1, tr2} {
		if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
			t.Fatalf("CreateTechnicalRequirement failed: %v", err)
		}
	}

	// upsert twice: one row, latest strength
	rel := qfd.Relationship{CustomerID: cr.ID, TechnicalID: tr1.ID, Strength: qfd.StrengthWeak}
	if err := s.UpsertRelationship(ctx, p.ID, rel); err != nil {
		t.Fatalf("UpsertRelationship failed: %v", err)
	}
	rel.Strength = qfd.StrengthStrong
	if err := s.UpsertRelationship(ctx, p.ID, rel); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	rels, err := s.ListRelationships(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListRelationships failed: %v", err)
	}
	if len(rels) != 1 || rels[0].Strength != qfd.StrengthStrong {
		t.Fatalf("unexpected relationships %+v", rels)
	}

	// reversed correlation upsert lands on the same canonical row
	if err := s.UpsertCorrelation(ctx, p.ID, qfd.TechnicalCorrelation{
		Req1ID: tr1.ID, Req2ID: tr2.ID, Correlation: qfd.CorrelationPositive,
	}); err != nil {
		t.Fatalf("UpsertCorrelation failed: %v", err)
	}
	if err := s.UpsertCorrelation(ctx, p.ID, qfd.TechnicalCorrelation{
		Req1ID: tr2.ID, Req2ID: tr1.ID, Correlation: qfd.CorrelationStrongPositive,
	}); err != nil {
		t.Fatalf("reversed upsert failed: %v", err)
	}
	corrs, err := s.ListCorrelations(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListCorrelations failed: %v", err)
	}
	if len(corrs) != 1 || corrs[0].Correlation != qfd.CorrelationStrongPositive {
		t.Fatalf("unexpected correlations %+v", corrs)
	}

	snap, err := s.GetSnapshot(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if len(snap.CustomerRequirements) != 1 || len(snap.TechnicalRequirements) != 2 {
		t.Errorf("unexpected snapshot sizes: %d/%d",
			len(snap.CustomerRequirements), len(snap.TechnicalRequirements))
	}
	analysis := qfd.Analyze(*snap)
	if analysis.Priorities[0].Score != 45 {
		t.Errorf("expected score 45 from snapshot, got %d", analysis.Priorities[0].Score)
	}
}

func TestPostgresDeleteCascades(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := seedProject(t, s, "mara")

	cr := &qfd.CustomerRequirement{Description: "quiet", Importance: 5}
	tr := &qfd.TechnicalRequirement{Description: "insulation", Difficulty: 3}
	if err := s.CreateCustomerRequirement(ctx, p.ID, cr); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTechnicalRequirement(ctx, p.ID, tr); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertRelationship(ctx, p.ID, qfd.Relationship{
		CustomerID: cr.ID, TechnicalID: tr.ID, Strength: qfd.StrengthModerate,
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTechnicalRequirement(ctx, p.ID, tr.ID); err != nil {
		t.Fatalf("DeleteTechnicalRequirement failed: %v", err)
	}
	rels, err := s.ListRelationships(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListRelationships failed: %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("expected FK cascade to clear matrix cells, got %d", len(rels))
	}

	if err := s.DeleteProject(ctx, "mara", p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	snap, err := s.GetSnapshot(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot after project delete")
	}
}
