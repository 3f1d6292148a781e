package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qfdstudio/hoq/internal/qfd"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Projects ---

const projectColumns = `id, owner_id, name, description, competitors, created_at, updated_at`

func (s *PostgresStore) CreateProject(ctx context.Context, p *Project) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO qfd_projects (owner_id, name, description, competitors)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		p.OwnerID, p.Name, p.Description, p.Competitors,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProject(ctx context.Context, ownerID string, id uuid.UUID) (*Project, error) {
	p := &Project{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM qfd_projects WHERE id = $1 AND owner_id = $2`, id, ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Competitors, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, ownerID string, filter ProjectFilter) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM qfd_projects WHERE owner_id = $1`
	args := []interface{}{ownerID}
	n := 1

	if filter.Name != "" {
		n++
		query += fmt.Sprintf(" AND name ILIKE $%d", n)
		args = append(args, "%"+filter.Name+"%")
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Competitors, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *Project) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE qfd_projects SET
			name = $3, description = $4, competitors = $5, updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Competitors,
	)
	return err
}

func (s *PostgresStore) DeleteProject(ctx context.Context, ownerID string, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM qfd_projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}

// --- Customer requirements ---

func (s *PostgresStore) CreateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO qfd_customer_requirements (project_id, description, importance, ratings)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		projectID, cr.Description, cr.Importance, cr.Ratings,
	).Scan(&cr.ID)
}

func (s *PostgresStore) GetCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.CustomerRequirement, error) {
	cr := &qfd.CustomerRequirement{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, description, importance, ratings
		FROM qfd_customer_requirements WHERE id = $1 AND project_id = $2`, id, projectID,
	).Scan(&cr.ID, &cr.Description, &cr.Importance, &cr.Ratings)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *PostgresStore) ListCustomerRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.CustomerRequirement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, description, importance, ratings
		FROM qfd_customer_requirements WHERE project_id = $1
		ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []qfd.CustomerRequirement
	for rows.Next() {
		var cr qfd.CustomerRequirement
		if err := rows.Scan(&cr.ID, &cr.Description, &cr.Importance, &cr.Ratings); err != nil {
			return nil, err
		}
		reqs = append(reqs, cr)
	}
	return reqs, rows.Err()
}

func (s *PostgresStore) UpdateCustomerRequirement(ctx context.Context, projectID uuid.UUID, cr *qfd.CustomerRequirement) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE qfd_customer_requirements SET
			description = $3, importance = $4, ratings = $5, updated_at = now()
		WHERE id = $1 AND project_id = $2`,
		cr.ID, projectID, cr.Description, cr.Importance, cr.Ratings,
	)
	return err
}

func (s *PostgresStore) DeleteCustomerRequirement(ctx context.Context, projectID, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM qfd_customer_requirements WHERE id = $1 AND project_id = $2`, id, projectID)
	return err
}

// --- Technical requirements ---

func (s *PostgresStore) CreateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO qfd_technical_requirements (project_id, description, unit, target, difficulty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		projectID, tr.Description, tr.Unit, tr.Target, tr.Difficulty,
	).Scan(&tr.ID)
}

func (s *PostgresStore) GetTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) (*qfd.TechnicalRequirement, error) {
	tr := &qfd.TechnicalRequirement{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, description, unit, target, difficulty
		FROM qfd_technical_requirements WHERE id = $1 AND project_id = $2`, id, projectID,
	).Scan(&tr.ID, &tr.Description, &tr.Unit, &tr.Target, &tr.Difficulty)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func (s *PostgresStore) ListTechnicalRequirements(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalRequirement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, description, unit, target, difficulty
		FROM qfd_technical_requirements WHERE project_id = $1
		ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []qfd.TechnicalRequirement
	for rows.Next() {
		var tr qfd.TechnicalRequirement
		if err := rows.Scan(&tr.ID, &tr.Description, &tr.Unit, &tr.Target, &tr.Difficulty); err != nil {
			return nil, err
		}
		reqs = append(reqs, tr)
	}
	return reqs, rows.Err()
}

func (s *PostgresStore) UpdateTechnicalRequirement(ctx context.Context, projectID uuid.UUID, tr *qfd.TechnicalRequirement) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE qfd_technical_requirements SET
			description = $3, unit = $4, target = $5, difficulty = $6, updated_at = now()
		WHERE id = $1 AND project_id = $2`,
		tr.ID, projectID, tr.Description, tr.Unit, tr.Target, tr.Difficulty,
	)
	return err
}

func (s *PostgresStore) DeleteTechnicalRequirement(ctx context.Context, projectID, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM qfd_technical_requirements WHERE id = $1 AND project_id = $2`, id, projectID)
	return err
}

// --- Relationship matrix ---

func (s *PostgresStore) UpsertRelationship(ctx context.Context, projectID uuid.UUID, rel qfd.Relationship) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qfd_relationships (project_id, customer_requirement_id, technical_requirement_id, strength)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_requirement_id, technical_requirement_id)
		DO UPDATE SET strength = EXCLUDED.strength, updated_at = now()`,
		projectID, rel.CustomerID, rel.TechnicalID, int(rel.Strength),
	)
	return err
}

func (s *PostgresStore) ListRelationships(ctx context.Context, projectID uuid.UUID) ([]qfd.Relationship, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT customer_requirement_id, technical_requirement_id, strength
		FROM qfd_relationships WHERE project_id = $1
		ORDER BY customer_requirement_id, technical_requirement_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []qfd.Relationship
	for rows.Next() {
		var rel qfd.Relationship
		var strength int
		if err := rows.Scan(&rel.CustomerID, &rel.TechnicalID, &strength); err != nil {
			return nil, err
		}
		rel.Strength = qfd.Strength(strength)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

func (s *PostgresStore) DeleteRelationship(ctx context.Context, projectID, customerID, technicalID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM qfd_relationships
		WHERE project_id = $1 AND customer_requirement_id = $2 AND technical_requirement_id = $3`,
		projectID, customerID, technicalID)
	return err
}

// --- Correlation roof ---

func (s *PostgresStore) UpsertCorrelation(ctx context.Context, projectID uuid.UUID, corr qfd.TechnicalCorrelation) error {
	corr = corr.Canonical()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qfd_correlations (project_id, requirement1_id, requirement2_id, correlation)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (requirement1_id, requirement2_id)
		DO UPDATE SET correlation = EXCLUDED.correlation, updated_at = now()`,
		projectID, corr.Req1ID, corr.Req2ID, int(corr.Correlation),
	)
	return err
}

func (s *PostgresStore) ListCorrelations(ctx context.Context, projectID uuid.UUID) ([]qfd.TechnicalCorrelation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT requirement1_id, requirement2_id, correlation
		FROM qfd_correlations WHERE project_id = $1
		ORDER BY requirement1_id, requirement2_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var corrs []qfd.TechnicalCorrelation
	for rows.Next() {
		var corr qfd.TechnicalCorrelation
		var value int
		if err := rows.Scan(&corr.Req1ID, &corr.Req2ID, &value); err != nil {
			return nil, err
		}
		corr.Correlation = qfd.Correlation(value)
		corrs = append(corrs, corr)
	}
	return corrs, rows.Err()
}

func (s *PostgresStore) DeleteCorrelation(ctx context.Context, projectID, req1ID, req2ID uuid.UUID) error {
	req1ID, req2ID = qfd.CanonicalPair(req1ID, req2ID)
	_, err := s.pool.Exec(ctx, `
		DELETE FROM qfd_correlations
		WHERE project_id = $1 AND requirement1_id = $2 AND requirement2_id = $3`,
		projectID, req1ID, req2ID)
	return err
}

// --- Snapshot assembly ---

func (s *PostgresStore) GetSnapshot(ctx context.Context, projectID uuid.UUID) (*qfd.Snapshot, error) {
	var competitors []string
	err := s.pool.QueryRow(ctx, `
		SELECT competitors FROM qfd_projects WHERE id = $1`, projectID).Scan(&competitors)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	customers, err := s.ListCustomerRequirements(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load customer requirements: %w", err)
	}
	technicals, err := s.ListTechnicalRequirements(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load technical requirements: %w", err)
	}
	relationships, err := s.ListRelationships(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load relationships: %w", err)
	}
	correlations, err := s.ListCorrelations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load correlations: %w", err)
	}

	return &qfd.Snapshot{
		Competitors:           competitors,
		CustomerRequirements:  customers,
		TechnicalRequirements: technicals,
		Relationships:         relationships,
		Correlations:          correlations,
	}, nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM qfd_projects),
			(SELECT COUNT(*) FROM qfd_customer_requirements),
			(SELECT COUNT(*) FROM qfd_technical_requirements),
			(SELECT COUNT(*) FROM qfd_relationships),
			(SELECT COUNT(*) FROM qfd_correlations)`,
	).Scan(
		&stats.TotalProjects, &stats.TotalCustomerRequirements, &stats.TotalTechnicalRequirements,
		&stats.TotalRelationships, &stats.TotalCorrelations,
	)
	return stats, err
}
