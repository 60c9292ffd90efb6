// Package postgres provides the pgx-backed Store implementation. It
// owns durability for the pipeline: per-record import transactions map
// onto database transactions, and all lookups exclude soft-deleted
// rows.
package postgres

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/pipeline"
	"github.com/sportsbeams/pipeline/pkg/store"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// query methods serve pooled and transactional calls.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a Postgres-backed entity store.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, errors.WrapStore("connect", "database", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, errors.WrapStore("migrate", "schema", err)
	}
	return &Store{pool: pool, q: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var _ store.Store = (*Store)(nil)

const prospectColumns = `id, name, venue_type, state, city, conference, enrollment,
	stadium_name, current_lighting_type, current_lighting_age_years,
	broadcast_requirements, status, tier, icp_score, constraint_hypothesis,
	value_proposition, research_notes, source, source_date,
	created_at, updated_at, deleted_at`

func scanProspect(row pgx.Row) (*pipeline.Prospect, error) {
	var p pipeline.Prospect
	var city, conference, stadium, lighting, broadcast, tier *string
	var hypothesis, valueProp, notes, source *string
	var sourceDate *time.Time
	err := row.Scan(
		&p.ID, &p.Name, &p.VenueType, &p.State, &city, &conference, &p.Enrollment,
		&stadium, &lighting, &p.LightingAgeYears,
		&broadcast, &p.Status, &tier, &p.ICPScore, &hypothesis,
		&valueProp, &notes, &source, &sourceDate,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	p.City = deref(city)
	p.Conference = deref(conference)
	p.StadiumName = deref(stadium)
	p.LightingType = pipeline.LightingType(deref(lighting))
	p.Broadcast = pipeline.BroadcastTier(deref(broadcast))
	p.Tier = pipeline.Tier(deref(tier))
	p.ConstraintHypothesis = deref(hypothesis)
	p.ValueProposition = deref(valueProp)
	p.ResearchNotes = deref(notes)
	p.Source = deref(source)
	if sourceDate != nil {
		p.SourceDate = *sourceDate
	}
	return &p, nil
}

// Prospect returns a prospect by ID.
func (s *Store) Prospect(ctx context.Context, id string) (*pipeline.Prospect, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE id = $1 AND deleted_at IS NULL`, id)
	p, err := scanProspect(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("prospect", id)
	}
	if err != nil {
		return nil, errors.WrapStore("get", "prospect", err)
	}
	return p, nil
}

// ProspectByName returns the first live prospect with an exact name match.
func (s *Store) ProspectByName(ctx context.Context, name string) (*pipeline.Prospect, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+prospectColumns+` FROM prospects
		 WHERE name = $1 AND deleted_at IS NULL
		 ORDER BY created_at LIMIT 1`, name)
	p, err := scanProspect(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("prospect", name)
	}
	if err != nil {
		return nil, errors.WrapStore("find", "prospect", err)
	}
	return p, nil
}

// ProspectByFuzzyName returns the first live prospect whose name
// contains the given name, case-insensitively (ILIKE %name%).
func (s *Store) ProspectByFuzzyName(ctx context.Context, name string) (*pipeline.Prospect, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+prospectColumns+` FROM prospects
		 WHERE name ILIKE '%' || $1 || '%' AND deleted_at IS NULL
		 ORDER BY created_at LIMIT 1`, name)
	p, err := scanProspect(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("prospect", name)
	}
	if err != nil {
		return nil, errors.WrapStore("find", "prospect", err)
	}
	return p, nil
}

// CreateProspect inserts a new prospect, assigning ID and timestamps
// when unset.
func (s *Store) CreateProspect(ctx context.Context, p *pipeline.Prospect) error {
	if p.ID == "" {
		p.ID = pipeline.NewID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.q.Exec(ctx,
		`INSERT INTO prospects (`+prospectColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		p.ID, p.Name, p.VenueType, p.State,
		nullIfEmpty(p.City), nullIfEmpty(p.Conference), p.Enrollment,
		nullIfEmpty(p.StadiumName), nullIfEmpty(string(p.LightingType)), p.LightingAgeYears,
		nullIfEmpty(string(p.Broadcast)), p.Status, nullIfEmpty(string(p.Tier)), p.ICPScore,
		nullIfEmpty(p.ConstraintHypothesis), nullIfEmpty(p.ValueProposition),
		nullIfEmpty(p.ResearchNotes), nullIfEmpty(p.Source), nullIfZeroTime(p.SourceDate),
		p.CreatedAt, p.UpdatedAt, p.DeletedAt,
	)
	if err != nil {
		return errors.WrapStore("create", "prospect", err)
	}
	return nil
}

// UpdateProspect persists changes to an existing prospect.
func (s *Store) UpdateProspect(ctx context.Context, p *pipeline.Prospect) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.q.Exec(ctx,
		`UPDATE prospects SET
			name = $2, venue_type = $3, state = $4, city = $5, conference = $6,
			enrollment = $7, stadium_name = $8, current_lighting_type = $9,
			current_lighting_age_years = $10, broadcast_requirements = $11,
			status = $12, tier = $13, icp_score = $14, constraint_hypothesis = $15,
			value_proposition = $16, research_notes = $17, source = $18,
			source_date = $19, updated_at = $20
		 WHERE id = $1 AND deleted_at IS NULL`,
		p.ID, p.Name, p.VenueType, p.State,
		nullIfEmpty(p.City), nullIfEmpty(p.Conference),
		p.Enrollment, nullIfEmpty(p.StadiumName), nullIfEmpty(string(p.LightingType)),
		p.LightingAgeYears, nullIfEmpty(string(p.Broadcast)),
		p.Status, nullIfEmpty(string(p.Tier)), p.ICPScore, nullIfEmpty(p.ConstraintHypothesis),
		nullIfEmpty(p.ValueProposition), nullIfEmpty(p.ResearchNotes), nullIfEmpty(p.Source),
		nullIfZeroTime(p.SourceDate), p.UpdatedAt,
	)
	if err != nil {
		return errors.WrapStore("update", "prospect", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("prospect", p.ID)
	}
	return nil
}

// ContactByEmail returns the live contact with the given email owned
// by the given prospect.
func (s *Store) ContactByEmail(ctx context.Context, prospectID, email string) (*pipeline.Contact, error) {
	row := s.q.QueryRow(ctx,
		`SELECT id, prospect_id, name, title, role, email, phone, linkedin_url,
			is_primary, notes, created_at, updated_at, deleted_at
		 FROM contacts
		 WHERE prospect_id = $1 AND email = $2 AND deleted_at IS NULL
		 ORDER BY created_at LIMIT 1`, prospectID, email)

	var c pipeline.Contact
	var title, role, emailCol, phone, linkedin, notes *string
	err := row.Scan(&c.ID, &c.ProspectID, &c.Name, &title, &role, &emailCol,
		&phone, &linkedin, &c.IsPrimary, &notes, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("contact", email)
	}
	if err != nil {
		return nil, errors.WrapStore("find", "contact", err)
	}
	c.Title = deref(title)
	c.Role = pipeline.ContactRole(deref(role))
	c.Email = deref(emailCol)
	c.Phone = deref(phone)
	c.LinkedInURL = deref(linkedin)
	c.Notes = deref(notes)
	return &c, nil
}

// CreateContact inserts a new contact.
func (s *Store) CreateContact(ctx context.Context, c *pipeline.Contact) error {
	if c.ID == "" {
		c.ID = pipeline.NewID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.q.Exec(ctx,
		`INSERT INTO contacts (id, prospect_id, name, title, role, email, phone,
			linkedin_url, is_primary, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.ProspectID, c.Name, nullIfEmpty(c.Title), nullIfEmpty(string(c.Role)),
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.LinkedInURL),
		c.IsPrimary, nullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.WrapStore("create", "contact", err)
	}
	return nil
}

// UpdateContact persists changes to an existing contact.
func (s *Store) UpdateContact(ctx context.Context, c *pipeline.Contact) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := s.q.Exec(ctx,
		`UPDATE contacts SET
			name = $2, title = $3, role = $4, email = $5, phone = $6,
			linkedin_url = $7, is_primary = $8, notes = $9, updated_at = $10
		 WHERE id = $1 AND deleted_at IS NULL`,
		c.ID, c.Name, nullIfEmpty(c.Title), nullIfEmpty(string(c.Role)),
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.LinkedInURL),
		c.IsPrimary, nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		return errors.WrapStore("update", "contact", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("contact", c.ID)
	}
	return nil
}

// Score returns the score for a (prospect, dimension) pair.
func (s *Store) Score(ctx context.Context, prospectID string, dim pipeline.Dimension) (*pipeline.ProspectScore, error) {
	row := s.q.QueryRow(ctx,
		`SELECT id, prospect_id, dimension, score, weight, notes, scored_at, scored_by
		 FROM prospect_scores WHERE prospect_id = $1 AND dimension = $2`,
		prospectID, dim)

	var sc pipeline.ProspectScore
	var notes, scoredBy *string
	err := row.Scan(&sc.ID, &sc.ProspectID, &sc.Dimension, &sc.Score, &sc.Weight,
		&notes, &sc.ScoredAt, &scoredBy)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("score", string(dim))
	}
	if err != nil {
		return nil, errors.WrapStore("find", "score", err)
	}
	sc.Notes = deref(notes)
	sc.ScoredBy = deref(scoredBy)
	return &sc, nil
}

// CreateScore inserts a new dimension score.
func (s *Store) CreateScore(ctx context.Context, sc *pipeline.ProspectScore) error {
	if sc.ID == "" {
		sc.ID = pipeline.NewID()
	}
	if sc.ScoredAt.IsZero() {
		sc.ScoredAt = time.Now().UTC()
	}

	_, err := s.q.Exec(ctx,
		`INSERT INTO prospect_scores (id, prospect_id, dimension, score, weight, notes, scored_at, scored_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sc.ID, sc.ProspectID, sc.Dimension, sc.Score, sc.Weight,
		nullIfEmpty(sc.Notes), sc.ScoredAt, nullIfEmpty(sc.ScoredBy),
	)
	if err != nil {
		return errors.WrapStore("create", "score", err)
	}
	return nil
}

// CreateActivity appends an activity trail entry.
func (s *Store) CreateActivity(ctx context.Context, a *pipeline.Activity) error {
	if a.ID == "" {
		a.ID = pipeline.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.q.Exec(ctx,
		`INSERT INTO activities (id, prospect_id, contact_id, type, subject, description, agent_id, user_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.ProspectID, nullIfEmpty(a.ContactID), a.Type,
		nullIfEmpty(a.Subject), nullIfEmpty(a.Description),
		nullIfEmpty(a.AgentID), nullIfEmpty(a.UserID), a.CreatedAt,
	)
	if err != nil {
		return errors.WrapStore("create", "activity", err)
	}
	return nil
}

// Transact runs fn inside a database transaction. A Store bound to the
// transaction is handed to fn; fn returning an error rolls back.
func (s *Store) Transact(ctx context.Context, fn func(store.Store) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, q: tx})
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
