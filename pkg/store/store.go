// Package store defines the abstract repository consumed by the import
// engine. Implementations own durability and transaction mechanics;
// the engine only issues logical reads and writes. Lookups never
// return soft-deleted rows.
package store

import (
	"context"

	"github.com/sportsbeams/pipeline/pkg/pipeline"
)

// Store is the entity repository for prospects, contacts, scores and
// activities.
//
// Name lookups treat the prospect name as a natural key: ProspectByName
// is an exact match, ProspectByFuzzyName is a case-insensitive
// unanchored substring match. Both return errors.ErrNotFound when no
// live row matches.
type Store interface {
	// Prospect returns a prospect by ID.
	Prospect(ctx context.Context, id string) (*pipeline.Prospect, error)

	// ProspectByName returns the first live prospect whose name
	// matches exactly.
	ProspectByName(ctx context.Context, name string) (*pipeline.Prospect, error)

	// ProspectByFuzzyName returns the first live prospect whose name
	// contains the given name, case-insensitively.
	ProspectByFuzzyName(ctx context.Context, name string) (*pipeline.Prospect, error)

	// CreateProspect inserts a new prospect. The implementation
	// assigns ID and timestamps when unset.
	CreateProspect(ctx context.Context, p *pipeline.Prospect) error

	// UpdateProspect persists changes to an existing prospect.
	UpdateProspect(ctx context.Context, p *pipeline.Prospect) error

	// ContactByEmail returns the live contact with the given email
	// owned by the given prospect.
	ContactByEmail(ctx context.Context, prospectID, email string) (*pipeline.Contact, error)

	// CreateContact inserts a new contact.
	CreateContact(ctx context.Context, c *pipeline.Contact) error

	// UpdateContact persists changes to an existing contact.
	UpdateContact(ctx context.Context, c *pipeline.Contact) error

	// Score returns the score for a (prospect, dimension) pair.
	Score(ctx context.Context, prospectID string, dim pipeline.Dimension) (*pipeline.ProspectScore, error)

	// CreateScore inserts a new dimension score.
	CreateScore(ctx context.Context, s *pipeline.ProspectScore) error

	// CreateActivity appends an activity trail entry.
	CreateActivity(ctx context.Context, a *pipeline.Activity) error

	// Transact runs fn inside a transaction boundary. If fn returns an
	// error, mutations made through its Store argument are rolled back.
	Transact(ctx context.Context, fn func(Store) error) error
}
