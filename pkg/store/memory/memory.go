// Package memory provides an in-memory Store implementation. It backs
// tests and dry runs, and its Transact snapshots state so a failed
// record rolls back exactly like a database transaction would.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/pipeline"
	"github.com/sportsbeams/pipeline/pkg/store"
)

// Store is an in-memory entity store. Safe for concurrent use;
// transactions are serialized so a rollback restores exactly the state
// its own snapshot saw.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	// Insertion order is preserved so lookups are deterministic.
	prospectIDs []string
	prospects   map[string]*pipeline.Prospect

	contactIDs []string
	contacts   map[string]*pipeline.Contact

	scoreIDs []string
	scores   map[string]*pipeline.ProspectScore

	activities []*pipeline.Activity
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		prospects: make(map[string]*pipeline.Prospect),
		contacts:  make(map[string]*pipeline.Contact),
		scores:    make(map[string]*pipeline.ProspectScore),
	}
}

var _ store.Store = (*Store)(nil)

// Prospect returns a prospect by ID.
func (s *Store) Prospect(_ context.Context, id string) (*pipeline.Prospect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prospects[id]
	if !ok || p.Deleted() {
		return nil, errors.NewNotFoundError("prospect", id)
	}
	cp := *p
	return &cp, nil
}

// ProspectByName returns the first live prospect with an exact name match.
func (s *Store) ProspectByName(_ context.Context, name string) (*pipeline.Prospect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.prospectIDs {
		p := s.prospects[id]
		if p.Deleted() {
			continue
		}
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("prospect", name)
}

// ProspectByFuzzyName returns the first live prospect whose name
// contains the given name, case-insensitively. Unanchored substring
// containment is a known precision risk and intentionally unchanged.
func (s *Store) ProspectByFuzzyName(_ context.Context, name string) (*pipeline.Prospect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	for _, id := range s.prospectIDs {
		p := s.prospects[id]
		if p.Deleted() {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), needle) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("prospect", name)
}

// CreateProspect inserts a new prospect, assigning ID and timestamps
// when unset.
func (s *Store) CreateProspect(_ context.Context, p *pipeline.Prospect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = pipeline.NewID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if _, exists := s.prospects[p.ID]; exists {
		return errors.ErrAlreadyExists
	}
	cp := *p
	s.prospects[p.ID] = &cp
	s.prospectIDs = append(s.prospectIDs, p.ID)
	return nil
}

// UpdateProspect persists changes to an existing prospect.
func (s *Store) UpdateProspect(_ context.Context, p *pipeline.Prospect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prospects[p.ID]; !ok {
		return errors.NewNotFoundError("prospect", p.ID)
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	s.prospects[p.ID] = &cp
	return nil
}

// ContactByEmail returns the live contact with the given email owned
// by the given prospect.
func (s *Store) ContactByEmail(_ context.Context, prospectID, email string) (*pipeline.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.contactIDs {
		c := s.contacts[id]
		if c.Deleted() {
			continue
		}
		if c.ProspectID == prospectID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("contact", email)
}

// CreateContact inserts a new contact.
func (s *Store) CreateContact(_ context.Context, c *pipeline.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = pipeline.NewID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if _, exists := s.contacts[c.ID]; exists {
		return errors.ErrAlreadyExists
	}
	cp := *c
	s.contacts[c.ID] = &cp
	s.contactIDs = append(s.contactIDs, c.ID)
	return nil
}

// UpdateContact persists changes to an existing contact.
func (s *Store) UpdateContact(_ context.Context, c *pipeline.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[c.ID]; !ok {
		return errors.NewNotFoundError("contact", c.ID)
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

// Score returns the score for a (prospect, dimension) pair.
func (s *Store) Score(_ context.Context, prospectID string, dim pipeline.Dimension) (*pipeline.ProspectScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.scoreIDs {
		sc := s.scores[id]
		if sc.ProspectID == prospectID && sc.Dimension == dim {
			cp := *sc
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("score", string(dim))
}

// CreateScore inserts a new dimension score.
func (s *Store) CreateScore(_ context.Context, sc *pipeline.ProspectScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc.ID == "" {
		sc.ID = pipeline.NewID()
	}
	if sc.ScoredAt.IsZero() {
		sc.ScoredAt = time.Now().UTC()
	}
	cp := *sc
	s.scores[sc.ID] = &cp
	s.scoreIDs = append(s.scoreIDs, sc.ID)
	return nil
}

// CreateActivity appends an activity trail entry.
func (s *Store) CreateActivity(_ context.Context, a *pipeline.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = pipeline.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	s.activities = append(s.activities, &cp)
	return nil
}

// Transact runs fn against the store, restoring the pre-transaction
// snapshot if fn fails. Transactions hold txMu for their whole
// duration: a restore that ran concurrently with another transaction's
// commit would erase that commit.
func (s *Store) Transact(ctx context.Context, fn func(store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// state is a deep copy of the store's contents.
type state struct {
	prospectIDs []string
	prospects   map[string]*pipeline.Prospect
	contactIDs  []string
	contacts    map[string]*pipeline.Contact
	scoreIDs    []string
	scores      map[string]*pipeline.ProspectScore
	activities  []*pipeline.Activity
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := state{
		prospectIDs: append([]string(nil), s.prospectIDs...),
		prospects:   make(map[string]*pipeline.Prospect, len(s.prospects)),
		contactIDs:  append([]string(nil), s.contactIDs...),
		contacts:    make(map[string]*pipeline.Contact, len(s.contacts)),
		scoreIDs:    append([]string(nil), s.scoreIDs...),
		scores:      make(map[string]*pipeline.ProspectScore, len(s.scores)),
		activities:  append([]*pipeline.Activity(nil), s.activities...),
	}
	for id, p := range s.prospects {
		cp := *p
		snap.prospects[id] = &cp
	}
	for id, c := range s.contacts {
		cp := *c
		snap.contacts[id] = &cp
	}
	for id, sc := range s.scores {
		cp := *sc
		snap.scores[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prospectIDs = snap.prospectIDs
	s.prospects = snap.prospects
	s.contactIDs = snap.contactIDs
	s.contacts = snap.contacts
	s.scoreIDs = snap.scoreIDs
	s.scores = snap.scores
	s.activities = snap.activities
}

// Counts returns entity counts, useful for tests and stats endpoints.
func (s *Store) Counts() (prospects, contacts, scores, activities int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prospects), len(s.contacts), len(s.scores), len(s.activities)
}

// Activities returns a copy of the activity trail, oldest first.
func (s *Store) Activities() []*pipeline.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*pipeline.Activity, len(s.activities))
	for i, a := range s.activities {
		cp := *a
		out[i] = &cp
	}
	return out
}
