package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/sportsbeams/pipeline/pkg/logging"
	"github.com/sportsbeams/pipeline/pkg/store"
)

// DefaultMinConfidence is the floor below which enrichment contacts
// are skipped.
const DefaultMinConfidence = 70

// Recorder receives import telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	DocumentProcessed(variant string, success bool)
	RecordFailed(variant string)
	EntitiesWritten(prospectsCreated, prospectsUpdated, contactsCreated, contactsUpdated int)
}

// Session runs import batches against a store. A Session is stateless
// between batches and safe for concurrent use when its store is.
type Session struct {
	store         store.Store
	minConfidence int
	recorder      Recorder
}

// Option configures a Session.
type Option func(*Session)

// WithMinConfidence sets the confidence floor for enrichment contacts.
func WithMinConfidence(min int) Option {
	return func(s *Session) { s.minConfidence = min }
}

// WithRecorder attaches a telemetry recorder.
func WithRecorder(rec Recorder) Option {
	return func(s *Session) { s.recorder = rec }
}

// NewSession creates an import session over the given store.
func NewSession(st store.Store, opts ...Option) *Session {
	s := &Session{
		store:         st,
		minConfidence: DefaultMinConfidence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import parses raw JSON and reconciles it into the store.
func (s *Session) Import(ctx context.Context, data []byte) (*Result, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return s.ImportDocument(ctx, doc)
}

// ImportDocument reconciles an already-parsed document. Records run in
// input order, each inside its own transaction; a failed record is
// rolled back and reported without stopping the batch. The context is
// checked between records, not inside them.
func (s *Session) ImportDocument(ctx context.Context, doc *Document) (*Result, error) {
	ctx = logging.WithVariant(ctx, doc.Variant.String())
	log := logging.Ctx(ctx)

	result := &Result{
		Success:     true,
		SkillType:   doc.Variant.String(),
		Errors:      []string{},
		Warnings:    []string{},
		ImportedIDs: []string{},
	}
	rec := &reconciler{minConfidence: s.minConfidence, now: time.Now}

	log.Info().Int("records", doc.Records()).Msg("Importing document")

	var err error
	switch doc.Variant {
	case VariantDiscovery:
		for i := range doc.Discovery.Prospects {
			p := &doc.Discovery.Prospects[i]
			if err = s.runRecord(ctx, result, p.Institution.Name, func(tx store.Store) (recordOutcome, error) {
				return rec.reconcileDiscovery(ctx, tx, p)
			}); err != nil {
				break
			}
		}
	case VariantEnrichment:
		for i := range doc.Enrichment.EnrichedProspects {
			p := &doc.Enrichment.EnrichedProspects[i]
			if err = s.runRecord(ctx, result, p.Institution, func(tx store.Store) (recordOutcome, error) {
				return rec.reconcileEnrichment(ctx, tx, p)
			}); err != nil {
				break
			}
		}
	case VariantContactList:
		for i := range doc.ContactList.Contacts {
			c := &doc.ContactList.Contacts[i]
			if err = s.runRecord(ctx, result, c.Institution, func(tx store.Store) (recordOutcome, error) {
				return rec.reconcileContactEntry(ctx, tx, c)
			}); err != nil {
				break
			}
		}
	case VariantNestedProspects:
		for i := range doc.NestedProspects.Prospects {
			p := &doc.NestedProspects.Prospects[i]
			if err = s.runRecord(ctx, result, p.Institution, func(tx store.Store) (recordOutcome, error) {
				return rec.reconcileNested(ctx, tx, p)
			}); err != nil {
				break
			}
		}
	case VariantFlatContacts:
		for i := range doc.FlatContacts.Prospects {
			p := &doc.FlatContacts.Prospects[i]
			if err = s.runRecord(ctx, result, p.Institution, func(tx store.Store) (recordOutcome, error) {
				return rec.reconcileFlat(ctx, tx, p)
			}); err != nil {
				break
			}
		}
	}
	if err != nil {
		// Context cancellation mid-batch; committed records stand.
		return result, err
	}

	if s.recorder != nil {
		s.recorder.DocumentProcessed(doc.Variant.String(), result.Success)
		s.recorder.EntitiesWritten(result.ProspectsCreated, result.ProspectsUpdated,
			result.ContactsCreated, result.ContactsUpdated)
	}

	log.Info().
		Bool("success", result.Success).
		Int("prospects_created", result.ProspectsCreated).
		Int("prospects_updated", result.ProspectsUpdated).
		Int("contacts_created", result.ContactsCreated).
		Int("contacts_updated", result.ContactsUpdated).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("Import complete")
	return result, nil
}

// runRecord executes one record inside its own transaction boundary,
// folding the outcome into the batch result. A record failure rolls
// back that record only; the returned error is non-nil solely for
// context cancellation.
func (s *Session) runRecord(ctx context.Context, result *Result, institution string, fn func(store.Store) (recordOutcome, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var out recordOutcome
	err := s.store.Transact(ctx, func(tx store.Store) error {
		var recErr error
		out, recErr = fn(tx)
		return recErr
	})
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", institution, err))
		if s.recorder != nil {
			s.recorder.RecordFailed(result.SkillType)
		}
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("institution", institution).
			Msg("Record failed, continuing batch")
		return nil
	}
	result.absorb(out)
	return nil
}

// PreviewImport parses raw JSON and summarizes what an import would do
// without touching the store.
func PreviewImport(data []byte) (*Preview, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		SkillType:   doc.Variant.String(),
		RecordCount: doc.Records(),
		Records:     []PreviewRecord{},
	}
	switch doc.Variant {
	case VariantDiscovery:
		for i := range doc.Discovery.Prospects {
			p := &doc.Discovery.Prospects[i]
			rec := PreviewRecord{
				Institution:  p.Institution.Name,
				Type:         p.Institution.Type,
				State:        p.Institution.State,
				ContactCount: len(p.SecondaryContacts),
			}
			if p.Scoring != nil {
				rec.Tier = p.Scoring.Tier
				rec.Score = p.Scoring.ICPScore
			}
			if p.DecisionMaker != nil && p.DecisionMaker.Name != "" {
				rec.ContactCount++
			}
			preview.Records = append(preview.Records, rec)
		}
	case VariantEnrichment:
		for i := range doc.Enrichment.EnrichedProspects {
			p := &doc.Enrichment.EnrichedProspects[i]
			preview.Records = append(preview.Records, PreviewRecord{
				Institution:  p.Institution,
				Tier:         p.Tier,
				Score:        p.TotalScore,
				ContactCount: len(p.Contacts),
			})
		}
	case VariantContactList:
		for i := range doc.ContactList.Contacts {
			c := &doc.ContactList.Contacts[i]
			rec := PreviewRecord{
				Institution:  c.Institution,
				Tier:         c.Tier,
				Score:        c.Score,
				ContactCount: len(c.SecondaryContacts),
			}
			if c.PrimaryContact != nil {
				rec.ContactCount++
			}
			preview.Records = append(preview.Records, rec)
		}
	case VariantNestedProspects:
		for i := range doc.NestedProspects.Prospects {
			p := &doc.NestedProspects.Prospects[i]
			rec := PreviewRecord{
				Institution: p.Institution,
				Tier:        p.Tier,
				Score:       p.Score,
			}
			if p.Contacts != nil {
				rec.ContactCount = len(p.Contacts.SecondaryContacts)
				if p.Contacts.PrimaryDecisionMaker != nil {
					rec.ContactCount++
				}
			}
			preview.Records = append(preview.Records, rec)
		}
	case VariantFlatContacts:
		for i := range doc.FlatContacts.Prospects {
			p := &doc.FlatContacts.Prospects[i]
			preview.Records = append(preview.Records, PreviewRecord{
				Institution:  p.Institution,
				Tier:         p.Tier,
				Score:        p.Score,
				ContactCount: len(p.Contacts),
			})
		}
	}
	return preview, nil
}
