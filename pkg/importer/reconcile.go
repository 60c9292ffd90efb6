package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/pipeline"
	"github.com/sportsbeams/pipeline/pkg/store"
)

// sourceImport tags every prospect touched by the engine.
const sourceImport = "skill_import"

// agentID stamps the activity trail entries the engine emits.
const agentID = "import_service"

// recordOutcome is one record's committed effect, folded into the
// batch Result only after the record's transaction succeeds.
type recordOutcome struct {
	prospectID       string
	prospectsCreated int
	prospectsUpdated int
	contactsCreated  int
	contactsUpdated  int
	warnings         []string
}

// reconciler applies one record's data against the store. All methods
// run inside the caller's transaction boundary.
type reconciler struct {
	minConfidence int
	now           func() time.Time
}

// findProspect resolves an institution name to a live prospect: exact
// match first, then case-insensitive substring. Returns nil without
// error when nothing matches.
func findProspect(ctx context.Context, st store.Store, name string) (*pipeline.Prospect, error) {
	p, err := st.ProspectByName(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	p, err = st.ProspectByFuzzyName(ctx, name)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// cleanValue strips placeholder values ("unknown", "not found",
// unexpanded template braces) down to the empty string.
func cleanValue(s string) string {
	if !UsableEmail(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// appendNotes appends a note block unless it is empty or already
// present, keeping re-imports from duplicating notes.
func appendNotes(p *pipeline.Prospect, block string) {
	if block == "" || strings.Contains(p.ResearchNotes, block) {
		return
	}
	p.AppendResearchNotes(block)
}

// splitLocation parses "City, ST" location strings. The state part is
// empty when the string has no comma.
func splitLocation(loc string) (city, state string) {
	i := strings.LastIndex(loc, ",")
	if i < 0 {
		return strings.TrimSpace(loc), ""
	}
	return strings.TrimSpace(loc[:i]), strings.TrimSpace(loc[i+1:])
}

func setIfPresent(dst **string, v string) {
	if v != "" {
		*dst = &v
	}
}

// contactInput is the normalized contact payload shared by every
// variant's contact handling.
type contactInput struct {
	name        string
	title       string
	email       string
	phone       string
	linkedInURL string
	notes       string
	role        pipeline.ContactRole
	isPrimary   bool
}

// upsertContact deduplicates on (prospect, email) when the email is
// usable, merging non-destructively into a match; contacts without a
// usable email are always inserted as new rows.
func (r *reconciler) upsertContact(ctx context.Context, st store.Store, prospectID string, in contactInput) (created, updated bool, err error) {
	email := cleanValue(in.email)
	phone := cleanValue(in.phone)
	linkedIn := cleanValue(in.linkedInURL)

	if email != "" {
		existing, lookupErr := st.ContactByEmail(ctx, prospectID, email)
		switch {
		case lookupErr == nil:
			patch := pipeline.ContactPatch{
				Role:      &in.role,
				IsPrimary: &in.isPrimary,
			}
			setIfPresent(&patch.Name, in.name)
			setIfPresent(&patch.Title, in.title)
			setIfPresent(&patch.Phone, phone)
			setIfPresent(&patch.LinkedInURL, linkedIn)
			setIfPresent(&patch.Notes, in.notes)
			patch.Apply(existing)
			existing.UpdatedAt = r.now()
			if err := st.UpdateContact(ctx, existing); err != nil {
				return false, false, err
			}
			return false, true, nil
		case !errors.Is(lookupErr, errors.ErrNotFound):
			return false, false, lookupErr
		}
	}

	contact := &pipeline.Contact{
		ID:          pipeline.NewID(),
		ProspectID:  prospectID,
		Name:        in.name,
		Title:       in.title,
		Role:        in.role,
		Email:       email,
		Phone:       phone,
		LinkedInURL: linkedIn,
		IsPrimary:   in.isPrimary,
		Notes:       in.notes,
	}
	if err := st.CreateContact(ctx, contact); err != nil {
		return false, false, err
	}
	return true, false, nil
}

// importScores translates the exporter's score breakdown through the
// dimension table and stores each dimension once. Existing
// (prospect, dimension) scores are never overwritten.
func (r *reconciler) importScores(ctx context.Context, st store.Store, prospectID string, scoring *Scoring) error {
	if scoring == nil || len(scoring.ScoreBreakdown) == 0 {
		return nil
	}
	for external, rule := range mappings.Dimensions {
		breakdown, ok := scoring.ScoreBreakdown[external]
		if !ok {
			continue
		}

		_, err := st.Score(ctx, prospectID, rule.Dimension)
		if err == nil {
			continue
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return err
		}

		score := 5
		if breakdown.Score != nil {
			score = *breakdown.Score
		}
		weight := rule.DefaultWeight
		if breakdown.Weight != nil {
			weight = *breakdown.Weight
		}
		entry := &pipeline.ProspectScore{
			ID:         pipeline.NewID(),
			ProspectID: prospectID,
			Dimension:  rule.Dimension,
			Score:      pipeline.ClampScore(score),
			Weight:     pipeline.ClampWeight(weight),
			Notes:      fmt.Sprintf("Imported from skill (%s)", external),
			ScoredAt:   r.now(),
			ScoredBy:   "agent:import",
		}
		if err := st.CreateScore(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// note appends the engine's audit activity for a reconciled prospect.
func (r *reconciler) note(ctx context.Context, st store.Store, prospectID, description string) error {
	return st.CreateActivity(ctx, &pipeline.Activity{
		ID:          pipeline.NewID(),
		ProspectID:  prospectID,
		Type:        pipeline.ActivityNote,
		Description: description,
		AgentID:     agentID,
		CreatedAt:   r.now(),
	})
}

// ----------------------------------------------------------------------------
// Institution-discovery records
// ----------------------------------------------------------------------------

func (r *reconciler) reconcileDiscovery(ctx context.Context, st store.Store, rec *DiscoveryProspect) (recordOutcome, error) {
	var out recordOutcome
	name := strings.TrimSpace(rec.Institution.Name)
	if name == "" {
		return out, errors.NewValidationError("institution.name", nil, "missing institution name")
	}

	prospect, err := findProspect(ctx, st, name)
	if err != nil {
		return out, err
	}

	notes := discoveryNotes(rec)
	hasResearch := rec.FacilityHypothesis != nil && rec.FacilityHypothesis.Statement != ""

	patch := pipeline.ProspectPatch{}
	setIfPresent(&patch.City, rec.Institution.City)
	setIfPresent(&patch.Conference, rec.Institution.Conference)
	if rec.Institution.Type != "" {
		vt := NormalizeVenueType(rec.Institution.Type)
		patch.VenueType = &vt
	}
	if rec.Institution.State != "" {
		state := NormalizeState(rec.Institution.State)
		patch.State = &state
	}
	if rec.Institution.Enrollment != nil {
		patch.Enrollment = rec.Institution.Enrollment
	}
	if f := rec.Facility; f != nil {
		setIfPresent(&patch.StadiumName, f.PrimaryVenue)
		if f.CurrentLighting != "" {
			lt := NormalizeLighting(f.CurrentLighting)
			patch.LightingType = &lt
		}
		if f.LightingAgeYears != nil {
			patch.LightingAgeYears = f.LightingAgeYears
		}
		if f.BroadcastCapable != nil {
			bc := NormalizeBroadcast(f.BroadcastCapable)
			patch.Broadcast = &bc
		}
	}
	if s := rec.Scoring; s != nil {
		if tier := NormalizeTier(s.Tier); tier != "" {
			patch.Tier = &tier
		}
		if s.ICPScore != nil {
			patch.ICPScore = s.ICPScore
		}
	}
	if rec.FacilityHypothesis != nil {
		setIfPresent(&patch.ConstraintHypothesis, rec.FacilityHypothesis.Statement)
	}
	if rec.SalesReadiness != nil {
		setIfPresent(&patch.ValueProposition, rec.SalesReadiness.OpportunitySummary)
	}
	source := sourceImport
	sourceDate := r.now()
	patch.Source = &source
	patch.SourceDate = &sourceDate

	if prospect != nil {
		patch.Apply(prospect)
		appendNotes(prospect, notes)
		prospect.Status = DeriveStatus(prospect.Tier, hasResearch || prospect.ConstraintHypothesis != "")
		prospect.UpdatedAt = r.now()
		if err := st.UpdateProspect(ctx, prospect); err != nil {
			return out, err
		}
		out.prospectsUpdated++
	} else {
		prospect = &pipeline.Prospect{
			ID:           pipeline.NewID(),
			Name:         name,
			VenueType:    NormalizeVenueType(rec.Institution.Type),
			State:        NormalizeState(rec.Institution.State),
			LightingType: pipeline.LightingUnknown,
			Broadcast:    pipeline.BroadcastNone,
		}
		patch.Apply(prospect)
		prospect.ResearchNotes = notes
		prospect.Status = DeriveStatus(prospect.Tier, hasResearch)
		if err := st.CreateProspect(ctx, prospect); err != nil {
			return out, err
		}
		out.prospectsCreated++
	}
	out.prospectID = prospect.ID

	if dm := rec.DecisionMaker; dm != nil && dm.Name != "" {
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, contactInput{
			name:        dm.Name,
			title:       dm.Title,
			email:       dm.Email,
			phone:       dm.Phone,
			linkedInURL: dm.LinkedInURL,
			notes:       dm.Notes,
			role:        ContactRoleFrom(dm.AuthorityLevel, ""),
			isPrimary:   true,
		})
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}
	for _, sc := range rec.SecondaryContacts {
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, contactInput{
			name:      sc.Name,
			title:     sc.Title,
			email:     sc.Email,
			phone:     sc.Phone,
			notes:     sc.RoleInDecision,
			role:      ContactRoleFrom("", sc.RoleInDecision),
			isPrimary: false,
		})
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}

	if err := r.importScores(ctx, st, prospect.ID, rec.Scoring); err != nil {
		return out, err
	}
	if err := r.note(ctx, st, prospect.ID, "Imported from athletic-director-prospecting skill"); err != nil {
		return out, err
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Enrichment records
// ----------------------------------------------------------------------------

func (r *reconciler) reconcileEnrichment(ctx context.Context, st store.Store, rec *EnrichedProspect) (recordOutcome, error) {
	var out recordOutcome
	prospect, err := findProspect(ctx, st, rec.Institution)
	if err != nil {
		return out, err
	}
	if prospect == nil {
		// Enrichment never creates prospects.
		out.warnings = append(out.warnings, fmt.Sprintf(
			"Prospect not found for institution: %s. Import the athletic-director-prospecting file first.",
			rec.Institution))
		return out, nil
	}
	out.prospectID = prospect.ID

	changed := false
	if tier := NormalizeTier(rec.Tier); tier != "" && prospect.Tier == "" {
		prospect.Tier = tier
		changed = true
	}
	if rec.TotalScore != nil && prospect.ICPScore == nil {
		prospect.ICPScore = rec.TotalScore
		changed = true
	}
	if changed {
		prospect.UpdatedAt = r.now()
		if err := st.UpdateProspect(ctx, prospect); err != nil {
			return out, err
		}
	}

	primaryName := ""
	for _, item := range rec.RecommendedOutreachSequence {
		if item.Order == 1 {
			primaryName = item.Contact
			break
		}
	}

	for _, c := range rec.Contacts {
		if c.Confidence != nil && *c.Confidence < r.minConfidence {
			continue
		}
		phone := c.Phone
		if phone == "" {
			phone = c.Cell
		}
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, contactInput{
			name:        c.Name,
			title:       c.Title,
			email:       c.Email,
			phone:       phone,
			linkedInURL: c.LinkedInURL,
			notes:       c.Notes,
			role:        ContactRoleFrom(c.AuthorityLevel, c.RoleInDecision),
			isPrimary:   primaryName != "" && strings.EqualFold(c.Name, primaryName),
		})
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}

	description := fmt.Sprintf("Contacts enriched from contact-finder skill (%d contacts)", len(rec.Contacts))
	if err := r.note(ctx, st, prospect.ID, description); err != nil {
		return out, err
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Direct contact-list records
// ----------------------------------------------------------------------------

func (r *reconciler) reconcileContactEntry(ctx context.Context, st store.Store, rec *ContactListEntry) (recordOutcome, error) {
	var out recordOutcome
	prospect, err := r.matchOrCreateProspect(ctx, st, &out, prospectSeed{
		institution:            rec.Institution,
		tier:                   rec.Tier,
		score:                  rec.Score,
		outreachRecommendation: outreachRecommendationNote(rec.OutreachRecommendation),
	})
	if err != nil {
		return out, err
	}

	if pc := rec.PrimaryContact; pc != nil && pc.Name != "" {
		phone := cleanValue(pc.PhoneDirect)
		if phone == "" {
			phone = cleanValue(pc.Phone)
		}
		if phone == "" {
			phone = cleanValue(pc.PhoneMain)
		}
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, contactInput{
			name:        pc.Name,
			title:       pc.Title,
			email:       pc.Email,
			phone:       phone,
			linkedInURL: pc.LinkedInURL,
			notes:       pc.Notes,
			role:        pipeline.RoleDecisionMaker,
			isPrimary:   true,
		})
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}
	for _, sc := range rec.SecondaryContacts {
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, contactInput{
			name:      sc.Name,
			title:     sc.Title,
			email:     sc.Email,
			phone:     sc.Phone,
			notes:     sc.RoleInDecision,
			role:      ContactRoleFrom("", sc.RoleInDecision),
			isPrimary: false,
		})
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}

	if err := r.note(ctx, st, prospect.ID, "Contacts enriched from contact-finder skill"); err != nil {
		return out, err
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Nested-prospects records
// ----------------------------------------------------------------------------

func (r *reconciler) reconcileNested(ctx context.Context, st store.Store, rec *NestedProspect) (recordOutcome, error) {
	var out recordOutcome
	city, state := splitLocation(rec.Location)
	prospect, err := r.matchOrCreateProspect(ctx, st, &out, prospectSeed{
		institution: rec.Institution,
		city:        city,
		state:       state,
		tier:        rec.Tier,
		score:       rec.Score,
		outreachRecommendation: joinBlocks(
			nestedOutreachNote(rec.OutreachRecommendations),
			contactsObjectNote(rec.Contacts),
		),
	})
	if err != nil {
		return out, err
	}

	if rec.Contacts != nil {
		if dm := rec.Contacts.PrimaryDecisionMaker; dm != nil && dm.Name != "" {
			created, updated, err := r.upsertContact(ctx, st, prospect.ID, nestedContactInput(dm, true))
			if err != nil {
				return out, err
			}
			out.tallyContact(created, updated)
		}
		for i := range rec.Contacts.SecondaryContacts {
			sc := &rec.Contacts.SecondaryContacts[i]
			created, updated, err := r.upsertContact(ctx, st, prospect.ID, nestedContactInput(sc, false))
			if err != nil {
				return out, err
			}
			out.tallyContact(created, updated)
		}
	}

	if err := r.note(ctx, st, prospect.ID, "Contacts enriched from contact-finder skill"); err != nil {
		return out, err
	}
	return out, nil
}

// contactsObjectNote folds the non-person general contact into a
// research-notes block.
func contactsObjectNote(contacts *ContactsObject) string {
	if contacts == nil {
		return ""
	}
	return generalContactNote(contacts.GeneralContact)
}

// nestedContactInput converts a nested contact to the shared payload,
// folding project involvement into the notes.
func nestedContactInput(c *NestedContact, primary bool) contactInput {
	notes := c.Notes
	if c.ProjectInvolvement != "" {
		if notes != "" {
			notes += " | "
		}
		notes += c.ProjectInvolvement
	}
	return contactInput{
		name:        c.Name,
		title:       c.Title,
		email:       c.Email,
		phone:       c.Phone,
		linkedInURL: c.LinkedInURL,
		notes:       notes,
		role:        ContactRoleFrom(c.AuthorityLevel, c.ProjectInvolvement),
		isPrimary:   primary,
	}
}

// ----------------------------------------------------------------------------
// Flat-contacts records
// ----------------------------------------------------------------------------

func (r *reconciler) reconcileFlat(ctx context.Context, st store.Store, rec *FlatProspect) (recordOutcome, error) {
	var out recordOutcome
	prospect, err := r.matchOrCreateProspect(ctx, st, &out, prospectSeed{
		institution: rec.Institution,
		tier:        rec.Tier,
		score:       rec.Score,
	})
	if err != nil {
		return out, err
	}

	primaryName := ""
	if len(rec.RecommendedOutreachOrder) > 0 {
		primaryName = rec.RecommendedOutreachOrder[0]
	}

	for i := range rec.Contacts {
		c := &rec.Contacts[i]
		in := nestedContactInput(c, primaryName != "" && strings.EqualFold(c.Name, primaryName))
		created, updated, err := r.upsertContact(ctx, st, prospect.ID, in)
		if err != nil {
			return out, err
		}
		out.tallyContact(created, updated)
	}

	if err := r.note(ctx, st, prospect.ID, "Contacts enriched from contact-finder skill"); err != nil {
		return out, err
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Shared prospect match-or-create for contact-centric variants
// ----------------------------------------------------------------------------

// prospectSeed is the minimal prospect data a contact-centric record
// carries. Contact-centric variants create a skeletal prospect when no
// match exists; richer fields wait for a discovery import.
type prospectSeed struct {
	institution            string
	city                   string
	state                  string
	tier                   string
	score                  *int
	outreachRecommendation string
}

func (r *reconciler) matchOrCreateProspect(ctx context.Context, st store.Store, out *recordOutcome, seed prospectSeed) (*pipeline.Prospect, error) {
	name := strings.TrimSpace(seed.institution)
	if name == "" {
		return nil, errors.NewValidationError("institution", nil, "missing institution name")
	}

	prospect, err := findProspect(ctx, st, name)
	if err != nil {
		return nil, err
	}

	if prospect == nil {
		tier := NormalizeTier(seed.tier)
		prospect = &pipeline.Prospect{
			ID:            pipeline.NewID(),
			Name:          name,
			VenueType:     NormalizeVenueType(name),
			State:         NormalizeState(seed.state),
			City:          seed.city,
			Tier:          tier,
			ICPScore:      seed.score,
			Status:        DeriveStatus(tier, false),
			LightingType:  pipeline.LightingUnknown,
			Broadcast:     pipeline.BroadcastNone,
			ResearchNotes: seed.outreachRecommendation,
			Source:        sourceImport,
			SourceDate:    r.now(),
		}
		if err := st.CreateProspect(ctx, prospect); err != nil {
			return nil, err
		}
		out.prospectsCreated++
	} else {
		if tier := NormalizeTier(seed.tier); tier != "" {
			prospect.Tier = tier
		}
		if seed.score != nil && (prospect.ICPScore == nil || *seed.score > *prospect.ICPScore) {
			prospect.ICPScore = seed.score
		}
		if seed.city != "" && prospect.City == "" {
			prospect.City = seed.city
		}
		if seed.state != "" && prospect.State == pipeline.StateOther {
			prospect.State = NormalizeState(seed.state)
		}
		appendNotes(prospect, seed.outreachRecommendation)
		prospect.UpdatedAt = r.now()
		if err := st.UpdateProspect(ctx, prospect); err != nil {
			return nil, err
		}
		out.prospectsUpdated++
	}

	out.prospectID = prospect.ID
	return prospect, nil
}

func (out *recordOutcome) tallyContact(created, updated bool) {
	if created {
		out.contactsCreated++
	}
	if updated {
		out.contactsUpdated++
	}
}
