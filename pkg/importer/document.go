package importer

import (
	json "github.com/goccy/go-json"

	"github.com/sportsbeams/pipeline/pkg/errors"
)

// Document is the closed tagged union of parsed import documents.
// Exactly one variant field is non-nil, selected by Detect.
type Document struct {
	Variant Variant

	Discovery       *DiscoveryDocument
	Enrichment      *EnrichmentDocument
	ContactList     *ContactListDocument
	NestedProspects *NestedProspectsDocument
	FlatContacts    *FlatContactsDocument
}

// Records returns the number of records in the document.
func (d *Document) Records() int {
	switch d.Variant {
	case VariantDiscovery:
		return len(d.Discovery.Prospects)
	case VariantEnrichment:
		return len(d.Enrichment.EnrichedProspects)
	case VariantContactList:
		return len(d.ContactList.Contacts)
	case VariantNestedProspects:
		return len(d.NestedProspects.Prospects)
	case VariantFlatContacts:
		return len(d.FlatContacts.Prospects)
	}
	return 0
}

// Parse classifies raw JSON into a variant and decodes it into the
// matching typed document.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewValidationError("document", nil, "invalid JSON: "+err.Error())
	}

	variant, err := Detect(raw)
	if err != nil {
		return nil, err
	}

	doc := &Document{Variant: variant}
	switch variant {
	case VariantDiscovery:
		doc.Discovery = &DiscoveryDocument{}
		err = json.Unmarshal(data, doc.Discovery)
	case VariantEnrichment:
		doc.Enrichment = &EnrichmentDocument{}
		err = json.Unmarshal(data, doc.Enrichment)
	case VariantContactList:
		doc.ContactList = &ContactListDocument{}
		err = json.Unmarshal(data, doc.ContactList)
	case VariantNestedProspects:
		doc.NestedProspects = &NestedProspectsDocument{}
		err = json.Unmarshal(data, doc.NestedProspects)
	case VariantFlatContacts:
		doc.FlatContacts = &FlatContactsDocument{}
		err = json.Unmarshal(data, doc.FlatContacts)
	}
	if err != nil {
		return nil, errors.NewValidationError("document", nil,
			"decoding "+variant.String()+" document: "+err.Error())
	}
	return doc, nil
}

// ----------------------------------------------------------------------------
// Institution-discovery variant
// ----------------------------------------------------------------------------

// DiscoveryDocument is the institution-discovery export.
type DiscoveryDocument struct {
	SkillType   string              `json:"skill_type"`
	Version     string              `json:"version,omitempty"`
	GeneratedAt string              `json:"generated_at,omitempty"`
	Prospects   []DiscoveryProspect `json:"prospects"`
}

// DiscoveryProspect is one discovered institution with its research
// payload. All fields except the institution name are optional.
type DiscoveryProspect struct {
	Institution        Institution         `json:"institution"`
	Facility           *Facility           `json:"facility,omitempty"`
	Scoring            *Scoring            `json:"scoring,omitempty"`
	DealRiskFlags      []string            `json:"deal_risk_flags,omitempty"`
	KeySignals         []string            `json:"key_signals,omitempty"`
	FacilityHypothesis *FacilityHypothesis `json:"facility_hypothesis,omitempty"`
	DecisionMaker      *DecisionMaker      `json:"decision_maker,omitempty"`
	SecondaryContacts  []SecondaryContact  `json:"secondary_contacts,omitempty"`
	SalesReadiness     *SalesReadiness     `json:"sales_readiness,omitempty"`
	Outreach           *Outreach           `json:"outreach,omitempty"`
}

// Institution is the nested institution object on discovery records.
type Institution struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Website    string `json:"website,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Enrollment *int   `json:"enrollment,omitempty"`
	Conference string `json:"conference,omitempty"`
}

// Facility describes the venue's current lighting situation.
type Facility struct {
	PrimaryVenue     string `json:"primary_venue,omitempty"`
	CurrentLighting  string `json:"current_lighting,omitempty"`
	LightingAgeYears *int   `json:"lighting_age_years,omitempty"`
	BroadcastCapable *bool  `json:"broadcast_capable,omitempty"`
	FacilityNotes    string `json:"facility_notes,omitempty"`
}

// Scoring carries the exporter's tier and per-dimension breakdown.
type Scoring struct {
	Tier           string                    `json:"tier,omitempty"`
	ICPScore       *int                      `json:"icp_score,omitempty"`
	TotalScore     *int                      `json:"total_score,omitempty"`
	ScoreBreakdown map[string]ScoreBreakdown `json:"score_breakdown,omitempty"`
}

// ScoreBreakdown is one dimension's raw score and weight. Absent
// values fall to defaults during reconciliation.
type ScoreBreakdown struct {
	Score  *int `json:"score,omitempty"`
	Weight *int `json:"weight,omitempty"`
}

// FacilityHypothesis is the researcher's constraint hypothesis.
type FacilityHypothesis struct {
	Statement      string `json:"statement,omitempty"`
	TargetFacility string `json:"target_facility,omitempty"`
	EstimatedValue string `json:"estimated_value,omitempty"`
}

// DecisionMaker is the primary decision maker on a discovery record.
type DecisionMaker struct {
	Name           string `json:"name,omitempty"`
	Title          string `json:"title,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	AuthorityLevel string `json:"authority_level,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// SecondaryContact is a non-primary contact on a discovery record.
type SecondaryContact struct {
	Name           string `json:"name"`
	Title          string `json:"title,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	RoleInDecision string `json:"role_in_decision,omitempty"`
}

// SalesReadiness carries the researcher's readiness assessment.
type SalesReadiness struct {
	OpportunitySummary string   `json:"opportunity_summary,omitempty"`
	KeyAssumptions     []string `json:"key_assumptions,omitempty"`
	RequiredValidation []string `json:"required_validation,omitempty"`
	DiscoveryQuestions []string `json:"discovery_questions,omitempty"`
}

// Outreach carries outreach timing and approach suggestions.
type Outreach struct {
	TimingTriggers       []string `json:"timing_triggers,omitempty"`
	PersonalizationHooks []string `json:"personalization_hooks,omitempty"`
	RecommendedApproach  string   `json:"recommended_approach,omitempty"`
}

// ----------------------------------------------------------------------------
// Enrichment variant
// ----------------------------------------------------------------------------

// EnrichmentDocument is the contact-enrichment export.
type EnrichmentDocument struct {
	SkillType         string             `json:"skill_type"`
	SourceFile        string             `json:"source_file,omitempty"`
	EnrichedProspects []EnrichedProspect `json:"enriched_prospects"`
}

// EnrichedProspect is one enriched institution. The institution is a
// plain string referencing an existing prospect by name.
type EnrichedProspect struct {
	Institution                 string                 `json:"institution"`
	Tier                        string                 `json:"tier,omitempty"`
	TotalScore                  *int                   `json:"total_score,omitempty"`
	Contacts                    []EnrichedContact      `json:"contacts"`
	RecommendedOutreachSequence []OutreachSequenceItem `json:"recommended_outreach_sequence,omitempty"`
}

// EnrichedContact is one enriched contact with a confidence rating.
type EnrichedContact struct {
	Name           string `json:"name"`
	Title          string `json:"title,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Cell           string `json:"cell,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Confidence     *int   `json:"confidence,omitempty"`
	AuthorityLevel string `json:"authority_level,omitempty"`
	RoleInDecision string `json:"role_in_decision,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// OutreachSequenceItem orders contacts for outreach; order 1 marks the
// primary contact.
type OutreachSequenceItem struct {
	Order   int    `json:"order"`
	Contact string `json:"contact"`
	Reason  string `json:"reason,omitempty"`
}

// ----------------------------------------------------------------------------
// Direct contact-list variant
// ----------------------------------------------------------------------------

// ContactListDocument is the direct contact-list export.
type ContactListDocument struct {
	SkillType string             `json:"skill_type"`
	Contacts  []ContactListEntry `json:"contacts"`
}

// ContactListEntry is one institution's contact findings.
type ContactListEntry struct {
	Institution            string             `json:"institution"`
	Tier                   string             `json:"tier,omitempty"`
	Score                  *int               `json:"score,omitempty"`
	PrimaryContact         *PrimaryContact    `json:"primary_contact,omitempty"`
	SecondaryContacts      []SecondaryContact `json:"secondary_contacts,omitempty"`
	OutreachRecommendation string             `json:"outreach_recommendation,omitempty"`
}

// PrimaryContact is the lead contact on a contact-list entry. Several
// phone fields may be present; the most direct one wins.
type PrimaryContact struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	PhoneDirect string `json:"phone_direct,omitempty"`
	PhoneMain   string `json:"phone_main,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Confidence  *int   `json:"confidence,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ----------------------------------------------------------------------------
// Nested-prospects variant
// ----------------------------------------------------------------------------

// NestedProspectsDocument is the contact-finder export whose prospects
// carry a contacts object.
type NestedProspectsDocument struct {
	SkillType string           `json:"skill_type"`
	Prospects []NestedProspect `json:"prospects"`
}

// NestedProspect is one institution with structured contact data.
type NestedProspect struct {
	Institution             string                  `json:"institution"`
	Location                string                  `json:"location,omitempty"`
	Tier                    string                  `json:"tier,omitempty"`
	Score                   *int                    `json:"score,omitempty"`
	Contacts                *ContactsObject         `json:"contacts,omitempty"`
	OutreachRecommendations *OutreachRecommendation `json:"outreach_recommendations,omitempty"`
}

// ContactsObject groups a prospect's contacts by role.
type ContactsObject struct {
	PrimaryDecisionMaker *NestedContact  `json:"primary_decision_maker,omitempty"`
	SecondaryContacts    []NestedContact `json:"secondary_contacts,omitempty"`
	GeneralContact       *GeneralContact `json:"general_contact,omitempty"`
}

// NestedContact is one contact with authority and involvement notes.
type NestedContact struct {
	Name               string `json:"name"`
	Title              string `json:"title,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	LinkedInURL        string `json:"linkedin_url,omitempty"`
	Confidence         *int   `json:"confidence,omitempty"`
	AuthorityLevel     string `json:"authority_level,omitempty"`
	ProjectInvolvement string `json:"project_involvement,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// GeneralContact is institution-level contact info, not a person.
type GeneralContact struct {
	Phone   string `json:"phone,omitempty"`
	Fax     string `json:"fax,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// OutreachRecommendation is the exporter's outreach plan for one
// institution.
type OutreachRecommendation struct {
	Approach               string   `json:"approach,omitempty"`
	Timing                 string   `json:"timing,omitempty"`
	TalkingPoints          []string `json:"talking_points,omitempty"`
	EmailSubjectSuggestion string   `json:"email_subject_suggestion,omitempty"`
}

// ----------------------------------------------------------------------------
// Flat-contacts variant
// ----------------------------------------------------------------------------

// FlatContactsDocument is the contact-finder export whose prospects
// carry a flat contacts array and a recommended outreach order.
type FlatContactsDocument struct {
	SkillType string         `json:"skill_type"`
	Prospects []FlatProspect `json:"prospects"`
}

// FlatProspect is one institution with an undifferentiated contact list.
type FlatProspect struct {
	Institution              string          `json:"institution"`
	Tier                     string          `json:"tier,omitempty"`
	Score                    *int            `json:"score,omitempty"`
	Contacts                 []NestedContact `json:"contacts,omitempty"`
	RecommendedOutreachOrder []string        `json:"recommended_outreach_order,omitempty"`
}
