package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbeams/pipeline/pkg/pipeline"
	"github.com/sportsbeams/pipeline/pkg/store/memory"
)

const discoveryDoc = `{
  "skill_type": "athletic-director-prospecting",
  "prospects": [
    {
      "institution": {
        "name": "Westerville North High School",
        "type": "6A High School",
        "city": "Westerville",
        "state": "OH",
        "enrollment": 1600,
        "conference": "OCC"
      },
      "facility": {
        "primary_venue": "Braves Stadium",
        "current_lighting": "Metal halide, installed 2004",
        "lighting_age_years": 21,
        "broadcast_capable": true
      },
      "scoring": {
        "tier": "A1",
        "icp_score": 87,
        "score_breakdown": {
          "facility_condition": {"score": 9, "weight": 3},
          "budget_signals": {"score": 12},
          "geographic_fit": {}
        }
      },
      "deal_risk_flags": ["Bond vote pending"],
      "facility_hypothesis": {"statement": "Aging metal halide limits night events"},
      "decision_maker": {
        "name": "Dana Smith",
        "title": "Athletic Director",
        "email": "dsmith@wnhs.org",
        "authority_level": "high"
      },
      "secondary_contacts": [
        {"name": "Lee Park", "title": "Facilities Manager",
         "email": "lpark@wnhs.org", "role_in_decision": "technical evaluation"}
      ],
      "sales_readiness": {
        "opportunity_summary": "Stadium lighting overhaul before 2027 season",
        "key_assumptions": ["District owns the stadium"]
      },
      "outreach": {"timing_triggers": ["Spring budget cycle"]}
    }
  ]
}`

func importString(t *testing.T, st *memory.Store, doc string) *Result {
	t.Helper()
	session := NewSession(st)
	result, err := session.Import(context.Background(), []byte(doc))
	require.NoError(t, err)
	return result
}

func TestImportDiscoveryCreates(t *testing.T) {
	st := memory.New()
	result := importString(t, st, discoveryDoc)

	assert.True(t, result.Success)
	assert.Equal(t, "athletic-director-prospecting", result.SkillType)
	assert.Equal(t, 1, result.ProspectsCreated)
	assert.Equal(t, 0, result.ProspectsUpdated)
	assert.Equal(t, 2, result.ContactsCreated)
	assert.Len(t, result.ImportedIDs, 1)

	p, err := st.ProspectByName(context.Background(), "Westerville North High School")
	require.NoError(t, err)
	assert.Equal(t, pipeline.VenueHighSchool6A, p.VenueType)
	assert.Equal(t, pipeline.StateOH, p.State)
	assert.Equal(t, "Westerville", p.City)
	assert.Equal(t, pipeline.LightingMetalHalide, p.LightingType)
	assert.Equal(t, pipeline.BroadcastLocalStreaming, p.Broadcast)
	assert.Equal(t, pipeline.TierA1, p.Tier)
	require.NotNil(t, p.ICPScore)
	assert.Equal(t, 87, *p.ICPScore)
	assert.Equal(t, "Aging metal halide limits night events", p.ConstraintHypothesis)
	// A1 with a constraint hypothesis is ready for outreach.
	assert.Equal(t, pipeline.StatusReadyForOutreach, p.Status)
	assert.Contains(t, p.ResearchNotes, "Risk Flags:\n- Bond vote pending")
	assert.Contains(t, p.ResearchNotes, "Key Assumptions:\n- District owns the stadium")
	assert.Contains(t, p.ResearchNotes, "Timing Triggers:\n- Spring budget cycle")
	assert.Equal(t, "skill_import", p.Source)

	// Decision maker is the primary contact.
	dm, err := st.ContactByEmail(context.Background(), p.ID, "dsmith@wnhs.org")
	require.NoError(t, err)
	assert.True(t, dm.IsPrimary)
	assert.Equal(t, pipeline.RoleDecisionMaker, dm.Role)

	sc, err := st.ContactByEmail(context.Background(), p.ID, "lpark@wnhs.org")
	require.NoError(t, err)
	assert.False(t, sc.IsPrimary)
	assert.Equal(t, pipeline.RoleInfluencer, sc.Role)

	// Scores: only breakdown dimensions present; values clamped; weight
	// defaults applied.
	fc, err := st.Score(context.Background(), p.ID, pipeline.DimLightingAge)
	require.NoError(t, err)
	assert.Equal(t, 9, fc.Score)
	assert.Equal(t, 3, fc.Weight)

	bs, err := st.Score(context.Background(), p.ID, pipeline.DimBudgetSignals)
	require.NoError(t, err)
	assert.Equal(t, 10, bs.Score, "raw 12 clamps to the score ceiling")

	geo, err := st.Score(context.Background(), p.ID, pipeline.DimGeography)
	require.NoError(t, err)
	assert.Equal(t, 5, geo.Score, "absent score defaults to 5")
	assert.Equal(t, 2, geo.Weight, "absent weight takes the dimension default")

	_, err = st.Score(context.Background(), p.ID, pipeline.DimVenueType)
	assert.Error(t, err, "dimensions missing from the breakdown are not stored")

	// Exactly one audit activity.
	activities := st.Activities()
	require.Len(t, activities, 1)
	assert.Equal(t, pipeline.ActivityNote, activities[0].Type)
	assert.Equal(t, "import_service", activities[0].AgentID)
	assert.Equal(t, "Imported from athletic-director-prospecting skill", activities[0].Description)
}

func TestImportDiscoveryIdempotent(t *testing.T) {
	st := memory.New()
	first := importString(t, st, discoveryDoc)
	require.Equal(t, 1, first.ProspectsCreated)

	second := importString(t, st, discoveryDoc)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.ProspectsCreated)
	assert.Equal(t, 1, second.ProspectsUpdated)
	assert.Equal(t, 0, second.ContactsCreated, "contacts dedup on email")
	assert.Equal(t, 2, second.ContactsUpdated)

	prospects, contacts, scores, activities := st.Counts()
	assert.Equal(t, 1, prospects)
	assert.Equal(t, 2, contacts)
	assert.Equal(t, 3, scores, "existing scores are never overwritten or duplicated")
	assert.Equal(t, 2, activities, "each batch appends its audit entry")

	p, err := st.ProspectByName(context.Background(), "Westerville North High School")
	require.NoError(t, err)
	// Notes must not duplicate on re-import.
	assert.Equal(t, 1, strings.Count(p.ResearchNotes, "Bond vote pending"))
}

func TestImportMergeIsNonDestructive(t *testing.T) {
	st := memory.New()
	importString(t, st, discoveryDoc)

	// A later, sparser export for the same institution must not blank
	// out fields it does not carry.
	sparse := `{
	  "skill_type": "athletic-director-prospecting",
	  "prospects": [
	    {"institution": {"name": "Westerville North High School"}}
	  ]
	}`
	result := importString(t, st, sparse)
	assert.Equal(t, 1, result.ProspectsUpdated)

	p, err := st.ProspectByName(context.Background(), "Westerville North High School")
	require.NoError(t, err)
	assert.Equal(t, "Westerville", p.City)
	assert.Equal(t, pipeline.VenueHighSchool6A, p.VenueType)
	assert.Equal(t, pipeline.TierA1, p.Tier)
	assert.Equal(t, "Aging metal halide limits night events", p.ConstraintHypothesis)
	assert.Contains(t, p.ResearchNotes, "Bond vote pending")
}

func TestImportEnrichment(t *testing.T) {
	st := memory.New()
	importString(t, st, discoveryDoc)

	doc := `{
	  "skill_type": "contact-finder-enrichment",
	  "enriched_prospects": [
	    {
	      "institution": "Westerville North",
	      "tier": "A2",
	      "total_score": 91,
	      "contacts": [
	        {"name": "Dana Smith", "email": "dsmith@wnhs.org", "confidence": 95,
	         "authority_level": "high", "cell": "614-555-0100"},
	        {"name": "Low Conf", "email": "low@wnhs.org", "confidence": 40},
	        {"name": "Casey Wu", "title": "Board President", "email": "cwu@wnhs.org",
	         "confidence": 80, "role_in_decision": "final approval"}
	      ],
	      "recommended_outreach_sequence": [
	        {"order": 1, "contact": "dana smith"},
	        {"order": 2, "contact": "Casey Wu"}
	      ]
	    },
	    {
	      "institution": "Nowhere Prep",
	      "contacts": [{"name": "Ghost", "email": "g@nowhere.org", "confidence": 99}]
	    }
	  ]
	}`
	result := importString(t, st, doc)

	assert.True(t, result.Success, "a missing prospect is a warning, not an error")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Nowhere Prep")
	assert.Equal(t, 0, result.ProspectsCreated, "enrichment never creates prospects")
	assert.Equal(t, 1, result.ContactsCreated, "Casey Wu is new; low confidence skipped")
	assert.Equal(t, 1, result.ContactsUpdated, "Dana Smith matched on email")

	// Fuzzy institution match found the full prospect name.
	p, err := st.ProspectByName(context.Background(), "Westerville North High School")
	require.NoError(t, err)
	assert.Equal(t, pipeline.TierA1, p.Tier, "existing tier is kept")
	require.NotNil(t, p.ICPScore)
	assert.Equal(t, 87, *p.ICPScore, "existing score is kept")

	dm, err := st.ContactByEmail(context.Background(), p.ID, "dsmith@wnhs.org")
	require.NoError(t, err)
	assert.True(t, dm.IsPrimary, "sequence order 1 marks the primary, case-insensitively")
	assert.Equal(t, "614-555-0100", dm.Phone, "cell fills in when phone is absent")

	_, err = st.ContactByEmail(context.Background(), p.ID, "low@wnhs.org")
	assert.Error(t, err, "below-floor confidence contacts are skipped")
}

func TestImportEnrichmentFillsMissingTierAndScore(t *testing.T) {
	st := memory.New()
	seed := `{
	  "skill_type": "contact-finder",
	  "contacts": [{"institution": "Blank Slate University"}]
	}`
	importString(t, st, seed)

	doc := `{
	  "skill_type": "contact-finder-enrichment",
	  "enriched_prospects": [
	    {"institution": "Blank Slate University", "tier": "B", "total_score": 55, "contacts": []}
	  ]
	}`
	importString(t, st, doc)

	p, err := st.ProspectByName(context.Background(), "Blank Slate University")
	require.NoError(t, err)
	assert.Equal(t, pipeline.TierB, p.Tier)
	require.NotNil(t, p.ICPScore)
	assert.Equal(t, 55, *p.ICPScore)
}

func TestImportContactList(t *testing.T) {
	st := memory.New()
	doc := `{
	  "skill_type": "contact-finder",
	  "contacts": [
	    {
	      "institution": "Miami Valley School District",
	      "tier": "B",
	      "score": 62,
	      "primary_contact": {
	        "name": "Robin Hall",
	        "title": "Superintendent",
	        "email": "unknown",
	        "phone_direct": "937-555-0101",
	        "linkedin_url": "not found"
	      },
	      "secondary_contacts": [
	        {"name": "Sam Reed", "email": "sreed@mvsd.org", "role_in_decision": "gatekeeper"}
	      ],
	      "outreach_recommendation": "Call during budget season"
	    }
	  ]
	}`
	result := importString(t, st, doc)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ProspectsCreated)
	assert.Equal(t, 2, result.ContactsCreated)

	p, err := st.ProspectByName(context.Background(), "Miami Valley School District")
	require.NoError(t, err)
	assert.Equal(t, pipeline.VenueHighSchool5A, p.VenueType, "venue inferred from the institution name")
	assert.Equal(t, pipeline.StateOther, p.State, "contact lists carry no state")
	assert.Equal(t, pipeline.TierB, p.Tier)
	assert.Equal(t, pipeline.StatusScored, p.Status)
	assert.Contains(t, p.ResearchNotes, "Outreach Recommendation: Call during budget season")

	// The placeholder email means no dedup key, so the primary was
	// inserted with a blank email; find it via the secondary's email
	// owner list instead.
	sam, err := st.ContactByEmail(context.Background(), p.ID, "sreed@mvsd.org")
	require.NoError(t, err)
	assert.Equal(t, pipeline.RoleBlocker, sam.Role)
	assert.False(t, sam.IsPrimary)
}

func TestImportContactListHigherScoreWins(t *testing.T) {
	st := memory.New()
	doc := `{
	  "skill_type": "contact-finder",
	  "contacts": [{"institution": "Riverside College", "score": 50}]
	}`
	importString(t, st, doc)

	lower := `{
	  "skill_type": "contact-finder",
	  "contacts": [{"institution": "Riverside College", "score": 40}]
	}`
	importString(t, st, lower)

	p, err := st.ProspectByName(context.Background(), "Riverside College")
	require.NoError(t, err)
	require.NotNil(t, p.ICPScore)
	assert.Equal(t, 50, *p.ICPScore, "a lower incoming score never downgrades")

	higher := `{
	  "skill_type": "contact-finder",
	  "contacts": [{"institution": "Riverside College", "score": 70}]
	}`
	importString(t, st, higher)

	p, err = st.ProspectByName(context.Background(), "Riverside College")
	require.NoError(t, err)
	assert.Equal(t, 70, *p.ICPScore)
}

func TestImportNestedProspects(t *testing.T) {
	st := memory.New()
	doc := `{
	  "skill_type": "contact-finder",
	  "prospects": [
	    {
	      "institution": "Troy Christian High School",
	      "location": "Troy, OH",
	      "tier": "A2",
	      "score": 78,
	      "contacts": {
	        "primary_decision_maker": {
	          "name": "Morgan Price", "title": "AD",
	          "email": "mprice@tchs.org", "authority_level": "high"
	        },
	        "secondary_contacts": [
	          {"name": "Jamie Fox", "email": "jfox@tchs.org",
	           "project_involvement": "budget owner"}
	        ],
	        "general_contact": {"phone": "937-555-0199", "website": "tchs.org"}
	      },
	      "outreach_recommendations": {
	        "approach": "Lead with broadcast revenue",
	        "talking_points": ["Night game capacity", "Streaming quality"]
	      }
	    }
	  ]
	}`
	result := importString(t, st, doc)

	assert.True(t, result.Success)
	assert.Equal(t, "contact-finder-prospects", result.SkillType)
	assert.Equal(t, 1, result.ProspectsCreated)
	assert.Equal(t, 2, result.ContactsCreated)

	p, err := st.ProspectByName(context.Background(), "Troy Christian High School")
	require.NoError(t, err)
	assert.Equal(t, "Troy", p.City)
	assert.Equal(t, pipeline.StateOH, p.State, "state parsed from the location string")
	assert.Contains(t, p.ResearchNotes, "Outreach Approach: Lead with broadcast revenue")
	assert.Contains(t, p.ResearchNotes, "Talking Points:\n- Night game capacity")
	assert.Contains(t, p.ResearchNotes, "General Contact:\n- Phone: 937-555-0199")

	pdm, err := st.ContactByEmail(context.Background(), p.ID, "mprice@tchs.org")
	require.NoError(t, err)
	assert.True(t, pdm.IsPrimary)
	assert.Equal(t, pipeline.RoleDecisionMaker, pdm.Role)

	jamie, err := st.ContactByEmail(context.Background(), p.ID, "jfox@tchs.org")
	require.NoError(t, err)
	assert.Equal(t, pipeline.RoleInfluencer, jamie.Role, "budget involvement implies influencer")
	assert.Contains(t, jamie.Notes, "budget owner")
}

func TestImportFlatContacts(t *testing.T) {
	st := memory.New()
	doc := `{
	  "skill_type": "contact-finder",
	  "prospects": [
	    {
	      "institution": "Lakeside Academy",
	      "tier": "C",
	      "contacts": [
	        {"name": "Avery Cole", "email": "acole@lakeside.org", "authority_level": "medium"},
	        {"name": "Drew Kim", "email": "dkim@lakeside.org"}
	      ],
	      "recommended_outreach_order": ["Drew Kim", "Avery Cole"]
	    }
	  ]
	}`
	result := importString(t, st, doc)

	assert.True(t, result.Success)
	assert.Equal(t, "contact-finder-flat", result.SkillType)
	assert.Equal(t, 1, result.ProspectsCreated)
	assert.Equal(t, 2, result.ContactsCreated)

	p, err := st.ProspectByName(context.Background(), "Lakeside Academy")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusDeprioritized, p.Status)

	drew, err := st.ContactByEmail(context.Background(), p.ID, "dkim@lakeside.org")
	require.NoError(t, err)
	assert.True(t, drew.IsPrimary, "first name in the outreach order is primary")

	avery, err := st.ContactByEmail(context.Background(), p.ID, "acole@lakeside.org")
	require.NoError(t, err)
	assert.False(t, avery.IsPrimary)
}

func TestImportIsolatesBadRecords(t *testing.T) {
	st := memory.New()
	doc := `{
	  "skill_type": "athletic-director-prospecting",
	  "prospects": [
	    {"institution": {"name": "Good School", "type": "high school", "state": "OH"}},
	    {"institution": {"name": ""}},
	    {"institution": {"name": "Another Good School", "type": "college", "state": "IN"}}
	  ]
	}`
	result := importString(t, st, doc)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing institution name")
	assert.Equal(t, 2, result.ProspectsCreated, "siblings of a bad record still commit")

	_, err := st.ProspectByName(context.Background(), "Good School")
	assert.NoError(t, err)
	_, err = st.ProspectByName(context.Background(), "Another Good School")
	assert.NoError(t, err)
}

func TestImportUnrecognizedSchema(t *testing.T) {
	st := memory.New()
	session := NewSession(st)
	_, err := session.Import(context.Background(), []byte(`{"widgets": []}`))
	require.Error(t, err)

	prospects, contacts, scores, activities := st.Counts()
	assert.Zero(t, prospects+contacts+scores+activities, "nothing written for an unrecognized document")
}

func TestImportMinConfidenceOption(t *testing.T) {
	st := memory.New()
	importString(t, st, discoveryDoc)

	doc := `{
	  "skill_type": "contact-finder-enrichment",
	  "enriched_prospects": [
	    {"institution": "Westerville North High School",
	     "contacts": [{"name": "Border Line", "email": "bl@wnhs.org", "confidence": 50}]}
	  ]
	}`

	session := NewSession(st, WithMinConfidence(40))
	result, err := session.Import(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ContactsCreated, "lowered floor admits the contact")
}

func TestPreviewImport(t *testing.T) {
	preview, err := PreviewImport([]byte(discoveryDoc))
	require.NoError(t, err)
	assert.Equal(t, "athletic-director-prospecting", preview.SkillType)
	assert.Equal(t, 1, preview.RecordCount)
	require.Len(t, preview.Records, 1)
	assert.Equal(t, "Westerville North High School", preview.Records[0].Institution)
	assert.Equal(t, "A1", preview.Records[0].Tier)
	assert.Equal(t, 2, preview.Records[0].ContactCount)
}
