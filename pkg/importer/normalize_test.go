package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sportsbeams/pipeline/pkg/pipeline"
)

func TestNormalizeVenueType(t *testing.T) {
	tests := []struct {
		input string
		want  pipeline.VenueType
	}{
		{"NCAA Division I FBS", pipeline.VenueCollegeD1},
		{"D1 University", pipeline.VenueCollegeD1},
		{"NCAA Division II", pipeline.VenueCollegeD2},
		{"NCAA Division III", pipeline.VenueCollegeD3},
		{"NAIA College", pipeline.VenueCollegeNAIA},
		{"Class 6A High School", pipeline.VenueHighSchool6A},
		{"5A Public High School", pipeline.VenueHighSchool5A},
		{"Class 4 school", pipeline.VenueHighSchool4A},
		{"OHSAA 3A", pipeline.VenueHighSchool3A},
		{"Public High School", pipeline.VenueHighSchool5A},
		{"Westerville School District", pipeline.VenueHighSchool5A},
		{"Private College", pipeline.VenueCollegeD2},
		{"State University", pipeline.VenueCollegeD2},
		{"Community Sports Complex", pipeline.VenueHighSchoolOther},
		{"", pipeline.VenueHighSchoolOther},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeVenueType(tt.input))
		})
	}
}

// Division III must not be swallowed by the Division I rule; the D1
// keyword carries a trailing space for exactly this reason.
func TestNormalizeVenueTypeDivisionOrdering(t *testing.T) {
	assert.Equal(t, pipeline.VenueCollegeD3, NormalizeVenueType("ncaa division iii"))
	assert.Equal(t, pipeline.VenueCollegeD2, NormalizeVenueType("ncaa division ii"))
	assert.Equal(t, pipeline.VenueCollegeD1, NormalizeVenueType("ncaa division i football"))
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, pipeline.StateOH, NormalizeState("oh"))
	assert.Equal(t, pipeline.StateIN, NormalizeState(" IN "))
	assert.Equal(t, pipeline.StateOther, NormalizeState("CA"))
	assert.Equal(t, pipeline.StateOther, NormalizeState(""))
	assert.Equal(t, pipeline.StateOther, NormalizeState("Ohio"))
}

func TestNormalizeTier(t *testing.T) {
	assert.Equal(t, pipeline.TierA1, NormalizeTier("a1"))
	assert.Equal(t, pipeline.TierB, NormalizeTier("B"))
	assert.Equal(t, pipeline.Tier(""), NormalizeTier("S"))
	assert.Equal(t, pipeline.Tier(""), NormalizeTier(""))
}

func TestNormalizeLighting(t *testing.T) {
	tests := []struct {
		input string
		want  pipeline.LightingType
	}{
		{"Metal halide, ~20 years old", pipeline.LightingMetalHalide},
		{"LED retrofit 2021", pipeline.LightingModernLED},
		{"Early LED install", pipeline.LightingEarlyLED},
		{"old LED fixtures", pipeline.LightingEarlyLED},
		{"LED from 2002", pipeline.LightingEarlyLED},
		{"aging fixtures", pipeline.LightingUnknown},
		{"unknown", pipeline.LightingUnknown},
		{"", pipeline.LightingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLighting(tt.input))
		})
	}
}

func TestNormalizeBroadcast(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, pipeline.BroadcastLocalStreaming, NormalizeBroadcast(&yes))
	assert.Equal(t, pipeline.BroadcastNone, NormalizeBroadcast(&no))
	assert.Equal(t, pipeline.BroadcastNone, NormalizeBroadcast(nil))
}

func TestContactRoleFrom(t *testing.T) {
	tests := []struct {
		name      string
		authority string
		roleText  string
		want      pipeline.ContactRole
	}{
		{"high authority", "High", "", pipeline.RoleDecisionMaker},
		{"medium authority", "medium", "", pipeline.RoleInfluencer},
		{"low authority", "low", "", pipeline.RoleInfluencer},
		{"authority beats role text", "high", "gatekeeper", pipeline.RoleDecisionMaker},
		{"final approval", "", "Final approval on budget", pipeline.RoleDecisionMaker},
		{"primary", "", "primary decision maker", pipeline.RoleDecisionMaker},
		{"budget", "", "controls budget", pipeline.RoleInfluencer},
		{"technical", "", "technical evaluation", pipeline.RoleInfluencer},
		{"gatekeeper", "", "administrative gatekeeper", pipeline.RoleBlocker},
		{"nothing known", "", "", pipeline.RoleUnknown},
		{"unrecognized authority falls to role text", "total", "final say", pipeline.RoleDecisionMaker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContactRoleFrom(tt.authority, tt.roleText))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name        string
		tier        pipeline.Tier
		hasResearch bool
		want        pipeline.Status
	}{
		{"no tier", "", false, pipeline.StatusNeedsScoring},
		{"A1 with research", pipeline.TierA1, true, pipeline.StatusReadyForOutreach},
		{"A1 without research", pipeline.TierA1, false, pipeline.StatusNeedsResearch},
		{"A2 with research", pipeline.TierA2, true, pipeline.StatusReadyForOutreach},
		{"B parks in nurture", pipeline.TierB, true, pipeline.StatusScored},
		{"C deprioritized", pipeline.TierC, false, pipeline.StatusDeprioritized},
		{"D deprioritized", pipeline.TierD, true, pipeline.StatusDeprioritized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.tier, tt.hasResearch))
		})
	}
}

func TestUsableEmail(t *testing.T) {
	assert.True(t, UsableEmail("ad@example.edu"))
	assert.False(t, UsableEmail(""))
	assert.False(t, UsableEmail("Unknown"))
	assert.False(t, UsableEmail("not found"))
	assert.False(t, UsableEmail("N/A"))
	assert.False(t, UsableEmail("{firstname}.{lastname}@school.org"))
}

func TestMappingsTableValid(t *testing.T) {
	// The embedded table must target only enum members.
	assert.NoError(t, mappings.validate())
	assert.NotEmpty(t, mappings.VenueRules)
	assert.Len(t, mappings.Dimensions, 8)
}
