package pipeline

// VenueType classifies an institution's athletic program level.
type VenueType string

// Venue type values.
const (
	VenueCollegeD1       VenueType = "college_d1"
	VenueCollegeD2       VenueType = "college_d2"
	VenueCollegeD3       VenueType = "college_d3"
	VenueCollegeNAIA     VenueType = "college_naia"
	VenueHighSchool6A    VenueType = "high_school_6a"
	VenueHighSchool5A    VenueType = "high_school_5a"
	VenueHighSchool4A    VenueType = "high_school_4a"
	VenueHighSchool3A    VenueType = "high_school_3a"
	VenueHighSchoolOther VenueType = "high_school_other"
)

// Valid reports whether v is a member of the venue type enumeration.
func (v VenueType) Valid() bool {
	switch v {
	case VenueCollegeD1, VenueCollegeD2, VenueCollegeD3, VenueCollegeNAIA,
		VenueHighSchool6A, VenueHighSchool5A, VenueHighSchool4A,
		VenueHighSchool3A, VenueHighSchoolOther:
		return true
	}
	return false
}

// String returns the string representation of the venue type.
func (v VenueType) String() string { return string(v) }

// State is the two-letter territory code for a prospect.
// Prospecting is limited to a fixed regional footprint; everything
// else collapses to StateOther.
type State string

// State values.
const (
	StateOH    State = "OH"
	StateIN    State = "IN"
	StatePA    State = "PA"
	StateKY    State = "KY"
	StateIL    State = "IL"
	StateOther State = "OTHER"
)

// Valid reports whether s is a member of the state enumeration.
func (s State) Valid() bool {
	switch s {
	case StateOH, StateIN, StatePA, StateKY, StateIL, StateOther:
		return true
	}
	return false
}

// String returns the string representation of the state.
func (s State) String() string { return string(s) }

// Status is a prospect's position in the pipeline workflow.
type Status string

// Status values.
const (
	StatusIdentified       Status = "identified"
	StatusNeedsScoring     Status = "needs_scoring"
	StatusScored           Status = "scored"
	StatusNeedsResearch    Status = "needs_research"
	StatusResearchComplete Status = "research_complete"
	StatusReadyForOutreach Status = "ready_for_outreach"
	StatusOutreachActive   Status = "outreach_active"
	StatusEngaged          Status = "engaged"
	StatusNurture          Status = "nurture"
	StatusDeprioritized    Status = "deprioritized"
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusIdentified, StatusNeedsScoring, StatusScored, StatusNeedsResearch,
		StatusResearchComplete, StatusReadyForOutreach, StatusOutreachActive,
		StatusEngaged, StatusNurture, StatusDeprioritized:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string { return string(s) }

// Tier is the priority classification assigned to a scored prospect.
// The zero value means the prospect has not been tiered.
type Tier string

// Tier values, highest priority first.
const (
	TierA1 Tier = "A1"
	TierA2 Tier = "A2"
	TierB  Tier = "B"
	TierC  Tier = "C"
	TierD  Tier = "D"
)

// Valid reports whether t is a member of the tier enumeration.
func (t Tier) Valid() bool {
	switch t {
	case TierA1, TierA2, TierB, TierC, TierD:
		return true
	}
	return false
}

// String returns the string representation of the tier.
func (t Tier) String() string { return string(t) }

// ContactRole describes a contact's part in the purchase decision.
type ContactRole string

// Contact role values.
const (
	RoleDecisionMaker ContactRole = "decision_maker"
	RoleInfluencer    ContactRole = "influencer"
	RoleChampion      ContactRole = "champion"
	RoleBlocker       ContactRole = "blocker"
	RoleUnknown       ContactRole = "unknown"
)

// Valid reports whether r is a member of the contact role enumeration.
func (r ContactRole) Valid() bool {
	switch r {
	case RoleDecisionMaker, RoleInfluencer, RoleChampion, RoleBlocker, RoleUnknown:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r ContactRole) String() string { return string(r) }

// Dimension is one scoring axis contributing to a prospect's ICP score.
type Dimension string

// Score dimension values.
const (
	DimVenueType           Dimension = "venue_type"
	DimGeography           Dimension = "geography"
	DimBudgetSignals       Dimension = "budget_signals"
	DimLightingAge         Dimension = "current_lighting_age"
	DimNightGameFrequency  Dimension = "night_game_frequency"
	DimBroadcast           Dimension = "broadcast_requirements"
	DimDecisionMakerAccess Dimension = "decision_maker_access"
	DimProjectTimeline     Dimension = "project_timeline"
)

// Valid reports whether d is a member of the dimension enumeration.
func (d Dimension) Valid() bool {
	switch d {
	case DimVenueType, DimGeography, DimBudgetSignals, DimLightingAge,
		DimNightGameFrequency, DimBroadcast, DimDecisionMakerAccess,
		DimProjectTimeline:
		return true
	}
	return false
}

// String returns the string representation of the dimension.
func (d Dimension) String() string { return string(d) }

// LightingType classifies a venue's current field lighting.
type LightingType string

// Lighting type values.
const (
	LightingMetalHalide LightingType = "metal_halide"
	LightingEarlyLED    LightingType = "early_led"
	LightingModernLED   LightingType = "modern_led"
	LightingUnknown     LightingType = "unknown"
)

// Valid reports whether l is a member of the lighting type enumeration.
func (l LightingType) Valid() bool {
	switch l {
	case LightingMetalHalide, LightingEarlyLED, LightingModernLED, LightingUnknown:
		return true
	}
	return false
}

// String returns the string representation of the lighting type.
func (l LightingType) String() string { return string(l) }

// BroadcastTier classifies a venue's broadcast capability.
type BroadcastTier string

// Broadcast tier values.
const (
	BroadcastLocalStreaming BroadcastTier = "local_streaming"
	BroadcastNone           BroadcastTier = "none"
)

// Valid reports whether b is a member of the broadcast tier enumeration.
func (b BroadcastTier) Valid() bool {
	return b == BroadcastLocalStreaming || b == BroadcastNone
}

// String returns the string representation of the broadcast tier.
func (b BroadcastTier) String() string { return string(b) }

// ActivityType classifies an activity trail entry.
type ActivityType string

// Activity type values.
const (
	ActivityEmailSent         ActivityType = "email_sent"
	ActivityEmailReceived     ActivityType = "email_received"
	ActivityCall              ActivityType = "call"
	ActivityMeeting           ActivityType = "meeting"
	ActivityNote              ActivityType = "note"
	ActivityStatusChange      ActivityType = "status_change"
	ActivityScoreChange       ActivityType = "score_change"
	ActivityResearchCompleted ActivityType = "research_completed"
)

// Valid reports whether a is a member of the activity type enumeration.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityEmailSent, ActivityEmailReceived, ActivityCall, ActivityMeeting,
		ActivityNote, ActivityStatusChange, ActivityScoreChange,
		ActivityResearchCompleted:
		return true
	}
	return false
}

// String returns the string representation of the activity type.
func (a ActivityType) String() string { return string(a) }
