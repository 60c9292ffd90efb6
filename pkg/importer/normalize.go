package importer

import (
	"strings"

	"github.com/sportsbeams/pipeline/pkg/pipeline"
)

// Normalizers translate free-text vendor vocabulary into the closed
// enumerations. All of them are total: any input, including garbage,
// maps to a defined value so a weird export can never poison the
// store with an out-of-enum string.

// NormalizeVenueType maps an institution-type description to a venue
// type using the ordered keyword rules from the embedded table.
func NormalizeVenueType(raw string) pipeline.VenueType {
	lower := strings.ToLower(raw)
	for _, rule := range mappings.VenueRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Venue
			}
		}
	}
	return mappings.VenueDefault
}

// NormalizeState maps a state abbreviation to the sales-territory
// enum. Anything outside the territory collapses to StateOther.
func NormalizeState(raw string) pipeline.State {
	s := pipeline.State(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() && s != pipeline.StateOther {
		return s
	}
	return pipeline.StateOther
}

// NormalizeTier maps a tier label to the tier enum, or returns the
// empty tier when the label is absent or unrecognized.
func NormalizeTier(raw string) pipeline.Tier {
	t := pipeline.Tier(strings.ToUpper(strings.TrimSpace(raw)))
	if t.Valid() {
		return t
	}
	return ""
}

// NormalizeLighting maps a lighting description to a lighting type.
// LED installs qualified as early, old, or dating to the metal-halide
// era count as early generation; unqualified LED is modern.
func NormalizeLighting(raw string) pipeline.LightingType {
	if raw == "" {
		return pipeline.LightingUnknown
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "metal halide"):
		return pipeline.LightingMetalHalide
	case strings.Contains(lower, "led"):
		if strings.Contains(lower, "early") || strings.Contains(lower, "old") || strings.Contains(lower, "2002") {
			return pipeline.LightingEarlyLED
		}
		return pipeline.LightingModernLED
	default:
		return pipeline.LightingUnknown
	}
}

// NormalizeBroadcast maps the broadcast-capable flag to a broadcast
// tier. Absent means none.
func NormalizeBroadcast(capable *bool) pipeline.BroadcastTier {
	if capable != nil && *capable {
		return pipeline.BroadcastLocalStreaming
	}
	return pipeline.BroadcastNone
}

// ContactRoleFrom derives a contact role from the authority level,
// falling back to keyword inspection of the free-text decision role.
// Authority wins when present; medium and low both land on
// influencer.
func ContactRoleFrom(authority, roleText string) pipeline.ContactRole {
	switch strings.ToLower(strings.TrimSpace(authority)) {
	case "high":
		return pipeline.RoleDecisionMaker
	case "medium", "low":
		return pipeline.RoleInfluencer
	}

	lower := strings.ToLower(roleText)
	switch {
	case strings.Contains(lower, "approval"), strings.Contains(lower, "final"), strings.Contains(lower, "primary"):
		return pipeline.RoleDecisionMaker
	case strings.Contains(lower, "budget"), strings.Contains(lower, "technical"):
		return pipeline.RoleInfluencer
	case strings.Contains(lower, "gatekeeper"):
		return pipeline.RoleBlocker
	}
	return pipeline.RoleUnknown
}

// DeriveStatus computes the pipeline status from the scoring tier and
// whether research notes exist. Top tiers advance toward outreach,
// B parks in the nurture track, C and D deprioritize.
func DeriveStatus(tier pipeline.Tier, hasResearch bool) pipeline.Status {
	switch tier {
	case "":
		return pipeline.StatusNeedsScoring
	case pipeline.TierA1, pipeline.TierA2:
		if hasResearch {
			return pipeline.StatusReadyForOutreach
		}
		return pipeline.StatusNeedsResearch
	case pipeline.TierB:
		return pipeline.StatusScored
	case pipeline.TierC, pipeline.TierD:
		return pipeline.StatusDeprioritized
	default:
		return pipeline.StatusScored
	}
}

// UsableEmail reports whether an email value is a real address rather
// than a placeholder the research tool emits when it found nothing.
// Template braces left unexpanded also disqualify the value.
func UsableEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if strings.ContainsAny(trimmed, "{}") {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, placeholder := range mappings.PlaceholderEmails {
		if lower == placeholder {
			return false
		}
	}
	return true
}
