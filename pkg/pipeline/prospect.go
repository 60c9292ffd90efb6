// Package pipeline defines the canonical sales-pipeline entities and
// their closed enumerations. Prospects are institution/venue records,
// contacts belong to exactly one prospect, and dimension scores roll up
// into a prospect's ICP score. All entities carry 32-character hex IDs.
package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a new 32-character lowercase hex identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Prospect is the canonical institution/venue entity targeted by outreach.
// The name acts as a natural key for import matching; it is not enforced
// unique at the store layer.
type Prospect struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Classification
	VenueType  VenueType `json:"venue_type"`
	State      State     `json:"state"`
	City       string    `json:"city,omitempty"`
	Conference string    `json:"conference,omitempty"`
	Enrollment *int      `json:"enrollment,omitempty"`

	// Facility
	StadiumName      string        `json:"stadium_name,omitempty"`
	LightingType     LightingType  `json:"current_lighting_type,omitempty"`
	LightingAgeYears *int          `json:"current_lighting_age_years,omitempty"`
	Broadcast        BroadcastTier `json:"broadcast_requirements,omitempty"`

	// Pipeline
	Status   Status `json:"status"`
	Tier     Tier   `json:"tier,omitempty"`
	ICPScore *int   `json:"icp_score,omitempty"`

	// Research
	ConstraintHypothesis string `json:"constraint_hypothesis,omitempty"`
	ValueProposition     string `json:"value_proposition,omitempty"`
	ResearchNotes        string `json:"research_notes,omitempty"`

	// Provenance
	Source     string    `json:"source,omitempty"`
	SourceDate time.Time `json:"source_date,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ProspectPatch carries incoming field values for a merge. Nil fields
// are absent and never overwrite stored data. ResearchNotes is handled
// separately because notes accumulate rather than replace.
type ProspectPatch struct {
	Name                 *string
	VenueType            *VenueType
	State                *State
	City                 *string
	Conference           *string
	Enrollment           *int
	StadiumName          *string
	LightingType         *LightingType
	LightingAgeYears     *int
	Broadcast            *BroadcastTier
	Tier                 *Tier
	ICPScore             *int
	ConstraintHypothesis *string
	ValueProposition     *string
	Source               *string
	SourceDate           *time.Time
}

// Apply merges the patch into p, overwriting only fields the patch carries.
func (patch *ProspectPatch) Apply(p *Prospect) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.VenueType != nil {
		p.VenueType = *patch.VenueType
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Conference != nil {
		p.Conference = *patch.Conference
	}
	if patch.Enrollment != nil {
		p.Enrollment = patch.Enrollment
	}
	if patch.StadiumName != nil {
		p.StadiumName = *patch.StadiumName
	}
	if patch.LightingType != nil {
		p.LightingType = *patch.LightingType
	}
	if patch.LightingAgeYears != nil {
		p.LightingAgeYears = patch.LightingAgeYears
	}
	if patch.Broadcast != nil {
		p.Broadcast = *patch.Broadcast
	}
	if patch.Tier != nil {
		p.Tier = *patch.Tier
	}
	if patch.ICPScore != nil {
		p.ICPScore = patch.ICPScore
	}
	if patch.ConstraintHypothesis != nil {
		p.ConstraintHypothesis = *patch.ConstraintHypothesis
	}
	if patch.ValueProposition != nil {
		p.ValueProposition = *patch.ValueProposition
	}
	if patch.Source != nil {
		p.Source = *patch.Source
	}
	if patch.SourceDate != nil {
		p.SourceDate = *patch.SourceDate
	}
}

// AppendResearchNotes appends a note block to the prospect's research
// notes with a blank-line separator, never replacing existing notes.
func (p *Prospect) AppendResearchNotes(block string) {
	if block == "" {
		return
	}
	if p.ResearchNotes == "" {
		p.ResearchNotes = block
		return
	}
	p.ResearchNotes += "\n\n" + block
}

// Deleted reports whether the prospect has been soft-deleted.
func (p *Prospect) Deleted() bool { return p.DeletedAt != nil }
