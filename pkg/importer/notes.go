package importer

import "strings"

// Research notes are assembled as labeled bullet blocks joined by blank
// lines. On updates the assembled text is appended to the existing
// notes, never replacing them.

// bulletBlock renders "Label:\n- item\n- item". Empty item lists
// produce no block.
func bulletBlock(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return label + ":\n- " + strings.Join(items, "\n- ")
}

// joinBlocks joins non-empty blocks with blank-line separators.
func joinBlocks(blocks ...string) string {
	parts := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, "\n\n")
}

// discoveryNotes assembles the research-notes text for a discovery
// record from its risk, readiness and outreach payloads.
func discoveryNotes(p *DiscoveryProspect) string {
	blocks := []string{
		bulletBlock("Risk Flags", p.DealRiskFlags),
		bulletBlock("Key Signals", p.KeySignals),
	}
	if p.SalesReadiness != nil {
		blocks = append(blocks,
			bulletBlock("Key Assumptions", p.SalesReadiness.KeyAssumptions),
			bulletBlock("Required Validation", p.SalesReadiness.RequiredValidation),
			bulletBlock("Discovery Questions", p.SalesReadiness.DiscoveryQuestions),
		)
	}
	if p.Outreach != nil {
		blocks = append(blocks, bulletBlock("Timing Triggers", p.Outreach.TimingTriggers))
	}
	return joinBlocks(blocks...)
}

// outreachRecommendationNote renders a one-line outreach
// recommendation block, or nothing when the recommendation is empty.
func outreachRecommendationNote(rec string) string {
	if rec == "" {
		return ""
	}
	return "Outreach Recommendation: " + rec
}

// nestedOutreachNote renders the structured outreach plan of a
// nested-prospects record as note blocks.
func nestedOutreachNote(rec *OutreachRecommendation) string {
	if rec == nil {
		return ""
	}
	var blocks []string
	if rec.Approach != "" {
		blocks = append(blocks, "Outreach Approach: "+rec.Approach)
	}
	if rec.Timing != "" {
		blocks = append(blocks, "Outreach Timing: "+rec.Timing)
	}
	blocks = append(blocks, bulletBlock("Talking Points", rec.TalkingPoints))
	return joinBlocks(blocks...)
}

// generalContactNote renders institution-level contact info as a note
// block. General contacts are not people, so they never become contact
// rows.
func generalContactNote(gc *GeneralContact) string {
	if gc == nil {
		return ""
	}
	var items []string
	if gc.Phone != "" {
		items = append(items, "Phone: "+gc.Phone)
	}
	if gc.Fax != "" {
		items = append(items, "Fax: "+gc.Fax)
	}
	if gc.Address != "" {
		items = append(items, "Address: "+gc.Address)
	}
	if gc.Website != "" {
		items = append(items, "Website: "+gc.Website)
	}
	return bulletBlock("General Contact", items)
}
