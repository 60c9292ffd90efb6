package importer

// Result summarizes one import batch. Counts reflect only records that
// committed; a failed record contributes an error line and nothing
// else.
type Result struct {
	Success          bool     `json:"success"`
	SkillType        string   `json:"skill_type"`
	ProspectsCreated int      `json:"prospects_created"`
	ProspectsUpdated int      `json:"prospects_updated"`
	ContactsCreated  int      `json:"contacts_created"`
	ContactsUpdated  int      `json:"contacts_updated"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	ImportedIDs      []string `json:"imported_ids"`
}

// absorb folds a committed record's outcome into the batch result.
func (r *Result) absorb(out recordOutcome) {
	r.ProspectsCreated += out.prospectsCreated
	r.ProspectsUpdated += out.prospectsUpdated
	r.ContactsCreated += out.contactsCreated
	r.ContactsUpdated += out.contactsUpdated
	r.Warnings = append(r.Warnings, out.warnings...)
	if out.prospectID != "" {
		r.ImportedIDs = append(r.ImportedIDs, out.prospectID)
	}
}

// Preview describes what an import would do without writing anything.
type Preview struct {
	SkillType   string          `json:"skill_type"`
	RecordCount int             `json:"prospect_count"`
	Records     []PreviewRecord `json:"prospects"`
}

// PreviewRecord is one record's summary in a preview.
type PreviewRecord struct {
	Institution  string `json:"institution"`
	Type         string `json:"type,omitempty"`
	State        string `json:"state,omitempty"`
	Tier         string `json:"tier,omitempty"`
	Score        *int   `json:"total_score,omitempty"`
	ContactCount int    `json:"contacts_count"`
}
