package importer

// Variant identifies one of the structurally distinct input schema
// shapes the engine recognizes.
type Variant string

// Known schema variants.
const (
	// VariantDiscovery is the institution-discovery export: a
	// "prospects" array whose elements carry a nested institution
	// object plus facility, scoring and decision-maker data.
	VariantDiscovery Variant = "athletic-director-prospecting"

	// VariantEnrichment is the contact-enrichment export: an
	// "enriched_prospects" array keyed by institution name. It never
	// creates prospects; unmatched institutions become warnings.
	VariantEnrichment Variant = "contact-finder-enrichment"

	// VariantContactList is the direct contact-list export: a
	// "contacts" array whose elements carry an institution string with
	// primary and secondary contacts.
	VariantContactList Variant = "contact-finder"

	// VariantNestedProspects is the contact-finder export with a
	// "prospects" array whose elements carry a contacts OBJECT
	// (primary_decision_maker, secondary_contacts, general_contact).
	VariantNestedProspects Variant = "contact-finder-prospects"

	// VariantFlatContacts is the contact-finder export with a
	// "prospects" array whose elements carry a flat contacts ARRAY and
	// a recommended outreach order of contact names.
	VariantFlatContacts Variant = "contact-finder-flat"
)

// String returns the string representation of the variant.
func (v Variant) String() string { return string(v) }
