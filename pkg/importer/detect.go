package importer

import (
	"github.com/sportsbeams/pipeline/pkg/errors"
)

// Detect classifies a raw parsed JSON document into a schema variant.
//
// Rules are evaluated in a fixed priority order, first match wins:
//
//  1. An explicit skill_type discriminant is trusted when it matches a
//     known literal. The "contact-finder" literal is ambiguous and
//     needs a second-level structural check (see resolveContactFinder).
//  2. Without a discriminant, structural fingerprints decide:
//     prospects elements carrying an institution-shaped object mean
//     discovery; a top-level enriched_prospects array means
//     enrichment; a contacts array whose elements carry an
//     institution string means the direct contact list.
//  3. Otherwise the schema is unrecognized.
//
// Reordering these rules changes classification outcomes on ambiguous
// documents, so the order is load-bearing.
func Detect(doc map[string]any) (Variant, error) {
	// Rule 1: explicit discriminant.
	if skillType, ok := doc["skill_type"].(string); ok {
		switch skillType {
		case "athletic-director-prospecting":
			return VariantDiscovery, nil
		case "contact-finder-enrichment":
			return VariantEnrichment, nil
		case "contact-finder":
			return resolveContactFinder(doc)
		}
	}

	// Rule 2: structural fingerprints.
	if prospects, ok := doc["prospects"].([]any); ok {
		if institutionIsObject(prospects) {
			return VariantDiscovery, nil
		}
	}
	if _, ok := doc["enriched_prospects"].([]any); ok {
		return VariantEnrichment, nil
	}
	if contacts, ok := doc["contacts"].([]any); ok {
		if institutionIsString(contacts) {
			return VariantContactList, nil
		}
	}

	// Rule 3: nothing matched.
	return "", errors.NewSchemaError("cannot determine import format")
}

// resolveContactFinder disambiguates the "contact-finder" discriminant
// by inspecting whichever array field is present and the shape of its
// first element's nested contacts field: a top-level contacts array is
// the direct contact list; prospects whose element contacts is an
// object are the nested variant; an array is the flat variant.
func resolveContactFinder(doc map[string]any) (Variant, error) {
	if _, ok := doc["contacts"].([]any); ok {
		return VariantContactList, nil
	}

	prospects, ok := doc["prospects"].([]any)
	if !ok {
		return "", errors.NewSchemaError("contact-finder document has neither contacts nor prospects array")
	}
	if len(prospects) == 0 {
		return VariantNestedProspects, nil
	}

	first, ok := prospects[0].(map[string]any)
	if !ok {
		return "", errors.NewSchemaError("contact-finder prospects element is not an object")
	}
	switch first["contacts"].(type) {
	case []any:
		return VariantFlatContacts, nil
	default:
		// Object or absent: both decode as the nested variant.
		return VariantNestedProspects, nil
	}
}

// institutionIsObject reports whether the first array element carries
// an institution-shaped nested object.
func institutionIsObject(elements []any) bool {
	if len(elements) == 0 {
		// An empty prospects array still fingerprints as discovery,
		// matching the discriminant-bearing shape.
		return true
	}
	first, ok := elements[0].(map[string]any)
	if !ok {
		return false
	}
	_, isObject := first["institution"].(map[string]any)
	return isObject
}

// institutionIsString reports whether the first array element carries
// an institution string field.
func institutionIsString(elements []any) bool {
	if len(elements) == 0 {
		return false
	}
	first, ok := elements[0].(map[string]any)
	if !ok {
		return false
	}
	_, isString := first["institution"].(string)
	return isString
}
