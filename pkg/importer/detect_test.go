package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbeams/pipeline/pkg/errors"
)

func TestDetectDiscriminants(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want Variant
	}{
		{
			name: "discovery literal",
			doc:  map[string]any{"skill_type": "athletic-director-prospecting"},
			want: VariantDiscovery,
		},
		{
			name: "enrichment literal",
			doc:  map[string]any{"skill_type": "contact-finder-enrichment"},
			want: VariantEnrichment,
		},
		{
			name: "contact-finder with contacts array",
			doc: map[string]any{
				"skill_type": "contact-finder",
				"contacts":   []any{map[string]any{"institution": "Miami University"}},
			},
			want: VariantContactList,
		},
		{
			name: "contact-finder with nested contacts object",
			doc: map[string]any{
				"skill_type": "contact-finder",
				"prospects": []any{map[string]any{
					"institution": "Miami University",
					"contacts":    map[string]any{"primary_decision_maker": map[string]any{"name": "Pat"}},
				}},
			},
			want: VariantNestedProspects,
		},
		{
			name: "contact-finder with flat contacts array",
			doc: map[string]any{
				"skill_type": "contact-finder",
				"prospects": []any{map[string]any{
					"institution": "Miami University",
					"contacts":    []any{map[string]any{"name": "Pat"}},
				}},
			},
			want: VariantFlatContacts,
		},
		{
			name: "contact-finder prospects without contacts field",
			doc: map[string]any{
				"skill_type": "contact-finder",
				"prospects":  []any{map[string]any{"institution": "Miami University"}},
			},
			want: VariantNestedProspects,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectStructuralFallback(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want Variant
	}{
		{
			name: "prospects with institution object",
			doc: map[string]any{
				"prospects": []any{map[string]any{
					"institution": map[string]any{"name": "Miami University"},
				}},
			},
			want: VariantDiscovery,
		},
		{
			name: "enriched prospects array",
			doc: map[string]any{
				"enriched_prospects": []any{map[string]any{"institution": "Miami University"}},
			},
			want: VariantEnrichment,
		},
		{
			name: "contacts with institution string",
			doc: map[string]any{
				"contacts": []any{map[string]any{"institution": "Miami University"}},
			},
			want: VariantContactList,
		},
		{
			name: "unknown skill_type falls through to structure",
			doc: map[string]any{
				"skill_type": "some-future-skill",
				"enriched_prospects": []any{
					map[string]any{"institution": "Miami University"},
				},
			},
			want: VariantEnrichment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUnrecognized(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{name: "empty document", doc: map[string]any{}},
		{name: "unrelated keys", doc: map[string]any{"foo": "bar"}},
		{
			// Prospects whose elements carry an institution string but no
			// discriminant match no structural rule.
			name: "prospects with institution string and no discriminant",
			doc: map[string]any{
				"prospects": []any{map[string]any{"institution": "Miami University"}},
			},
		},
		{
			name: "contacts with empty array",
			doc:  map[string]any{"contacts": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrSchemaUnrecognized)
		})
	}
}

func TestDetectDiscriminantWinsOverStructure(t *testing.T) {
	// A document carrying both a discriminant and a structure that would
	// classify differently must follow the discriminant.
	doc := map[string]any{
		"skill_type":         "athletic-director-prospecting",
		"enriched_prospects": []any{map[string]any{"institution": "X"}},
	}
	got, err := Detect(doc)
	require.NoError(t, err)
	assert.Equal(t, VariantDiscovery, got)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestParseRoundTrip(t *testing.T) {
	data := []byte(`{
		"skill_type": "contact-finder",
		"contacts": [
			{"institution": "Miami University", "tier": "A2",
			 "primary_contact": {"name": "Pat Jones", "email": "pj@example.edu"}}
		]
	}`)

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, VariantContactList, doc.Variant)
	require.NotNil(t, doc.ContactList)
	require.Len(t, doc.ContactList.Contacts, 1)
	assert.Equal(t, "Miami University", doc.ContactList.Contacts[0].Institution)
	require.NotNil(t, doc.ContactList.Contacts[0].PrimaryContact)
	assert.Equal(t, "pj@example.edu", doc.ContactList.Contacts[0].PrimaryContact.Email)
	assert.Equal(t, 1, doc.Records())
}
