package importer

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/sportsbeams/pipeline/pkg/pipeline"
)

//go:embed mappings.yaml
var mappingsYAML []byte

// venueRule matches lowercase venue keywords to a canonical venue
// type. Rules are evaluated in file order.
type venueRule struct {
	Venue    pipeline.VenueType `yaml:"venue"`
	Keywords []string           `yaml:"keywords"`
}

// dimensionRule translates an external scoring dimension to a
// canonical one, with the weight used when the input omits one.
type dimensionRule struct {
	Dimension     pipeline.Dimension `yaml:"dimension"`
	DefaultWeight int                `yaml:"default_weight"`
}

type mappingTable struct {
	VenueRules        []venueRule              `yaml:"venue_rules"`
	VenueDefault      pipeline.VenueType       `yaml:"venue_default"`
	Dimensions        map[string]dimensionRule `yaml:"dimensions"`
	PlaceholderEmails []string                 `yaml:"placeholder_emails"`
}

// mappings is the embedded vocabulary table, loaded at init. The file
// ships inside the binary, so a parse failure is a build defect.
var mappings = mustLoadMappings()

func mustLoadMappings() mappingTable {
	var m mappingTable
	if err := yaml.Unmarshal(mappingsYAML, &m); err != nil {
		panic(fmt.Sprintf("importer: invalid embedded mappings.yaml: %v", err))
	}
	if err := m.validate(); err != nil {
		panic(fmt.Sprintf("importer: invalid embedded mappings.yaml: %v", err))
	}
	return m
}

// validate checks that every mapped target is a member of its closed
// enumeration, so a bad table edit fails loudly instead of leaking
// unknown values into the store.
func (m mappingTable) validate() error {
	for _, rule := range m.VenueRules {
		if !rule.Venue.Valid() {
			return fmt.Errorf("venue rule targets unknown venue type %q", rule.Venue)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("venue rule for %q has no keywords", rule.Venue)
		}
	}
	if !m.VenueDefault.Valid() {
		return fmt.Errorf("venue_default %q is not a known venue type", m.VenueDefault)
	}
	for name, rule := range m.Dimensions {
		if !rule.Dimension.Valid() {
			return fmt.Errorf("dimension %q targets unknown dimension %q", name, rule.Dimension)
		}
		if rule.DefaultWeight < pipeline.WeightMin || rule.DefaultWeight > pipeline.WeightMax {
			return fmt.Errorf("dimension %q default weight %d out of range", name, rule.DefaultWeight)
		}
	}
	return nil
}
