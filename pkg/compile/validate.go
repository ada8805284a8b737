// Package compile turns a reference atlas, a rule set, and a target region
// spec into the four derived parcellation LUTs, enforcing the global
// consistency invariants before anything is emitted.
package compile

import (
	"strings"

	"github.com/ins-amu/veplut/pkg/atlas"
	"github.com/ins-amu/veplut/pkg/rules"
)

// Validate cross-checks the rule set, reference atlas, and target region
// spec. It performs no mutation and no IO; a nil return gates the builders.
//
// Checks run in a fixed order and fail fast on the first violation, with
// one deliberate exception: duplicate-color detection always scans the
// whole spec and reports every collision.
func Validate(set *rules.Set, ref *atlas.Table, spec *atlas.RegionSpec) error {
	outputs := set.OutputNames()

	// Every rule output must be hemisphere-templated.
	newregs := make(map[string]bool, len(outputs))
	for _, name := range outputs {
		if !strings.Contains(name, rules.HemispherePlaceholder) {
			return &MalformedRuleError{Output: name}
		}
		newregs[name] = true
	}

	if collisions := duplicateColors(spec); len(collisions) > 0 {
		return &DuplicateColorError{Collisions: collisions}
	}

	// Every cortical region needs a rule.
	for _, region := range spec.Regions {
		if !region.Cortical {
			continue
		}
		if !newregs[rules.HemispherePlaceholder+"-"+region.Name] {
			return &MissingRuleError{Region: region.Name}
		}
	}

	// Every subcortical region needs a rule or full reference coverage.
	for _, region := range spec.Regions {
		if region.Cortical {
			continue
		}
		if newregs[rules.HemispherePlaceholder+"-"+region.Name] {
			continue
		}
		if ref.Has(atlas.Left.Qualify(region.Name)) && ref.Has(atlas.Right.Qualify(region.Name)) {
			continue
		}
		return &SubcortCoverageError{Region: region.Name}
	}

	// All cortical regions must precede all subcortical ones.
	lastSubcort := ""
	for _, region := range spec.Regions {
		if !region.Cortical {
			lastSubcort = region.Name
			continue
		}
		if lastSubcort != "" {
			return &OrderingError{Subcortical: lastSubcort, Cortical: region.Name}
		}
	}

	return nil
}

// duplicateColors collects every color collision in the region spec, first-seen
// region winning as the collision's First.
func duplicateColors(spec *atlas.RegionSpec) []ColorCollision {
	seen := make(map[atlas.Color]string, spec.Len())
	var collisions []ColorCollision
	for _, region := range spec.Regions {
		if first, ok := seen[region.Color]; ok {
			collisions = append(collisions, ColorCollision{
				Color:  region.Color,
				First:  first,
				Second: region.Name,
			})
			continue
		}
		seen[region.Color] = region.Name
	}
	return collisions
}
