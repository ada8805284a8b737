package compile

import (
	"fmt"

	"github.com/ins-amu/veplut/pkg/atlas"
)

// MalformedRuleError reports a rule output that lacks the hemisphere
// placeholder, i.e. a hemisphere-invariant region name.
type MalformedRuleError struct {
	Output string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("rule output %q lacks the hemisphere placeholder %%H", e.Output)
}

// ColorCollision is one pair of target regions sharing a color. First is
// the region that claimed the color first in spec order.
type ColorCollision struct {
	Color  atlas.Color
	First  string
	Second string
}

func (c ColorCollision) String() string {
	return fmt.Sprintf("color %s shared by %q and %q", c.Color, c.First, c.Second)
}

// DuplicateColorError carries every color collision found in the target
// spec, not just the first: downstream debugging needs the full list.
type DuplicateColorError struct {
	Collisions []ColorCollision
}

func (e *DuplicateColorError) Error() string {
	msg := fmt.Sprintf("%d duplicate colors in the target spec:", len(e.Collisions))
	for _, c := range e.Collisions {
		msg += "\n  " + c.String()
	}
	return msg
}

// MissingRuleError reports a cortical region with no transformation rule.
type MissingRuleError struct {
	Region string
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("no rule produces cortical region %q", e.Region)
}

// SubcortCoverageError reports a subcortical region with neither a rule
// nor both hemisphere entries in the reference atlas.
type SubcortCoverageError struct {
	Region string
}

func (e *SubcortCoverageError) Error() string {
	return fmt.Sprintf("subcortical region %q has no rule and is not covered by the reference atlas", e.Region)
}

// OrderingError reports a cortical region listed after a subcortical one.
type OrderingError struct {
	Subcortical string
	Cortical    string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("cortical region %q listed after subcortical region %q", e.Cortical, e.Subcortical)
}

// LookupError reports a region name that a builder expected in an already
// built LUT. It signals desynchronization between the combined LUT and the
// target spec and is always fatal.
type LookupError struct {
	Name  string
	Table string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("region %q not found in %s", e.Name, e.Table)
}
