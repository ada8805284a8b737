// Package atlas provides the data model and whitespace-tabular IO for
// anatomical region lookup tables (LUTs) and target region specifications.
package atlas

// Hemisphere identifies one side of the brain.
type Hemisphere int

// The two hemispheres. Iteration over Hemispheres is always Left then Right;
// every numbering scheme in the compiler depends on that order.
const (
	Left Hemisphere = iota
	Right
)

// Hemispheres lists both hemispheres in canonical order.
var Hemispheres = [2]Hemisphere{Left, Right}

// String returns the full hemisphere prefix used in LUT region names.
func (h Hemisphere) String() string {
	if h == Right {
		return "Right"
	}
	return "Left"
}

// Abbrev returns the FreeSurfer-style short form ("lh"/"rh").
func (h Hemisphere) Abbrev() string {
	if h == Right {
		return "rh"
	}
	return "lh"
}

// Qualify builds the hemisphere-qualified region name, e.g.
// Left.Qualify("Hippocampus") == "Left-Hippocampus".
func (h Hemisphere) Qualify(region string) string {
	return h.String() + "-" + region
}
