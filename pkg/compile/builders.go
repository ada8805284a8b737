package compile

import (
	"github.com/ins-amu/veplut/pkg/atlas"
)

// Per-hemisphere base offsets for newly introduced combined-LUT indices.
// They sit far above any FreeSurfer reference index and 1000 apart, so the
// two new-region blocks can never collide with each other or the reference.
const (
	LeftBase  = 71000
	RightBase = 72000
)

// Base returns the combined-LUT index base for a hemisphere.
func Base(h atlas.Hemisphere) int {
	if h == atlas.Right {
		return RightBase
	}
	return LeftBase
}

// unknownName labels index 0 in the renumbered and cortical LUTs.
const unknownName = "Unknown"

// BuildCombined returns the new hemisphere-specific entries the target spec
// introduces over the reference atlas. Reference rows are not returned;
// they are copied verbatim at emit time.
//
// Per hemisphere (Left then Right), target regions are visited in spec
// order with a running counter starting at 1. Regions whose qualified name
// already exists in the reference keep their reference index and are
// skipped here.
func BuildCombined(ref *atlas.Table, spec *atlas.RegionSpec) []atlas.Entry {
	var entries []atlas.Entry
	for _, hemi := range atlas.Hemispheres {
		i := 1
		for _, region := range spec.Regions {
			name := hemi.Qualify(region.Name)
			if ref.Has(name) {
				continue
			}
			entries = append(entries, atlas.Entry{
				Index: Base(hemi) + i,
				Name:  name,
				Color: region.Color,
			})
			i++
		}
	}
	return entries
}

// BuildRenumbered derives the sequentially numbered (mrtrix-style) LUT from
// an emitted combined LUT: index 0 is Unknown, then every target region,
// Left block before Right block, numbered 1..N. Colors come from the
// combined table by exact name lookup.
func BuildRenumbered(combined *atlas.Table, spec *atlas.RegionSpec) ([]atlas.Entry, error) {
	entries := []atlas.Entry{{Index: 0, Name: unknownName}}
	i := 1
	for _, hemi := range atlas.Hemispheres {
		for _, region := range spec.Regions {
			name := hemi.Qualify(region.Name)
			src, ok := combined.Lookup(name)
			if !ok {
				return nil, &LookupError{Name: name, Table: combined.Source}
			}
			entries = append(entries, atlas.Entry{Index: i, Name: name, Color: src.Color})
			i++
		}
	}
	return entries, nil
}

// BuildSubcortIndices derives the flat subcortical index list: for each
// subcortical target region, Left block then Right block, the original
// combined-LUT index. Downstream tools use it as a positional filter into
// the combined LUT's address space.
func BuildSubcortIndices(combined *atlas.Table, spec *atlas.RegionSpec) ([]int, error) {
	var indices []int
	for _, hemi := range atlas.Hemispheres {
		for _, region := range spec.Subcortical() {
			name := hemi.Qualify(region.Name)
			src, ok := combined.Lookup(name)
			if !ok {
				return nil, &LookupError{Name: name, Table: combined.Source}
			}
			indices = append(indices, src.Index)
		}
	}
	return indices, nil
}

// BuildCortical derives the zero-based cortical-only (aparc) LUT: index 0
// is Unknown, then the cortical regions in spec order numbered 1..M, named
// without a hemisphere prefix. Colors are canonicalized from the Left
// hemisphere rows of the combined LUT; cortical Left/Right colors are
// identical by reference convention, so the Right rows are never consulted.
func BuildCortical(combined *atlas.Table, spec *atlas.RegionSpec) ([]atlas.Entry, error) {
	entries := []atlas.Entry{{Index: 0, Name: unknownName}}
	for i, region := range spec.Cortical() {
		name := atlas.Left.Qualify(region.Name)
		src, ok := combined.Lookup(name)
		if !ok {
			return nil, &LookupError{Name: name, Table: combined.Source}
		}
		entries = append(entries, atlas.Entry{Index: i + 1, Name: region.Name, Color: src.Color})
	}
	return entries, nil
}
