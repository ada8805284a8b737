package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/pkg/atlas"
)

// combinedFixture parses the reference, builds the new entries, emits the
// combined LUT, and re-parses it, mirroring the compiler's file handoff.
func combinedFixture(t *testing.T, lut, regions string) (*atlas.Table, *atlas.RegionSpec, []atlas.Entry) {
	t.Helper()
	ref, err := atlas.ParseTable(strings.NewReader(lut), "ref.txt")
	require.NoError(t, err)
	spec, err := atlas.ParseRegions(strings.NewReader(regions), "regions.txt")
	require.NoError(t, err)

	entries := BuildCombined(ref, spec)

	var buf strings.Builder
	require.NoError(t, WriteCombined(&buf, ref, entries))
	combined, err := atlas.ParseTable(strings.NewReader(buf.String()), "combined.txt")
	require.NoError(t, err)
	return combined, spec, entries
}

func TestBuildCombined(t *testing.T) {
	_, _, entries := combinedFixture(t, refLUT, refRegions)

	// Hippocampus and Amygdala exist in the reference under both qualified
	// names, so only the cortical regions produce new rows.
	require.Len(t, entries, 4)
	assert.Equal(t, atlas.Entry{Index: LeftBase + 1, Name: "Left-Precentral",
		Color: atlas.Color{R: 60, G: 20, B: 220}}, entries[0])
	assert.Equal(t, atlas.Entry{Index: LeftBase + 2, Name: "Left-Postcentral",
		Color: atlas.Color{R: 220, G: 20, B: 20}}, entries[1])
	assert.Equal(t, atlas.Entry{Index: RightBase + 1, Name: "Right-Precentral",
		Color: atlas.Color{R: 60, G: 20, B: 220}}, entries[2])
	assert.Equal(t, atlas.Entry{Index: RightBase + 2, Name: "Right-Postcentral",
		Color: atlas.Color{R: 220, G: 20, B: 20}}, entries[3])
}

func TestBuildCombinedCounterSkipsExistingRegions(t *testing.T) {
	// A new region after an existing one still gets the next counter value:
	// reference-covered regions do not consume combined-LUT slots.
	regions := `1 Precentral    60  20 220 0
0 Hippocampus  220  16  16 0
0 Thalamus       0 118  14 0
`
	_, _, entries := combinedFixture(t, refLUT, regions)
	require.Len(t, entries, 4)
	assert.Equal(t, LeftBase+1, entries[0].Index)
	assert.Equal(t, "Left-Precentral", entries[0].Name)
	assert.Equal(t, LeftBase+2, entries[1].Index)
	assert.Equal(t, "Left-Thalamus", entries[1].Name)
	assert.Equal(t, RightBase+1, entries[2].Index)
	assert.Equal(t, RightBase+2, entries[3].Index)
}

func TestBuildRenumbered(t *testing.T) {
	combined, spec, _ := combinedFixture(t, refLUT, refRegions)

	entries, err := BuildRenumbered(combined, spec)
	require.NoError(t, err)

	// 0 = Unknown, then Left block, then Right block, densely numbered.
	require.Len(t, entries, 1+2*spec.Len())
	assert.Equal(t, atlas.Entry{Index: 0, Name: "Unknown"}, entries[0])
	for i, e := range entries {
		assert.Equal(t, i, e.Index, "indices are sequential")
	}

	assert.Equal(t, "Left-Precentral", entries[1].Name)
	assert.Equal(t, "Left-Hippocampus", entries[3].Name)
	assert.Equal(t, "Right-Precentral", entries[5].Name)
	assert.Equal(t, "Right-Amygdala", entries[8].Name)

	// Colors round-trip from the combined table.
	assert.Equal(t, atlas.Color{R: 220, G: 16, B: 16}, entries[3].Color)
	assert.Equal(t, atlas.Color{R: 60, G: 20, B: 220}, entries[5].Color)
}

func TestBuildSubcortIndices(t *testing.T) {
	combined, spec, _ := combinedFixture(t, refLUT, refRegions)

	indices, err := BuildSubcortIndices(combined, spec)
	require.NoError(t, err)

	// Original combined indices, Left block then Right block. The reference
	// regions keep their FreeSurfer indices.
	assert.Equal(t, []int{17, 18, 53, 54}, indices)
}

func TestBuildCortical(t *testing.T) {
	combined, spec, _ := combinedFixture(t, refLUT, refRegions)

	entries, err := BuildCortical(combined, spec)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, atlas.Entry{Index: 0, Name: "Unknown"}, entries[0])
	// Bare names, colors from the Left hemisphere rows.
	assert.Equal(t, atlas.Entry{Index: 1, Name: "Precentral",
		Color: atlas.Color{R: 60, G: 20, B: 220}}, entries[1])
	assert.Equal(t, atlas.Entry{Index: 2, Name: "Postcentral",
		Color: atlas.Color{R: 220, G: 20, B: 20}}, entries[2])
}

func TestBuildersFailOnDesyncedCombinedLUT(t *testing.T) {
	// A combined LUT missing a spec region means the inputs drifted apart.
	combined, err := atlas.ParseTable(strings.NewReader(refLUT), "combined.txt")
	require.NoError(t, err)
	spec, err := atlas.ParseRegions(strings.NewReader(refRegions), "regions.txt")
	require.NoError(t, err)

	_, err = BuildRenumbered(combined, spec)
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "Left-Precentral", lerr.Name)
	assert.Equal(t, "combined.txt", lerr.Table)

	_, err = BuildCortical(combined, spec)
	require.True(t, errors.As(err, &lerr))

	// Subcortical indices resolve fine here: the reference covers them.
	indices, err := BuildSubcortIndices(combined, spec)
	require.NoError(t, err)
	assert.Equal(t, []int{17, 18, 53, 54}, indices)
}

func TestIndexBasesAreDisjoint(t *testing.T) {
	assert.Equal(t, LeftBase, Base(atlas.Left))
	assert.Equal(t, RightBase, Base(atlas.Right))
	assert.Greater(t, RightBase-LeftBase, 0)
}
