package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/pkg/atlas"
)

func testSpec(t *testing.T) *atlas.RegionSpec {
	t.Helper()
	input := `1 Precentral    60  20 220 0
1 Postcentral  220  20  20 0
0 Hippocampus  220  16  16 0
`
	spec, err := atlas.ParseRegions(strings.NewReader(input), "regions.txt")
	require.NoError(t, err)
	return spec
}

func TestBuildRegionsOutput(t *testing.T) {
	out := buildRegionsOutput(testSpec(t), "")

	assert.Equal(t, 2, out.Count.Cortical)
	assert.Equal(t, 1, out.Count.Subcortical)
	assert.Equal(t, 3, out.Count.Total)

	require.Len(t, out.Regions, 3)
	assert.Equal(t, RegionInfo{Position: 1, Name: "Precentral", Class: "cortical", Color: "60 20 220 0"}, out.Regions[0])
	assert.Equal(t, "subcortical", out.Regions[2].Class)
}

func TestBuildRegionsOutputClassFilter(t *testing.T) {
	out := buildRegionsOutput(testSpec(t), "subcortical")

	require.Len(t, out.Regions, 1)
	assert.Equal(t, "Hippocampus", out.Regions[0].Name)
	// Positions keep their spec-order values even when filtered.
	assert.Equal(t, 3, out.Regions[0].Position)
	// Counts always cover the whole spec.
	assert.Equal(t, 3, out.Count.Total)
}
