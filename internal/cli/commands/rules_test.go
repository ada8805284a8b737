package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/pkg/rules"
)

func testRuleSet(t *testing.T) *rules.Set {
	t.Helper()
	input := `rename  %H-Thalamus-Proper      %H-Thalamus
merge   ctx-%h-parstriangularis %H-Frontal-operculum
split   ctx-%h-superiorfrontal  %H-SFG-pole,%H-SFG
splitnl ctx-%h-precentral       %H-Precentral-head,%H-Precentral-tail
`
	set, err := rules.Parse(strings.NewReader(input), "rules.txt")
	require.NoError(t, err)
	return set
}

func TestBuildRulesOutput(t *testing.T) {
	out := buildRulesOutput(testRuleSet(t), "")

	assert.Equal(t, 4, out.Total)
	assert.Equal(t, map[string]int{"merge": 1, "rename": 1, "split": 1, "splitnl": 1}, out.Counts)

	require.Len(t, out.Rules, 4)
	assert.Equal(t, RuleInfo{
		Kind:    "split",
		Source:  "ctx-%h-superiorfrontal",
		Outputs: []string{"%H-SFG-pole", "%H-SFG"},
	}, out.Rules[2])
}

func TestBuildRulesOutputKindFilter(t *testing.T) {
	out := buildRulesOutput(testRuleSet(t), "splitnl")

	require.Len(t, out.Rules, 1)
	assert.Equal(t, "ctx-%h-precentral", out.Rules[0].Source)
	// Counts and total cover the unfiltered set.
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 1, out.Counts["merge"])
}
