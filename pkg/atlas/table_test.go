package atlas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLUT = `# FreeSurfer color LUT excerpt
#No. Label Name:                            R   G   B   A

  0   Unknown                                 0   0   0   0
  4   Left-Lateral-Ventricle                120  18 134  0
 17   Left-Hippocampus                      220  16  16  0
 53   Right-Hippocampus                     220  16  16  0  # trailing comment
`

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(sampleLUT), "test.txt")
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.Len())
	assert.Len(t, tbl.RawLines, 8, "raw lines keep comments and blanks")

	e, ok := tbl.Lookup("Left-Hippocampus")
	require.True(t, ok)
	assert.Equal(t, 17, e.Index)
	assert.Equal(t, Color{R: 220, G: 16, B: 16, A: 0}, e.Color)

	e, ok = tbl.LookupIndex(53)
	require.True(t, ok)
	assert.Equal(t, "Right-Hippocampus", e.Name)

	assert.True(t, tbl.Has("Unknown"))
	assert.False(t, tbl.Has("Left-Amygdala"))
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "wrong column count",
			input:   "17 Left-Hippocampus 220 16 16\n",
			wantErr: "expected 6 columns",
		},
		{
			name:    "non-integer index",
			input:   "abc Left-Hippocampus 220 16 16 0\n",
			wantErr: "invalid index",
		},
		{
			name:    "channel out of range",
			input:   "17 Left-Hippocampus 300 16 16 0\n",
			wantErr: "out of range",
		},
		{
			name:    "duplicate name",
			input:   "17 Left-Hippocampus 220 16 16 0\n18 Left-Hippocampus 221 16 16 0\n",
			wantErr: `duplicate region name "Left-Hippocampus"`,
		},
		{
			name:    "duplicate index",
			input:   "17 Left-Hippocampus 220 16 16 0\n17 Left-Amygdala 103 255 255 0\n",
			wantErr: "duplicate index 17",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.input), "test.txt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "test.txt:", "error carries source position")
		})
	}
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lut.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleLUT), 0644))

	tbl, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, 4, tbl.Len())

	_, err = ReadTable(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open LUT")
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "220 16 16 0", Color{R: 220, G: 16, B: 16}.String())
	assert.Equal(t, "0 0 0 0", Color{}.String())
}
