package engine

import (
	"fmt"
	"os"

	"github.com/ins-amu/veplut/internal/state"
	"github.com/ins-amu/veplut/pkg/atlas"
	"github.com/ins-amu/veplut/pkg/compile"
)

// Derive rebuilds a single downstream artifact from an existing combined
// LUT (possibly hand-edited), without re-running validation or touching the
// other outputs. kind is one of mrtrix_lut, subcort_list, aparc_lut.
//
// Only the region spec and the combined LUT are consulted; derived runs are
// not recorded as provenance since they do not represent a full compilation.
func (e *Engine) Derive(kind string) (ArtifactInfo, error) {
	spec, err := atlas.ReadRegions(e.cfg.RegionsFile)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to load region spec: %w", err)
	}
	combined, err := atlas.ReadTable(e.cfg.FsLut)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to load combined LUT: %w", err)
	}

	switch kind {
	case state.ArtifactMrtrixLut:
		entries, err := compile.BuildRenumbered(combined, spec)
		if err != nil {
			return ArtifactInfo{}, err
		}
		return e.emit("", kind, e.cfg.MrtrixLut, len(entries),
			func(w *os.File) error { return compile.WriteRenumbered(w, entries) })

	case state.ArtifactSubcortList:
		indices, err := compile.BuildSubcortIndices(combined, spec)
		if err != nil {
			return ArtifactInfo{}, err
		}
		return e.emit("", kind, e.cfg.SubcortList, len(indices),
			func(w *os.File) error { return compile.WriteIndices(w, indices) })

	case state.ArtifactAparcLut:
		entries, err := compile.BuildCortical(combined, spec)
		if err != nil {
			return ArtifactInfo{}, err
		}
		return e.emit("", kind, e.cfg.AparcLut, len(entries),
			func(w *os.File) error { return compile.WriteCortical(w, entries) })

	default:
		return ArtifactInfo{}, fmt.Errorf("unknown artifact kind: %s", kind)
	}
}
