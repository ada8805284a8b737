// Package engine orchestrates a LUT compilation run: it loads the inputs,
// validates them, emits the four output tables in dependency order, and
// records provenance in the state store.
package engine

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ins-amu/veplut/internal/state"
	"github.com/ins-amu/veplut/pkg/atlas"
	"github.com/ins-amu/veplut/pkg/compile"
	"github.com/ins-amu/veplut/pkg/rules"
)

// Config holds engine configuration.
type Config struct {
	// Input files.
	RefLut      string
	RulesFile   string
	RegionsFile string

	// Output files.
	FsLut       string
	MrtrixLut   string
	SubcortList string
	AparcLut    string

	// StatePath is the path to the SQLite provenance database.
	StatePath string

	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine compiles the parcellation LUTs.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	store  *state.SQLiteStore

	ref  *atlas.Table
	set  *rules.Set
	spec *atlas.RegionSpec
}

// New creates an engine and opens the state store. A failure to open or
// migrate the store aborts up front, before any compilation work.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		"ref_lut", cfg.RefLut, "rules_file", cfg.RulesFile, "regions_file", cfg.RegionsFile)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	return &Engine{cfg: cfg, logger: logger, store: store}, nil
}

// Close releases the state store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Store exposes the provenance store for history queries.
func (e *Engine) Store() *state.SQLiteStore {
	return e.store
}

// Load reads the three input files into memory. Idempotent.
func (e *Engine) Load() error {
	if e.ref != nil {
		return nil
	}

	ref, err := atlas.ReadTable(e.cfg.RefLut)
	if err != nil {
		return fmt.Errorf("failed to load reference LUT: %w", err)
	}
	set, err := rules.Load(e.cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	spec, err := atlas.ReadRegions(e.cfg.RegionsFile)
	if err != nil {
		return fmt.Errorf("failed to load region spec: %w", err)
	}

	e.logger.Debug("inputs loaded",
		"reference_entries", ref.Len(), "rules", set.Len(), "target_regions", spec.Len())

	e.ref, e.set, e.spec = ref, set, spec
	return nil
}

// Inputs returns the loaded rule set and region spec. Load must have
// succeeded first.
func (e *Engine) Inputs() (*rules.Set, *atlas.RegionSpec) {
	return e.set, e.spec
}

// Validate loads the inputs if needed and runs the consistency checks.
// No output file is opened before this passes.
func (e *Engine) Validate() error {
	if err := e.Load(); err != nil {
		return err
	}
	return compile.Validate(e.set, e.ref, e.spec)
}

// Compile runs the full pipeline: validate, emit the combined LUT, re-read
// it, and derive the three downstream tables from the re-read copy. The
// re-read is deliberate: each derived table is a pure function of the
// emitted file, so any of them can later be rebuilt independently against
// a hand-edited combined LUT.
func (e *Engine) Compile() (*Result, error) {
	if err := e.Load(); err != nil {
		return nil, err
	}

	run, err := e.store.CreateRun(e.cfg.RefLut, e.cfg.RulesFile, e.cfg.RegionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	result, err := e.compile(run.ID)
	if err != nil {
		if serr := e.store.CompleteRun(run.ID, state.RunStatusFailed, err.Error()); serr != nil {
			e.logger.Warn("failed to record run failure", "error", serr)
		}
		return nil, err
	}

	if err := e.store.CompleteRun(run.ID, state.RunStatusCompleted, ""); err != nil {
		// Artifacts are already on disk and consistent; only history is stale.
		e.logger.Warn("failed to record run completion", "error", err)
	}

	return result, nil
}

func (e *Engine) compile(runID string) (*Result, error) {
	if err := compile.Validate(e.set, e.ref, e.spec); err != nil {
		return nil, err
	}

	result := &Result{RunID: runID}

	newEntries := compile.BuildCombined(e.ref, e.spec)
	logIndexRanges(e.logger, newEntries)

	art, err := e.emit(runID, state.ArtifactFsLut, e.cfg.FsLut, len(e.ref.Entries)+len(newEntries),
		func(w *os.File) error { return compile.WriteCombined(w, e.ref, newEntries) })
	if err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, art)

	// File-based handoff: the downstream builders consume the emitted
	// combined LUT, not the in-memory entries.
	combined, err := atlas.ReadTable(e.cfg.FsLut)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read combined LUT: %w", err)
	}

	renumbered, err := compile.BuildRenumbered(combined, e.spec)
	if err != nil {
		return nil, err
	}
	art, err = e.emit(runID, state.ArtifactMrtrixLut, e.cfg.MrtrixLut, len(renumbered),
		func(w *os.File) error { return compile.WriteRenumbered(w, renumbered) })
	if err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, art)

	indices, err := compile.BuildSubcortIndices(combined, e.spec)
	if err != nil {
		return nil, err
	}
	art, err = e.emit(runID, state.ArtifactSubcortList, e.cfg.SubcortList, len(indices),
		func(w *os.File) error { return compile.WriteIndices(w, indices) })
	if err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, art)

	cortical, err := compile.BuildCortical(combined, e.spec)
	if err != nil {
		return nil, err
	}
	art, err = e.emit(runID, state.ArtifactAparcLut, e.cfg.AparcLut, len(cortical),
		func(w *os.File) error { return compile.WriteCortical(w, cortical) })
	if err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, art)

	return result, nil
}

// logIndexRanges logs the new-index range assigned per hemisphere.
// Informational only.
func logIndexRanges(logger *slog.Logger, entries []atlas.Entry) {
	for _, hemi := range atlas.Hemispheres {
		base := compile.Base(hemi)
		lo, hi := 0, 0
		for _, e := range entries {
			if e.Index < base || e.Index >= base+1000 {
				continue
			}
			if lo == 0 || e.Index < lo {
				lo = e.Index
			}
			if e.Index > hi {
				hi = e.Index
			}
		}
		if lo != 0 {
			logger.Debug("new index range", "hemisphere", hemi.String(), "first", lo, "last", hi)
		}
	}
}
