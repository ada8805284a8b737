package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ins-amu/veplut/internal/state"
)

// ArtifactInfo summarizes one emitted output file.
type ArtifactInfo struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
	Hash    string `json:"checksum"`
}

// Result is the outcome of a successful compilation.
type Result struct {
	RunID     string         `json:"run_id"`
	Artifacts []ArtifactInfo `json:"artifacts"`
}

// emit writes one artifact to disk and records it in the state store.
// A recording failure is logged, not fatal: the artifact on disk is intact.
func (e *Engine) emit(runID, kind, path string, entries int, write func(*os.File) error) (ArtifactInfo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return ArtifactInfo{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return ArtifactInfo{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to close %s: %w", path, err)
	}

	info := ArtifactInfo{Kind: kind, Path: path, Entries: entries}
	info.Bytes, info.Hash, err = hashFile(path)
	if err != nil {
		return ArtifactInfo{}, err
	}

	e.logger.Info("artifact written",
		"kind", kind, "path", path, "entries", entries, "bytes", info.Bytes)

	if runID != "" {
		err := e.store.RecordArtifact(&state.Artifact{
			RunID:    runID,
			Kind:     kind,
			Path:     path,
			Entries:  entries,
			Bytes:    info.Bytes,
			Checksum: info.Hash,
		})
		if err != nil {
			e.logger.Warn("failed to record artifact", "kind", kind, "error", err)
		}
	}

	return info, nil
}

// hashFile returns the size and truncated SHA256 of a file's content.
func hashFile(path string) (int64, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to read back %s: %w", path, err)
	}
	h := sha256.Sum256(content)
	return int64(len(content)), hex.EncodeToString(h[:8]), nil
}
