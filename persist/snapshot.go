/*
snapshot.go - JSON snapshot codec

PURPOSE:
  Serializes the full engine state to a single indented JSON file. Load
  is forgiving: a missing or unparseable file yields an empty snapshot
  so a fresh installation boots cleanly instead of failing.
*/
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gustavoponcell/Barbearia/engine"
)

// JSONSnapshotCodec reads and writes engine snapshots as JSON files.
type JSONSnapshotCodec struct{}

// NewJSONSnapshotCodec returns a codec.
func NewJSONSnapshotCodec() *JSONSnapshotCodec {
	return &JSONSnapshotCodec{}
}

// Save writes the snapshot to path, creating parent directories.
func (c *JSONSnapshotCodec) Save(snap *engine.Snapshot, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot at path. Missing and unparseable files both
// return an empty snapshot; only IO errors other than absence fail.
func (c *JSONSnapshotCodec) Load(path string) (*engine.Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &engine.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &engine.Snapshot{}, nil
	}
	return &snap, nil
}
