// Package store persists fleet state as one JSON snapshot per image plus a
// fleet.json file holding the fleet order.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
)

const orderFile = "fleet.json"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore implements painter.Sink on a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store writing into it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) imagePath(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("invalid image ID %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the image snapshot to <dir>/<id>.json.
func (s *FileStore) Save(img *painter.Image) error {
	path, err := s.imagePath(img.ID)
	if err != nil {
		return err
	}
	snap, err := img.Snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode image %s: %w", img.ID, err)
	}
	return writeFile(path, data)
}

// Remove deletes the image snapshot. Removing an unknown ID is not an error.
func (s *FileStore) Remove(id string) error {
	path, err := s.imagePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image %s: %w", id, err)
	}
	return nil
}

// SaveOrder writes the fleet order.
func (s *FileStore) SaveOrder(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, orderFile), data)
}

// Load returns the stored snapshots in fleet order. IDs listed in the order
// file without a snapshot are skipped with a warning; an absent order file
// means an empty fleet.
func (s *FileStore) Load() ([]*painter.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, orderFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet order: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("invalid fleet order: %w", err)
	}

	snaps := make([]*painter.Snapshot, 0, len(ids))
	for _, id := range ids {
		path, err := s.imagePath(id)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: image %s listed in fleet order but not stored", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", id, err)
		}
		snap, err := painter.ParseSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", id, err)
		}
		snap.ID = id
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// writeFile replaces path atomically via a temp file in the same directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".canvas-painter-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
