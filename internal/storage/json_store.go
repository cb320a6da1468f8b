package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonSnapshot persists a value to a single JSON file, replacing it
// atomically on every save. Callers serialise access.
type jsonSnapshot struct {
	filePath string
}

func newJSONSnapshot(dataDir, filename string) (*jsonSnapshot, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create data dir: %w", err)
	}
	return &jsonSnapshot{filePath: filepath.Join(dataDir, filename)}, nil
}

// load decodes the snapshot into data. A missing file leaves data untouched.
func (s *jsonSnapshot) load(data any) error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("snapshot: decode %s: %w", s.filePath, err)
	}
	return nil
}

func (s *jsonSnapshot) save(data any) error {
	// Write to a temp file first, then rename over the snapshot.
	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}
