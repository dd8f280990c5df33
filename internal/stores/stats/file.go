package stats

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/ethanbaker/refbot/pkg/stats"
)

// DefaultFile is the counter file used when none is configured
const DefaultFile = "reference_stats.json"

// FileStore keeps counters in a single JSON file. Every Load and Save round-trips
// through the file; nothing is cached between calls
type FileStore struct {
	path  string
	names []string
}

// NewFileStore creates a file store covering the given destination names
func NewFileStore(path string, names []string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path, names: append([]string(nil), names...)}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the counter file. A missing, unreadable or corrupt file yields zero counters
func (s *FileStore) Load(ctx context.Context) stats.Counters {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[STATS]: Error reading stats file %s: %v", s.path, err)
		}
		return stats.NewCounters(s.names)
	}

	counters, err := stats.Decode(data, s.names)
	if err != nil {
		log.Printf("[STATS]: Error reading stats file %s: %v", s.path, err)
		return stats.NewCounters(s.names)
	}

	return counters
}

// Save writes the counters to a temporary file next to the target and renames it into place.
// Failures are logged and otherwise ignored
func (s *FileStore) Save(ctx context.Context, counters stats.Counters) {
	if err := s.write(counters); err != nil {
		log.Printf("[STATS]: Error writing to stats file %s: %v", s.path, err)
	}
}

func (s *FileStore) write(counters stats.Counters) error {
	data, err := stats.Encode(counters)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// Keep the permissions of the file being replaced
	mode := fs.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
