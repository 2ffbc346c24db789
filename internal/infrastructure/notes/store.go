package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

const manifestName = "new_files_list.txt"

// Store keeps notes as flat Markdown files under {root}/Raindrop and writes
// the per-run manifest into the workspace root.
type Store struct {
	dir          string
	manifestPath string
}

var _ ports.NoteStore = (*Store)(nil)

// NewStore creates the notes directory if needed.
func NewStore(outputRoot, workspaceRoot string) (*Store, error) {
	dir := filepath.Join(outputRoot, "Raindrop")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}

	return &Store{
		dir:          dir,
		manifestPath: filepath.Join(workspaceRoot, manifestName),
	}, nil
}

// Dir returns the notes directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether a note file is already present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// Write creates a note file. Callers check Exists first; an existing note is
// never overwritten by the sync pass.
func (s *Store) Write(name, content string) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", name, err)
	}
	return nil
}

// Read returns the full note content.
func (s *Store) Read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", name, err)
	}
	return string(data), nil
}

// Append adds content at the end of an existing note, never touching what is
// already there.
func (s *Store) Append(name, content string) error {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open note %s: %w", name, err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("append note %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close note %s: %w", name, err)
	}

	return nil
}

// ListRecent returns the names of notes modified within the window, sorted
// for deterministic processing order.
func (s *Store) ListRecent(window time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan notes dir: %w", err)
	}

	cutoff := time.Now().Add(-window)
	var names []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// WriteManifest overwrites the run manifest with one filename per line and
// returns its path.
func (s *Store) WriteManifest(names []string) (string, error) {
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(s.manifestPath, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	return s.manifestPath, nil
}
