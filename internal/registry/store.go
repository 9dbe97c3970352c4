// Package registry persists the set of enabled extension ids. The on-disk
// form is a small YAML document with one canonical rendering: a header
// line followed by one indented entry per id, sorted ascending and
// deduplicated. Reads tolerate hand-edits and corruption; Rebuild salvages
// whatever entries are still recognizable and rewrites the canonical form.
package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
)

// document is the YAML shape of the registry file.
type document struct {
	Enabled []string `yaml:"enabled"`
}

// Store manages the enabled-extension registry file.
type Store struct {
	path string
	log  logger.Logger
}

// NewStore creates a Store for the registry file at path.
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	return &Store{path: path, log: log}
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

// LoadResult describes what a tolerant read found on disk.
type LoadResult struct {
	// Entries are the salvaged ids, deduplicated and sorted
	Entries []string
	// Salvaged is true when the file was not well-formed YAML and
	// entries had to be recovered line by line
	Salvaged bool
}

// Load reads the registry, tolerating a missing file, an empty file, and
// malformed content. It never returns an error: anything unreadable is an
// empty registry, and a later Rebuild restores the canonical form.
func (s *Store) Load() LoadResult {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("registry unreadable, treating as empty", "path", s.path, "error", err)
		}
		return LoadResult{}
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return LoadResult{}
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err == nil && doc.Enabled != nil {
		return LoadResult{Entries: canonicalize(doc.Enabled)}
	}

	s.log.Warn("registry malformed, salvaging entries", "path", s.path)
	return LoadResult{Entries: canonicalize(salvageEntries(content)), Salvaged: true}
}

// Enabled reports whether id is currently recorded as enabled.
func (s *Store) Enabled(id string) bool {
	for _, entry := range s.Load().Entries {
		if entry == id {
			return true
		}
	}
	return false
}

// Add records id as enabled. Adding an id that is already present is a
// no-op, not an error. The file always ends up in canonical form.
func (s *Store) Add(id string) error {
	result := s.Load()
	return s.write(canonicalize(append(result.Entries, id)))
}

// RebuildResult describes the outcome of a Rebuild.
type RebuildResult struct {
	// Entries is the canonical registry content after the rebuild
	Entries []string
	// Recovered is true when the on-disk file was malformed and had to
	// be reconstructed from salvaged lines
	Recovered bool
}

// Rebuild reads whatever is on disk, salvages every recognizable entry,
// and rewrites the canonical form from scratch. Safe to call
// unconditionally; calling it twice in a row yields byte-identical output
// the second time.
func (s *Store) Rebuild() (RebuildResult, error) {
	result := s.Load()
	if result.Salvaged {
		s.log.Info("rebuilt registry from corrupted file",
			"path", s.path, "entries", len(result.Entries))
	}
	if err := s.write(result.Entries); err != nil {
		return RebuildResult{}, err
	}
	return RebuildResult{Entries: result.Entries, Recovered: result.Salvaged}, nil
}

// write renders the canonical form and puts it in place through a
// temporary file, so a crash mid-write never leaves a half-written
// registry.
func (s *Store) write(entries []string) error {
	rendered, err := renderCanonical(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".enabled-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(rendered); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

// renderCanonical produces the canonical byte form of the registry. An
// empty registry renders as an empty flow sequence, not null.
func renderCanonical(entries []string) ([]byte, error) {
	if entries == nil {
		entries = []string{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Enabled: entries}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonicalize deduplicates, drops empties, and sorts ascending.
func canonicalize(entries []string) []string {
	seen := map[string]bool{}
	var unique []string
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		unique = append(unique, entry)
	}
	sort.Strings(unique)
	return unique
}

// salvageEntries extracts every recognizable "- id" line from arbitrary
// file content, ignoring the header, garbage lines, and extra whitespace.
func salvageEntries(content []byte) []string {
	var entries []string
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
		entry = strings.Trim(entry, `"'`)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
