// Package store persists one YAML record file per project under the data
// directory, mirroring the dashboard's on-disk layout:
//
//	<data>/PROJECT-<CODE>/project_status.yaml
//
// Saves are atomic (write to a temp file, then rename) so an interrupted
// write can never leave a project half-merged, and all access for a given
// project code is serialized through a per-code lock around the caller's
// read-merge-write cycle.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/statusdeck/statusdeck/internal/domain"
)

// FileName is the record file inside each project directory.
const FileName = "project_status.yaml"

// Store is a YAML-file project repository with an in-memory cache keyed by
// project code. The cache is invalidated explicitly on every successful
// write; there is no implicit process-wide state.
type Store struct {
	dataDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache *cache
}

// New creates a store rooted at dataDir, creating it if needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dataDir: dataDir,
		locks:   make(map[string]*sync.Mutex),
		cache:   newCache(),
	}, nil
}

// DataDir returns the root data directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Lock returns the mutex serializing access to one project code. Callers
// hold it across their whole read-merge-write cycle so two concurrent
// uploads for the same project cannot interleave.
func (s *Store) Lock(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[code]; !ok {
		s.locks[code] = &sync.Mutex{}
	}
	return s.locks[code]
}

// Path returns the record file path for a project code.
func (s *Store) Path(code string) string {
	return filepath.Join(s.dataDir, projectDirName(code), FileName)
}

// Get loads one project by code. Returns a NotFoundError if no record file
// exists.
func (s *Store) Get(code string) (*domain.Project, error) {
	if p, ok := s.cache.get(code); ok {
		return p.Clone(), nil
	}

	path := s.Path(code)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Resource: "project", Key: code}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	p, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if p.ProjectCode != code {
		return nil, fmt.Errorf("record file %s holds project %s, expected %s", path, p.ProjectCode, code)
	}

	s.cache.put(code, p)
	return p.Clone(), nil
}

// Exists reports whether a record file exists for the code.
func (s *Store) Exists(code string) bool {
	_, err := os.Stat(s.Path(code))
	return err == nil
}

// LoadAll loads every project under the data directory, sorted by code.
// Unreadable files are skipped; one corrupt record must not take down the
// whole dashboard.
func (s *Store) LoadAll() ([]*domain.Project, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var projects []*domain.Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(s.dataDir, e.Name(), FileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p, err := loadFile(path)
		if err != nil {
			continue
		}
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ProjectCode < projects[j].ProjectCode
	})
	return projects, nil
}

// Save persists a project atomically and invalidates its cache entry.
func (s *Store) Save(p *domain.Project) error {
	if p == nil || strings.TrimSpace(p.ProjectCode) == "" {
		return fmt.Errorf("cannot save project without a project_code")
	}

	dir := filepath.Join(s.dataDir, projectDirName(p.ProjectCode))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", p.ProjectCode, err)
	}

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write project %s: %w", p.ProjectCode, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.cache.invalidate(p.ProjectCode)
	return nil
}

// Delete removes a project's record file and directory. Only ever called
// from explicit user action; reconciliation never deletes.
func (s *Store) Delete(code string) error {
	dir := filepath.Join(s.dataDir, projectDirName(code))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &domain.NotFoundError{Resource: "project", Key: code}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", code, err)
	}
	s.cache.invalidate(code)
	return nil
}

// projectDirName matches the dashboard's directory naming: hyphens in the
// code become underscores.
func projectDirName(code string) string {
	return "PROJECT-" + strings.ReplaceAll(code, "-", "_")
}

// loadFile reads and normalizes one record file. Legacy files written by
// earlier versions may key risks and changes by "id" instead of
// "risk_id"/"change_id" and may omit risk impact; both are fixed up on read.
func loadFile(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw rawProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return raw.toDomain(), nil
}
