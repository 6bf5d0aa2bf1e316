package catalog

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Manager handles catalog loading and caching. The built-in classic catalog
// is always available, even without a levels directory.
type Manager struct {
	levelsDir      string
	defaultName    string
	defaultCatalog *Catalog
	catalogs       map[string]*Catalog
	mu             sync.RWMutex
}

// NewManager creates a new catalog manager. An empty levelsDir serves only the
// built-in catalog.
func NewManager(levelsDir string) (*Manager, error) {
	if levelsDir != "" {
		if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
		}
	}

	m := &Manager{
		levelsDir:   levelsDir,
		defaultName: ClassicID,
		catalogs:    make(map[string]*Catalog),
	}

	if err := m.loadDefaultCatalog(); err != nil {
		return nil, fmt.Errorf("failed to load default catalog: %w", err)
	}

	return m, nil
}

// LevelsDir returns the directory catalogs are read from
func (m *Manager) LevelsDir() string {
	return m.levelsDir
}

// LoadCatalog loads a catalog by name. Files win over the built-in catalog of
// the same name.
func (m *Manager) LoadCatalog(name string) (*Catalog, error) {
	name = catalogName(name)
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrCatalogNotFound, name)
	}

	m.mu.RLock()
	if c, exists := m.catalogs[name]; exists {
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if c, exists := m.catalogs[name]; exists {
		return c, nil
	}

	c, err := m.readCatalog(name)
	if errors.Is(err, ErrCatalogNotFound) && name == ClassicID {
		c, err = Classic(), nil
	}
	if err != nil {
		return nil, err
	}

	m.catalogs[name] = c
	return c, nil
}

func (m *Manager) readCatalog(name string) (*Catalog, error) {
	if m.levelsDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(m.levelsDir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}

		format, _ := FormatFromPath(path)
		return Parse(name, data, format)
	}

	return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
}

// ListCatalogs returns information about all available catalogs
func (m *Manager) ListCatalogs() ([]*Info, error) {
	var infos []*Info
	seen := make(map[string]bool)

	if m.levelsDir != "" {
		entries, err := os.ReadDir(m.levelsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read levels directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, ok := FormatFromPath(entry.Name()); !ok {
				continue
			}

			name := catalogName(entry.Name())
			if seen[name] {
				continue
			}

			c, err := m.LoadCatalog(name)
			if err != nil {
				log.Printf("[CATALOG] skipping %s: %v", entry.Name(), err)
				continue
			}

			info := c.Info()
			info.Filename = entry.Name()
			infos = append(infos, info)
			seen[name] = true
		}
	}

	if !seen[ClassicID] {
		c, err := m.LoadCatalog(ClassicID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, c.Info())
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].CatalogID < infos[j].CatalogID })
	return infos, nil
}

// GetDefault returns the default catalog
func (m *Manager) GetDefault() *Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultCatalog
}

// SetDefault sets the default catalog by name
func (m *Manager) SetDefault(name string) error {
	c, err := m.LoadCatalog(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = c.ID()
	m.defaultCatalog = c
	return nil
}

// RefreshCache drops cached catalogs so the next load reads from disk. The
// default catalog is reloaded under the same name.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.catalogs = make(map[string]*Catalog)
	m.mu.Unlock()

	return m.loadDefaultCatalog()
}

// loadDefaultCatalog loads the default by name. For classic a file on disk
// wins over the built-in catalog.
func (m *Manager) loadDefaultCatalog() error {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()

	c, err := m.LoadCatalog(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.defaultCatalog = c
	m.mu.Unlock()
	return nil
}

// SaveCatalog writes a catalog to the levels directory. The extension of
// name picks the format; JSON is used when there is none.
func (m *Manager) SaveCatalog(name string, c *Catalog) error {
	if m.levelsDir == "" {
		return fmt.Errorf("no levels directory configured")
	}

	format, ok := FormatFromPath(name)
	filename := name
	if !ok {
		format = FormatJSON
		filename = name + ".json"
	}
	if !validName(catalogName(filename)) {
		return fmt.Errorf("invalid catalog name %q", name)
	}

	data, err := Encode(c, format)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	path := filepath.Join(m.levelsDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	// Re-parse so the cached copy carries the file name as its id
	saved, err := Parse(catalogName(filename), data, format)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.catalogs[saved.ID()] = saved
	m.mu.Unlock()

	return nil
}

// validName reports whether name is a plain file name inside the levels
// directory
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// catalogName strips a known catalog extension
func catalogName(name string) string {
	if _, ok := FormatFromPath(name); ok {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
