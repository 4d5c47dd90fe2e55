package csvload

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Loader parses CSV sources and caches the result keyed by a SHA-256 of the
// content, so repeated loads of the same bytes return the already parsed
// table. The cache never goes stale: a changed file hashes differently.
type Loader struct {
	mu    sync.Mutex
	cache map[[sha256.Size]byte]*RawTable
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{cache: make(map[[sha256.Size]byte]*RawTable)}
}

// Parse returns the table for the given content, from cache when possible.
func (l *Loader) Parse(content string) (*RawTable, error) {
	key := sha256.Sum256([]byte(content))

	l.mu.Lock()
	table, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return table, nil
	}

	table, err := Parse(content)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[key] = table
	l.mu.Unlock()
	return table, nil
}

// LoadFile reads and parses a local CSV file.
func (l *Loader) LoadFile(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return l.Parse(string(data))
}

// DefaultPaths returns the lookup list for the register export, either from
// the CAISSE_DATA_PATHS environment variable (colon-separated) or the
// built-in defaults.
func DefaultPaths() []string {
	if env := os.Getenv("CAISSE_DATA_PATHS"); env != "" {
		var paths []string
		for _, p := range strings.Split(env, ":") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		return paths
	}

	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join("output_caisse", "data_clean", "caisse_clean.csv"),
		filepath.Join(home, "Desktop", "caisse_sale_clean.csv"),
	}
}

// ResolvePath returns the first existing path from the list.
func ResolvePath(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &LoadError{Source: strings.Join(paths, ", "), Err: os.ErrNotExist}
}
