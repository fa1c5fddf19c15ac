// Package assets is a small synchronous asset pipeline for palettes. It
// reads bytes from a directory, hands them to the loader registered for
// the file's extension, caches the result by name, and can watch the
// directory to reload palettes when their files change.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
	"github.com/wbrown/lospec"
)

var (
	// ErrNoLoader is returned for names whose extension has no loader.
	ErrNoLoader = errors.New("no loader registered for extension")
	// ErrInvalidName is returned for names that are absolute or leave the
	// server's root.
	ErrInvalidName = errors.New("invalid asset name")
	// ErrNotLoaded is returned by Reload for names never loaded.
	ErrNotLoaded = errors.New("asset not loaded")
)

type entry struct {
	palette  lospec.Palette
	hash     uint64
	loadedAt time.Time
}

// Server caches palettes loaded from files under a root directory. It is
// safe for concurrent use.
type Server struct {
	root string
	log  *logrus.Entry

	mu      sync.RWMutex
	loaders map[string]lospec.AssetLoader
	cache   map[string]*entry
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for load and reload events.
func WithLogger(log *logrus.Entry) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithLoader registers an additional loader.
func WithLoader(l lospec.AssetLoader) ServerOption {
	return func(s *Server) {
		s.Register(l)
	}
}

// NewServer creates a Server reading from root with the built-in JSON and
// hex loaders registered.
func NewServer(root string, opts ...ServerOption) *Server {
	s := &Server{
		root:    root,
		log:     logrus.WithField("component", "assets"),
		loaders: make(map[string]lospec.AssetLoader),
		cache:   make(map[string]*entry),
	}
	for _, l := range lospec.Loaders {
		s.Register(l)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory the server reads from.
func (s *Server) Root() string {
	return s.root
}

// Register makes l responsible for every extension it declares, replacing
// any loader previously registered for them.
func (s *Server) Register(l lospec.AssetLoader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ext := range l.Extensions() {
		s.loaders[strings.ToLower(ext)] = l
	}
}

// Extensions returns the registered extensions, sorted.
func (s *Server) Extensions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exts := make([]string, 0, len(s.loaders))
	for ext := range s.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (s *Server) loaderFor(name string) (lospec.AssetLoader, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	s.mu.RLock()
	l, ok := s.loaders[ext]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q: %s", ErrNoLoader, ext, name)
	}
	return l, nil
}

// clean normalizes a slash-separated asset name and rejects names that
// would escape the root.
func clean(name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.ToSlash(filepath.Clean(local)), nil
}

// read acquires and decodes the asset without touching the cache.
func (s *Server) read(name string) (lospec.Palette, uint64, error) {
	l, err := s.loaderFor(name)
	if err != nil {
		return lospec.Palette{}, 0, err
	}
	path := filepath.Join(s.root, filepath.FromSlash(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return lospec.Palette{}, 0, &lospec.IOError{Path: path, Err: err}
	}
	hash := xxhash.Sum64(data)
	p, err := l.Load(data)
	if err != nil {
		return lospec.Palette{}, hash, fmt.Errorf("%s: %w", name, err)
	}
	return p, hash, nil
}

// Load returns the palette stored under name, a slash-separated path
// relative to the root. The first successful load is cached; later calls
// return the cached palette until Reload replaces it.
func (s *Server) Load(name string) (lospec.Palette, error) {
	name, err := clean(name)
	if err != nil {
		return lospec.Palette{}, err
	}
	if p, ok := s.Get(name); ok {
		return p, nil
	}

	p, hash, err := s.read(name)
	if err != nil {
		s.log.WithError(err).WithField("asset", name).Warn("Failed to load palette")
		return lospec.Palette{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have won the race; keep the first.
	if e, ok := s.cache[name]; ok {
		return e.palette, nil
	}
	s.cache[name] = &entry{palette: p, hash: hash, loadedAt: time.Now()}
	s.log.WithFields(logrus.Fields{
		"asset":  name,
		"colors": p.Len(),
	}).Info("Loaded palette")
	return p, nil
}

// Get returns the cached palette for name without touching the disk.
func (s *Server) Get(name string) (lospec.Palette, bool) {
	name, err := clean(name)
	if err != nil {
		return lospec.Palette{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.cache[name]
	if !ok {
		return lospec.Palette{}, false
	}
	return e.palette, true
}

// Reload re-reads a cached asset. It reports whether the palette was
// replaced: files whose bytes are unchanged are skipped. When the new
// bytes fail to load, the previous palette stays cached and the error is
// returned. The cache entry is only replaced if it is still the one seen
// before reading, so a concurrent Evict or Reload is never undone.
func (s *Server) Reload(name string) (bool, error) {
	name, err := clean(name)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	old, ok := s.cache[name]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}

	p, hash, err := s.read(name)
	if err != nil {
		s.log.WithError(err).WithField("asset", name).Warn("Reload failed, keeping previous palette")
		return false, err
	}
	if hash == old.hash {
		s.log.WithField("asset", name).Debug("Palette unchanged")
		return false, nil
	}

	s.mu.Lock()
	cur, ok := s.cache[name]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	if cur != old {
		// Another Reload got there first; its bytes are newer.
		s.mu.Unlock()
		s.log.WithField("asset", name).Debug("Palette replaced concurrently")
		return false, nil
	}
	s.cache[name] = &entry{palette: p, hash: hash, loadedAt: time.Now()}
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"asset":  name,
		"colors": p.Len(),
	}).Info("Reloaded palette")
	return true, nil
}

// Evict drops name from the cache.
func (s *Server) Evict(name string) {
	name, err := clean(name)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Loaded returns the names of the cached assets, sorted.
func (s *Server) Loaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cache))
	for name := range s.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadedAt returns when the cached palette for name was last replaced.
func (s *Server) LoadedAt(name string) (time.Time, bool) {
	name, err := clean(name)
	if err != nil {
		return time.Time{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.cache[name]
	if !ok {
		return time.Time{}, false
	}
	return e.loadedAt, true
}
