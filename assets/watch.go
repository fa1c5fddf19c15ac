package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/wbrown/lospec"
)

// ChangeFunc is called after a watched asset was reloaded. err is set
// when the new bytes failed to load; p then holds the palette still
// cached.
type ChangeFunc func(name string, p lospec.Palette, err error)

// Watch reloads cached assets when their files are written or replaced,
// calling onChange for every reload that replaced a palette or failed. It
// watches the directories of the assets cached when it starts, and blocks
// until ctx is done.
func (s *Server) Watch(ctx context.Context, onChange ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	dirs := map[string]bool{".": true}
	for _, name := range s.Loaded() {
		dirs[path.Dir(name)] = true
	}
	for dir := range dirs {
		full := filepath.Join(s.root, filepath.FromSlash(dir))
		if err := w.Add(full); err != nil {
			return fmt.Errorf("failed to watch %s: %w", full, err)
		}
	}
	s.log.WithField("dirs", len(dirs)).Info("Watching palettes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ev, onChange)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("Watcher error")
		}
	}
}

func (s *Server) handleEvent(ev fsnotify.Event, onChange ChangeFunc) {
	rel, err := filepath.Rel(s.root, ev.Name)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)
	if _, ok := s.Get(name); !ok {
		return
	}

	log := s.log.WithFields(logrus.Fields{"asset": name, "op": ev.Op.String()})
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		// Editors often replace files by rename; the Create that follows
		// triggers the reload.
		log.Debug("Palette file moved away, keeping cached palette")
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	changed, err := s.Reload(name)
	if errors.Is(err, ErrNotLoaded) {
		return
	}
	if err != nil || changed {
		p, _ := s.Get(name)
		if onChange != nil {
			onChange(name, p, err)
		}
	}
}
