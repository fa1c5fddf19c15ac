// Package library persists named palettes in a SQLite catalogue.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wbrown/lospec"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned for names with no stored palette.
var ErrNotFound = errors.New("palette not found")

// PaletteModel is the stored form of a palette. Colors holds the palette in
// its Lospec JSON encoding.
type PaletteModel struct {
	Name      string `gorm:"primaryKey"`
	Colors    string
	Count     int
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry describes a stored palette without decoding it.
type Entry struct {
	Name      string
	Count     int
	Source    string
	UpdatedAt time.Time
}

// Library is a palette catalogue backed by a SQLite database.
type Library struct {
	db  *gorm.DB
	log *logrus.Entry
}

// Option is a functional option for configuring a Library.
type Option func(*Library)

// WithLogger sets the logger for catalogue changes.
func WithLogger(log *logrus.Entry) Option {
	return func(l *Library) {
		l.log = log
	}
}

// Open opens (or creates) the catalogue at path and migrates its schema.
func Open(path string, opts ...Option) (*Library, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&PaletteModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	l := &Library{db: db, log: logrus.WithField("component", "library")}
	for _, opt := range opts {
		opt(l)
	}
	l.log.WithField("path", path).Debug("Opened palette library")
	return l, nil
}

func normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("palette name is empty")
	}
	return strings.ToLower(name), nil
}

// Save stores p under name, replacing any palette already stored there.
// Names are case-insensitive. source records where the palette came from.
func (l *Library) Save(name string, p lospec.Palette, source string) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	data, err := p.MarshalJSON()
	if err != nil {
		return err
	}

	model := PaletteModel{
		Name:   name,
		Colors: string(data),
		Count:  p.Len(),
		Source: source,
	}
	var existing PaletteModel
	if err := l.db.Select("created_at").First(&existing, "name = ?", name).Error; err == nil {
		model.CreatedAt = existing.CreatedAt
	}
	if err := l.db.Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save palette %s: %w", name, err)
	}
	l.log.WithFields(logrus.Fields{
		"palette": name,
		"colors":  model.Count,
	}).Info("Saved palette")
	return nil
}

// Get decodes the palette stored under name.
func (l *Library) Get(name string) (lospec.Palette, error) {
	name, err := normalize(name)
	if err != nil {
		return lospec.Palette{}, err
	}
	var model PaletteModel
	err = l.db.First(&model, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lospec.Palette{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return lospec.Palette{}, fmt.Errorf("failed to read palette %s: %w", name, err)
	}
	p, err := lospec.Loader{}.Load([]byte(model.Colors))
	if err != nil {
		return lospec.Palette{}, fmt.Errorf("stored palette %s: %w", name, err)
	}
	return p, nil
}

// List returns the stored palettes ordered by name.
func (l *Library) List() ([]Entry, error) {
	var models []PaletteModel
	err := l.db.Select("name", "count", "source", "updated_at").
		Order("name").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list palettes: %w", err)
	}
	entries := make([]Entry, len(models))
	for i, m := range models {
		entries[i] = Entry{Name: m.Name, Count: m.Count, Source: m.Source, UpdatedAt: m.UpdatedAt}
	}
	return entries, nil
}

// Delete removes the palette stored under name.
func (l *Library) Delete(name string) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	res := l.db.Delete(&PaletteModel{}, "name = ?", name)
	if res.Error != nil {
		return fmt.Errorf("failed to delete palette %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	l.log.WithField("palette", name).Info("Deleted palette")
	return nil
}

// Close releases the database connection.
func (l *Library) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
