// Package content projects a directory tree of subject folders and
// per-lesson JSON documents into ordered, typed records.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	lessonExt    = ".json"
	manifestName = "subject.yaml"
)

// Loader reads subjects and lessons from a content root. Every call to
// Load re-scans the filesystem, so edits to content files are picked up
// on the next request without a restart.
type Loader struct {
	root string
}

// NewLoader creates a loader bound to the given content root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load scans the content root and returns subjects ordered alphabetically
// by directory name, each with its lessons in display order. A missing
// root yields an empty result, not an error. Malformed lesson files are
// logged and skipped.
func (l *Loader) Load() ([]Subject, error) {
	entries, err := os.ReadDir(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("content root not found", "root", l.root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading content root: %w", err)
	}

	var subjects []Subject
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subject, err := l.loadSubject(entry.Name())
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// Subject loads the named subject, or reports false if no such directory
// exists under the content root.
func (l *Loader) Subject(name string) (Subject, bool, error) {
	subjects, err := l.Load()
	if err != nil {
		return Subject{}, false, err
	}
	for _, s := range subjects {
		if s.Name == name {
			return s, true, nil
		}
	}
	return Subject{}, false, nil
}

func (l *Loader) loadSubject(name string) (Subject, error) {
	dir := filepath.Join(l.root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Subject{}, fmt.Errorf("reading subject %s: %w", name, err)
	}

	subject := Subject{Name: name, Title: name, Lessons: []Lesson{}}
	seen := make(map[string]bool)

	// os.ReadDir returns entries sorted by filename, which fixes the
	// ordering among lessons with equal order values.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		if entry.Name() == manifestName {
			applyManifest(&subject, path)
			continue
		}
		if !strings.HasSuffix(entry.Name(), lessonExt) {
			continue
		}

		lesson, err := loadLesson(path, strings.TrimSuffix(entry.Name(), lessonExt))
		if err != nil {
			slog.Warn("skipping invalid lesson file", "path", path, "error", err)
			continue
		}
		if seen[lesson.Slug] {
			slog.Warn("skipping lesson with duplicate slug", "path", path, "slug", lesson.Slug)
			continue
		}
		seen[lesson.Slug] = true
		subject.Lessons = append(subject.Lessons, lesson)
	}

	sort.SliceStable(subject.Lessons, func(i, j int) bool {
		return subject.Lessons[i].Order < subject.Lessons[j].Order
	})
	return subject, nil
}

func loadLesson(path, stem string) (Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lesson{}, err
	}
	if err := validateLesson(data); err != nil {
		return Lesson{}, err
	}

	var doc struct {
		Title  string  `json:"title"`
		Order  *int    `json:"order"`
		Blocks []Block `json:"blocks"`
		Quiz   *Quiz   `json:"quiz"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Lesson{}, fmt.Errorf("decoding lesson: %w", err)
	}

	order := orderUnset
	if doc.Order != nil {
		order = *doc.Order
	}
	return Lesson{
		Slug:   Slugify(stem),
		Title:  doc.Title,
		Order:  order,
		Blocks: doc.Blocks,
		Quiz:   doc.Quiz,
	}, nil
}

func applyManifest(subject *Subject, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable subject manifest", "path", path, "error", err)
		return
	}
	var m struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		slog.Warn("skipping invalid subject manifest", "path", path, "error", err)
		return
	}
	if m.Title != "" {
		subject.Title = m.Title
	}
	subject.Description = m.Description
}
