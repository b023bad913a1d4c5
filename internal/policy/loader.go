package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// File is a loaded Rego source file.
type File struct {
	Path    string `json:"path"`
	Name    string `json:"name"` // base name without .rego
	Content string `json:"content"`
}

// IsTest reports whether the file holds Rego unit tests.
func (f *File) IsTest() bool {
	return strings.HasSuffix(f.Path, "_test.rego")
}

// Loader scans a directory tree for .rego files.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader creates a loader over fs rooted at baseDir.
// Use afero.NewMemMapFs() for testing.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs, baseDir: baseDir}
}

// LoadAll loads every .rego file under the base directory, tests included.
// A missing directory means no policies.
func (l *Loader) LoadAll() ([]*File, error) {
	if l.baseDir == "" {
		return nil, nil
	}
	exists, err := afero.DirExists(l.fs, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("check policies directory: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var files []*File
	err = afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".rego") {
			return nil
		}
		content, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("read policy %s: %w", path, err)
		}
		files = append(files, &File{
			Path:    path,
			Name:    strings.TrimSuffix(filepath.Base(path), ".rego"),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk policies directory: %w", err)
	}
	return files, nil
}
