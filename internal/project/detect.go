package project

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoProjectFound is returned when no marker exists between startPath and the filesystem root.
var ErrNoProjectFound = errors.New("no project root found")

// markerFiles are checked in order within one directory.
var markerFiles = []struct {
	name       string
	markerType MarkerType
}{
	{".officekit.yaml", MarkerOfficekit},
	{".officekit", MarkerOfficekit},
	{"manifest.xml", MarkerManifest},
	{"manifest.json", MarkerManifest},
	{"package.json", MarkerPackageJSON},
	{".git", MarkerGit},
}

// Detect walks up from startPath. An officekit marker wins immediately;
// otherwise the highest-priority marker closest to startPath wins.
func (d *detector) Detect(startPath string) (*Context, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	var (
		best    = &Context{MarkerType: MarkerNone}
		gitRoot string
	)
	for dir := absPath; ; {
		for _, m := range markerFiles {
			ok, err := afero.Exists(d.fs, filepath.Join(dir, m.name))
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if m.markerType == MarkerGit && gitRoot == "" {
				gitRoot = dir
			}
			if m.markerType.Priority() > best.MarkerType.Priority() {
				best = &Context{RootPath: dir, MarkerType: m.markerType}
			}
		}
		if best.MarkerType == MarkerOfficekit {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if best.MarkerType == MarkerNone {
		return nil, ErrNoProjectFound
	}
	best.GitRoot = gitRoot
	best.Manifest = d.findManifest(best.RootPath)
	return best, nil
}

func (d *detector) findManifest(dir string) string {
	for _, name := range []string{"manifest.xml", "manifest.json"} {
		p := filepath.Join(dir, name)
		if ok, _ := afero.Exists(d.fs, p); ok {
			return p
		}
	}
	return ""
}
