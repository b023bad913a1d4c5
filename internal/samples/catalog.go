package samples

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// builtin holds the catalogue baked into the binary.
//
//go:embed catalog/*.yaml
var builtin embed.FS

// LoadBuiltin parses the embedded catalogue.
func LoadBuiltin() ([]Sample, error) {
	var all []Sample
	err := fs.WalkDir(builtin, "catalog", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		data, err := builtin.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", path, err)
		}
		parsed, err := parseCatalog(path, data)
		if err != nil {
			return err
		}
		all = append(all, parsed...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load builtin samples: %w", err)
	}
	return all, nil
}

// LoadDir parses every *.yaml / *.yml catalogue directly under dir.
func LoadDir(fsys afero.Fs, dir string) ([]Sample, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read samples dir %s: %w", dir, err)
	}

	var all []Sample
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		parsed, err := parseCatalog(path, data)
		if err != nil {
			return nil, err
		}
		all = append(all, parsed...)
	}
	return all, nil
}

func parseCatalog(path string, data []byte) ([]Sample, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range cf.Samples {
		if s.ID == "" || s.Host == "" || strings.TrimSpace(s.Code) == "" {
			return nil, fmt.Errorf("parse %s: sample %d needs id, host and code", path, i)
		}
		cf.Samples[i].Code = strings.TrimRight(s.Code, "\n")
	}
	return cf.Samples, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
