package azure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// FuncIgnoreFile lists glob patterns excluded from the deploy package.
const FuncIgnoreFile = ".funcignore"

// Always excluded from the package, whatever .funcignore says.
var alwaysIgnored = []string{".git", "local.settings.json", FuncIgnoreFile}

// IgnoreRules decide which relative paths stay out of the package.
type IgnoreRules struct {
	patterns []string
}

// LoadIgnoreRules reads <dir>/.funcignore. Blank lines and # comments are skipped.
func LoadIgnoreRules(fsys afero.Fs, dir string) (*IgnoreRules, error) {
	rules := &IgnoreRules{patterns: append([]string(nil), alwaysIgnored...)}

	f, err := fsys.Open(filepath.Join(dir, FuncIgnoreFile))
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", FuncIgnoreFile, err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules.patterns = append(rules.patterns, strings.TrimSuffix(line, "/"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", FuncIgnoreFile, err)
	}
	return rules, nil
}

// Match reports whether rel (slash separated, relative to the build dir) is
// ignored. A pattern matches the full path, any single path element, or a
// leading directory of the path.
func (r *IgnoreRules) Match(rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	parts := strings.Split(rel, "/")
	for _, p := range r.patterns {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		for i, part := range parts {
			if ok, _ := path.Match(p, part); ok {
				return true
			}
			if ok, _ := path.Match(p, strings.Join(parts[:i+1], "/")); ok {
				return true
			}
		}
	}
	return false
}

// ZipDir writes a deflated zip of dir to w and returns the archived file
// paths in sorted order.
func ZipDir(fsys afero.Fs, dir string, rules *IgnoreRules, w io.Writer) ([]string, error) {
	if rules == nil {
		rules = &IgnoreRules{patterns: alwaysIgnored}
	}

	var files []string
	err := afero.Walk(fsys, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if rules.Match(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)

	zw := zip.NewWriter(w)
	for _, rel := range files {
		if err := addZipEntry(fsys, zw, dir, rel); err != nil {
			_ = zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish zip: %w", err)
	}
	return files, nil
}

func addZipEntry(fsys afero.Fs, zw *zip.Writer, dir, rel string) error {
	full := filepath.Join(dir, filepath.FromSlash(rel))
	info, err := fsys.Stat(full)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", rel, err)
	}
	hdr.Name = rel
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", rel, err)
	}
	src, err := fsys.Open(full)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("compress %s: %w", rel, err)
	}
	return nil
}
