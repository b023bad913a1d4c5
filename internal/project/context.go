// Package project finds the root of an Office add-in project.
//
// Detection walks up from a start directory and ranks what it finds:
//  1. officekit config (.officekit.yaml or .officekit/): explicit root.
//  2. Office manifest (manifest.xml, manifest.json): the add-in itself.
//  3. package.json: a web project that may hold the add-in.
//  4. .git: repository root fallback.
package project

import "github.com/spf13/afero"

// MarkerType represents the type of project marker that was detected.
type MarkerType int

const (
	// MarkerNone indicates no project marker was found.
	MarkerNone MarkerType = iota

	// MarkerOfficekit indicates officekit configuration was found (highest priority).
	MarkerOfficekit

	// MarkerManifest indicates an Office add-in manifest was found.
	MarkerManifest

	// MarkerPackageJSON indicates a package.json file was found.
	MarkerPackageJSON

	// MarkerGit indicates a .git directory was found.
	MarkerGit
)

// String returns a human-readable name for the marker type.
func (m MarkerType) String() string {
	switch m {
	case MarkerNone:
		return "none"
	case MarkerOfficekit:
		return ".officekit"
	case MarkerManifest:
		return "manifest"
	case MarkerPackageJSON:
		return "package.json"
	case MarkerGit:
		return ".git"
	default:
		return "unknown"
	}
}

// Priority returns the detection priority for this marker type.
// Higher values indicate higher priority.
func (m MarkerType) Priority() int {
	switch m {
	case MarkerOfficekit:
		return 100
	case MarkerManifest:
		return 75
	case MarkerPackageJSON:
		return 50
	case MarkerGit:
		return 10
	default:
		return 0
	}
}

// Context describes a detected add-in project.
type Context struct {
	// RootPath is the absolute path to the detected project root.
	RootPath string

	// MarkerType indicates which marker identified the root.
	MarkerType MarkerType

	// Manifest is the path of the Office manifest under RootPath, if one exists.
	Manifest string

	// GitRoot is the nearest directory holding .git; empty if none.
	GitRoot string
}

// IsAddIn reports whether the root holds an Office manifest.
func (c *Context) IsAddIn() bool {
	return c.Manifest != ""
}

// Detector finds the project root starting from a path.
type Detector interface {
	Detect(startPath string) (*Context, error)
}

type detector struct {
	fs afero.Fs
}

// NewDetector creates a Detector over fs. Use afero.NewMemMapFs() for testing.
func NewDetector(fs afero.Fs) Detector {
	return &detector{fs: fs}
}

// Detect finds the project root from startPath on the OS filesystem.
func Detect(startPath string) (*Context, error) {
	return NewDetector(afero.NewOsFs()).Detect(startPath)
}
