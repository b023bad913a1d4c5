package azure

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Provisioning output keys read by deploy actions.
const (
	OutputFunctionResourceID = "API_FUNCTION_RESOURCE_ID"
	OutputFunctionEndpoint   = "API_FUNCTION_ENDPOINT"
)

// Outputs are the key/value results of a previous provision run.
type Outputs struct {
	values map[string]string
	file   string
}

// NewOutputs wraps an in-memory map.
func NewOutputs(values map[string]string) Outputs {
	return Outputs{values: values}
}

// EnvFile returns the path of env/.env.<environment> under envDir.
func EnvFile(envDir, environment string) string {
	return filepath.Join(envDir, ".env."+environment)
}

// LoadOutputs reads env/.env.<environment>. A missing file gives empty
// outputs; the missing keys are reported when an action asks for them.
func LoadOutputs(fsys afero.Fs, envDir, environment string) (Outputs, error) {
	path := EnvFile(envDir, environment)
	out := Outputs{values: map[string]string{}, file: path}

	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	values, err := godotenv.Parse(f)
	if err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	out.values = values
	return out, nil
}

// Get returns a value and whether it is set to something non-blank.
func (o Outputs) Get(key string) (string, bool) {
	v := strings.TrimSpace(o.values[key])
	return v, v != ""
}

// Require returns a value or a *MissingOutputError.
func (o Outputs) Require(key string) (string, error) {
	v, ok := o.Get(key)
	if !ok {
		return "", &MissingOutputError{Key: key, EnvFile: o.file}
	}
	return v, nil
}
