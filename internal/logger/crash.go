package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// CrashLogDir is the directory for crash logs under the officekit data dir
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10
)

// crashState is what we know about the process when a panic hits.
type crashState struct {
	mu         sync.RWMutex
	fs         afero.Fs
	basePath   string
	version    string
	command    string
	specID     string
	lastInput  string
	lastPrompt string
}

var crash = &crashState{fs: afero.NewOsFs()}

// SetBasePath sets the base path for crash logs (typically ~/.officekit).
func SetBasePath(path string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.command = cmd
}

// SetTurn records the request being processed: spec id and user input.
func SetTurn(specID, input string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.specID = specID
	crash.lastInput = clip(strings.TrimSpace(input), 500)
}

// SetLastPrompt sets the last prompt sent to the chat model.
func SetLastPrompt(prompt string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.lastPrompt = clip(prompt, 2000)
}

func clip(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashReport is the JSON document written for each panic.
type CrashReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	SpecID     string    `json:"spec_id,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastInput  string    `json:"last_input,omitempty"`
	LastPrompt string    `json:"last_prompt,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	path, err := recordPanic(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] could not write crash report: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] panic: %v\n%s\n", r, debug.Stack())
	} else {
		fmt.Fprintf(os.Stderr, "\nofficekit crashed. A report was saved to:\n  %s\n", path)
	}
	Sync()
	os.Exit(1)
}

// recordPanic logs and persists a crash report, returning its path.
func recordPanic(panicValue any) (string, error) {
	report := newCrashReport(panicValue)
	L().Error("panic recovered",
		zap.String("command", report.Command),
		zap.String("spec_id", report.SpecID),
		zap.String("panic", report.PanicValue))
	return writeCrashReport(report)
}

func newCrashReport(panicValue any) CrashReport {
	crash.mu.RLock()
	defer crash.mu.RUnlock()

	return CrashReport{
		Timestamp:  time.Now().UTC(),
		Version:    crash.version,
		Command:    crash.command,
		SpecID:     crash.specID,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  crash.lastInput,
		LastPrompt: crash.lastPrompt,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashReport(report CrashReport) (string, error) {
	crash.mu.RLock()
	fs := crash.fs
	crash.mu.RUnlock()

	dir := crashLogDir()
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.json", report.Timestamp.Format("20060102_150405.000")))
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}

	if err := pruneCrashLogs(fs, dir); err != nil {
		L().Warn("prune crash logs", zap.Error(err))
	}
	return path, nil
}

func crashLogDir() string {
	crash.mu.RLock()
	basePath := crash.basePath
	crash.mu.RUnlock()

	if basePath == "" {
		basePath = ".officekit"
	}
	return filepath.Join(basePath, CrashLogDir)
}

// pruneCrashLogs keeps the MaxCrashLogs newest reports.
func pruneCrashLogs(fs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= MaxCrashLogs {
		return nil
	}

	// Timestamped names sort oldest first.
	sort.Strings(names)
	for _, name := range names[:len(names)-MaxCrashLogs] {
		if err := fs.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}
